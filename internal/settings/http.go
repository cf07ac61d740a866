package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sambafall/teranga/internal/api"
)

// RegisterRoutes mounts the public settings endpoint.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	router.GET("/settings", handler.get)
}

// RegisterAdminRoutes mounts the settings update endpoint. The caller is
// expected to guard the group with the admin middleware.
func RegisterAdminRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	router.GET("/settings", handler.get)
	router.PUT("/settings", handler.update)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) get(c *gin.Context) {
	settings, err := h.service.Current(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to load settings")
		return
	}
	api.OK(c, settings)
}

func (h *httpHandler) update(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	settings, err := h.service.Update(c.Request.Context(), input)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to update settings")
		return
	}
	api.OK(c, settings)
}
