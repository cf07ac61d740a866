package category

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/api"
)

// RegisterRoutes mounts the public category listing.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	router.GET("/categories", handler.listPublic)
}

// RegisterAdminRoutes mounts the management endpoints. The caller is
// expected to guard the group with the admin middleware.
func RegisterAdminRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	group := router.Group("/categories")
	{
		group.GET("", handler.listAll)
		group.POST("", handler.create)
		group.GET("/:categoryID", handler.get)
		group.PATCH("/:categoryID", handler.update)
		group.PATCH("/:categoryID/toggle-status", handler.toggleStatus)
		group.DELETE("/:categoryID", handler.remove)
	}
}

type httpHandler struct {
	service *Service
}

type createRequest struct {
	Name         string `json:"name" binding:"required,max=128"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     *bool  `json:"isActive"`
}

type updateRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=128"`
	Description  *string `json:"description"`
	Icon         *string `json:"icon"`
	DisplayOrder *int    `json:"displayOrder"`
	IsActive     *bool   `json:"isActive"`
}

func (h *httpHandler) listPublic(c *gin.Context) {
	categories, err := h.service.Public(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to list categories")
		return
	}
	api.OK(c, categories)
}

func (h *httpHandler) listAll(c *gin.Context) {
	categories, err := h.service.All(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to list categories")
		return
	}
	api.OK(c, categories)
}

func (h *httpHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	api.OK(c, cat)
}

func (h *httpHandler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	cat, err := h.service.Create(c.Request.Context(), CreateInput{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	api.Created(c, cat)
}

func (h *httpHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	cat, err := h.service.Update(c.Request.Context(), id, UpdateInput{
		Name:         req.Name,
		Description:  req.Description,
		Icon:         req.Icon,
		DisplayOrder: req.DisplayOrder,
		IsActive:     req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	api.OK(c, cat)
}

func (h *httpHandler) toggleStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	cat, err := h.service.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	api.OK(c, gin.H{"id": cat.ID, "isActive": cat.IsActive})
}

func (h *httpHandler) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	api.Message(c, "category deleted")
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("categoryID"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid category id")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrCategoryNotFound):
		api.Error(c, http.StatusNotFound, api.CodeNotFound, "category not found")
	case errors.Is(err, ErrNameAlreadyUsed):
		api.Error(c, http.StatusConflict, api.CodeAlreadyExists, "category name already used")
	case errors.Is(err, ErrInvalidInput):
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
	default:
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to process category")
	}
}
