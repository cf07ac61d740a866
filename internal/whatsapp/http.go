package whatsapp

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sambafall/teranga/internal/api"
	"github.com/sambafall/teranga/internal/offer"
)

// RegisterRoutes mounts the link generation endpoint. The caller is
// expected to guard the group with the auth middleware.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	router.POST("/whatsapp/generate-link", handler.generateLink)
}

type httpHandler struct {
	service *Service
}

type linkRequest struct {
	OfferID       string `json:"offerId" binding:"required"`
	Phone         string `json:"phone"`
	CustomerName  string `json:"customerName"`
	CustomMessage string `json:"customMessage"`
}

func (h *httpHandler) generateLink(c *gin.Context) {
	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, err.Error())
		return
	}

	offerID, err := uuid.Parse(req.OfferID)
	if err != nil {
		api.Error(c, http.StatusBadRequest, api.CodeValidation, "invalid offer id")
		return
	}

	link, err := h.service.GenerateLink(c.Request.Context(), LinkInput{
		OfferID:       offerID,
		Phone:         req.Phone,
		CustomerName:  req.CustomerName,
		CustomMessage: req.CustomMessage,
	})
	if err != nil {
		switch {
		case errors.Is(err, offer.ErrOfferNotFound):
			api.Error(c, http.StatusNotFound, api.CodeNotFound, "offer not found")
		case errors.Is(err, ErrDisabled):
			api.Error(c, http.StatusConflict, api.CodeConflict, "whatsapp booking is disabled")
		default:
			api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to generate link")
		}
		return
	}

	api.OK(c, gin.H{"link": link})
}
