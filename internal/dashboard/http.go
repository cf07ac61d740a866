package dashboard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sambafall/teranga/internal/api"
)

// StatsSource yields the dashboard aggregates.
type StatsSource interface {
	Stats(ctx context.Context) (Stats, error)
}

// RegisterRoutes mounts the dashboard endpoint. The caller is expected to
// guard the group with the admin middleware.
func RegisterRoutes(router *gin.RouterGroup, source StatsSource) {
	handler := &httpHandler{source: source}
	router.GET("/dashboard/stats", handler.stats)
}

type httpHandler struct {
	source StatsSource
}

func (h *httpHandler) stats(c *gin.Context) {
	stats, err := h.source.Stats(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, api.CodeInternal, "failed to compute dashboard stats")
		return
	}
	api.OK(c, stats)
}
