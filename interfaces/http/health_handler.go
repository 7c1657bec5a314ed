package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is satisfied by the analysis store
type Pinger interface {
	Ping(ctx context.Context) error
}

type IHealthHandler interface {
	Healthz(c *gin.Context)
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) IHealthHandler {
	return &HealthHandler{store: store}
}

// Healthz reports ok when the store answers a ping
func (h *HealthHandler) Healthz(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(pingCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
