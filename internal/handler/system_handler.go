package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellscout/sellscout-backend-go/internal/background"
	"github.com/sellscout/sellscout-backend-go/internal/mailer"
	"github.com/sellscout/sellscout-backend-go/internal/scheduler"
	"github.com/sellscout/sellscout-backend-go/pkg/response"
)

// SystemHandler exposes runtime status endpoints
type SystemHandler struct {
	scheduler *scheduler.Scheduler
	mail      mailer.Mailer
	pool      *background.Pool
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(sched *scheduler.Scheduler, mail mailer.Mailer, pool *background.Pool) *SystemHandler {
	return &SystemHandler{
		scheduler: sched,
		mail:      mail,
		pool:      pool,
		startedAt: time.Now().UTC(),
	}
}

// Health is the unauthenticated liveness probe
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Status reports scheduler tasks, mail mode and worker capacity
// GET /api/v1/system/status
func (h *SystemHandler) Status(c *gin.Context) {
	response.Success(c, gin.H{
		"server_time": time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.startedAt).Round(time.Second).String(),
		"mail_mode":   h.mail.Mode(),
		"workers":     h.pool.Workers(),
		"tasks":       h.scheduler.Tasks(),
	})
}

// History returns recent scheduled task runs, most recent first
// GET /api/v1/system/history
func (h *SystemHandler) History(c *gin.Context) {
	records := h.scheduler.History()
	response.Success(c, gin.H{
		"history": records,
		"count":   len(records),
	})
}
