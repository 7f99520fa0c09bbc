package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sellscout/sellscout-backend-go/internal/background"
	"github.com/sellscout/sellscout-backend-go/internal/middleware"
	"github.com/sellscout/sellscout-backend-go/internal/models"
	"github.com/sellscout/sellscout-backend-go/internal/service"
	"github.com/sellscout/sellscout-backend-go/pkg/response"
)

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	reports *service.ReportService
	pool    *background.Pool
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService, pool *background.Pool) *ReportHandler {
	return &ReportHandler{reports: reports, pool: pool}
}

// Generate queues an on-demand report for the authenticated user
// POST /api/v1/reports/generate
func (h *ReportHandler) Generate(c *gin.Context) {
	var req models.GenerateReportRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body")
			return
		}
	}

	kind := req.ReportKind
	switch kind {
	case "":
		kind = models.ReportKindManual
	case models.ReportKindDaily, models.ReportKindWeekly, models.ReportKindManual:
	default:
		response.BadRequest(c, "report_kind must be daily, weekly or manual")
		return
	}

	userID := middleware.UserID(c)
	queued := h.pool.Submit(background.Job{
		Name: fmt.Sprintf("report:%s:user=%d", kind, userID),
		Run: func(ctx context.Context) {
			h.reports.GenerateForUserID(ctx, userID, kind)
		},
	})
	if !queued {
		response.Error(c, http.StatusServiceUnavailable, "Report queue is full, try again later")
		return
	}

	response.Accepted(c, gin.H{"report_kind": kind})
}

// List returns the user's recent reports
// GET /api/v1/reports
func (h *ReportHandler) List(c *gin.Context) {
	summaries, err := h.reports.ListSummaries(middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "Failed to load reports")
		return
	}

	response.Success(c, gin.H{
		"reports": summaries,
		"count":   len(summaries),
	})
}
