package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/mailer"
	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// UserSource supplies users to the report pipeline.
type UserSource interface {
	ListEligible() ([]models.User, error)
	GetByID(id int64) (*models.User, error)
}

// ProductSource supplies products to the report pipeline.
type ProductSource interface {
	ListByUser(userID int64) ([]models.Product, error)
}

// ReportStore persists generated reports.
type ReportStore interface {
	Insert(report *models.Report) (int64, error)
	MarkSent(id int64, at time.Time) error
	ListRecent(userID int64, limit int) ([]models.Report, error)
}

// WeeklyInsights is the extra block attached to weekly summaries.
type WeeklyInsights struct {
	TrendComparison string   `json:"trend_comparison"`
	Recommendations []string `json:"recommendations"`
}

type reportPayload struct {
	analysis.DetailedStats
	WeeklyInsights *WeeklyInsights `json:"weekly_insights,omitempty"`
}

// ReportService runs the report pipeline: aggregate product data,
// compute statistics, persist the report, then attempt notification.
type ReportService struct {
	users    UserSource
	products ProductSource
	reports  ReportStore
	mail     mailer.Mailer
	scorer   *analysis.Scorer
	now      func() time.Time
	log      zerolog.Logger
}

// NewReportService creates a new report service
func NewReportService(users UserSource, products ProductSource, reports ReportStore, mail mailer.Mailer, scorer *analysis.Scorer, log zerolog.Logger) *ReportService {
	return &ReportService{
		users:    users,
		products: products,
		reports:  reports,
		mail:     mail,
		scorer:   scorer,
		now:      func() time.Time { return time.Now().UTC() },
		log:      log.With().Str("component", "reports").Logger(),
	}
}

// Generate runs the pipeline for one user. An empty product set still
// produces a report with an explicit zero payload. A failed notification
// never fails the pipeline; it only leaves the sent flag false.
func (s *ReportService) Generate(user *models.User, kind string) (*models.Report, error) {
	products, err := s.products.ListByUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("load products for user %d: %w", user.ID, err)
	}

	stats := analysis.ComputeStats(Snapshots(products), s.scorer)

	payload := reportPayload{DetailedStats: stats}
	if kind == models.ReportKindWeekly {
		payload.WeeklyInsights = &WeeklyInsights{
			TrendComparison: "Stable performance this week",
			Recommendations: []string{
				"Focus on high-ROI products",
				"Rework strategy for low-velocity listings",
			},
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal report payload: %w", err)
	}

	report := &models.Report{
		UserID:      user.ID,
		ReportKind:  kind,
		ReportData:  string(data),
		GeneratedAt: s.now(),
	}
	id, err := s.reports.Insert(report)
	if err != nil {
		return nil, fmt.Errorf("persist report for user %d: %w", user.ID, err)
	}
	report.ID = id

	if s.mail.Send(stats, user.Email, user.Username) {
		sentAt := s.now()
		if err := s.reports.MarkSent(id, sentAt); err != nil {
			return nil, fmt.Errorf("mark report %d sent: %w", id, err)
		}
		report.SentViaEmail = true
		report.EmailSentAt = &sentAt
	}

	s.log.Info().Int64("user_id", user.ID).Str("kind", kind).
		Bool("sent", report.SentViaEmail).Msg("report generated")
	return report, nil
}

// RunDailyReports generates daily reports for every eligible user. It is
// registered as a scheduled task; per-user failures are logged and never
// abort the batch.
func (s *ReportService) RunDailyReports() error {
	return s.runBatch(models.ReportKindDaily)
}

// RunWeeklySummary generates weekly summaries for every eligible user.
func (s *ReportService) RunWeeklySummary() error {
	return s.runBatch(models.ReportKindWeekly)
}

func (s *ReportService) runBatch(kind string) error {
	users, err := s.users.ListEligible()
	if err != nil {
		return fmt.Errorf("list eligible users: %w", err)
	}

	s.log.Info().Str("kind", kind).Int("users", len(users)).Msg("report batch started")
	for i := range users {
		user := &users[i]

		products, err := s.products.ListByUser(user.ID)
		if err != nil {
			s.log.Error().Int64("user_id", user.ID).Err(err).Msg("skipping user in report batch")
			continue
		}
		if len(products) == 0 {
			continue
		}

		if _, err := s.Generate(user, kind); err != nil {
			s.log.Error().Int64("user_id", user.ID).Err(err).Msg("report generation failed")
		}
	}
	s.log.Info().Str("kind", kind).Msg("report batch finished")
	return nil
}

// GenerateForUserID runs the pipeline for one user in the background.
// Outcomes are observable only via the report list.
func (s *ReportService) GenerateForUserID(ctx context.Context, userID int64, kind string) {
	if err := ctx.Err(); err != nil {
		return
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		s.log.Error().Int64("user_id", userID).Err(err).Msg("user lookup failed for background report")
		return
	}

	if _, err := s.Generate(user, kind); err != nil {
		s.log.Error().Int64("user_id", userID).Err(err).Msg("background report failed")
	}
}

// ListSummaries returns a user's recent reports with a one-line summary
// extracted from each payload.
func (s *ReportService) ListSummaries(userID int64) ([]models.ReportSummary, error) {
	reports, err := s.reports.ListRecent(userID, 10)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ReportSummary, 0, len(reports))
	for _, rep := range reports {
		var payload struct {
			TotalProducts int     `json:"total_products"`
			AvgROI        float64 `json:"avg_roi"`
		}
		if err := json.Unmarshal([]byte(rep.ReportData), &payload); err != nil {
			s.log.Warn().Int64("report_id", rep.ID).Err(err).Msg("unreadable report payload")
		}

		summaries = append(summaries, models.ReportSummary{
			ID:           rep.ID,
			ReportKind:   rep.ReportKind,
			GeneratedAt:  rep.GeneratedAt,
			SentViaEmail: rep.SentViaEmail,
			Summary:      fmt.Sprintf("%d products, average ROI: %.1f%%", payload.TotalProducts, payload.AvgROI),
		})
	}
	return summaries, nil
}
