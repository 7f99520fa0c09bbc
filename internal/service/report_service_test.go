package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/models"
)

type fakeUsers struct {
	eligible []models.User
	err      error
}

func (f *fakeUsers) ListEligible() ([]models.User, error) { return f.eligible, f.err }

func (f *fakeUsers) GetByID(id int64) (*models.User, error) {
	for i := range f.eligible {
		if f.eligible[i].ID == id {
			return &f.eligible[i], nil
		}
	}
	return nil, errors.New("user not found")
}

type fakeProducts struct {
	byUser map[int64][]models.Product
	errFor map[int64]error
}

func (f *fakeProducts) ListByUser(userID int64) ([]models.Product, error) {
	if err := f.errFor[userID]; err != nil {
		return nil, err
	}
	return f.byUser[userID], nil
}

type fakeReports struct {
	inserted  []*models.Report
	sentIDs   []int64
	insertErr error
	markErr   error
}

func (f *fakeReports) Insert(report *models.Report) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, report)
	return int64(len(f.inserted)), nil
}

func (f *fakeReports) MarkSent(id int64, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.sentIDs = append(f.sentIDs, id)
	return nil
}

func (f *fakeReports) ListRecent(userID int64, limit int) ([]models.Report, error) {
	var out []models.Report
	for _, r := range f.inserted {
		if r.UserID == userID && len(out) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeMailer struct {
	result bool
	sentTo []string
}

func (f *fakeMailer) Send(stats analysis.DetailedStats, recipientEmail, recipientName string) bool {
	f.sentTo = append(f.sentTo, recipientEmail)
	return f.result
}

func (f *fakeMailer) Mode() string { return "fake" }

func sampleProduct(userID int64, name string) models.Product {
	return models.Product{
		UserID:           userID,
		Name:             name,
		Category:         "Electronics",
		CurrentPrice:     40,
		EstimatedCost:    20,
		MonthlySales:     600,
		CompetitionLevel: models.CompetitionLow,
		ReviewRating:     4.8,
	}
}

func newTestReportService(users *fakeUsers, products *fakeProducts, reports *fakeReports, mail *fakeMailer) *ReportService {
	s := &ReportService{
		users:    users,
		products: products,
		reports:  reports,
		mail:     mail,
		scorer:   analysis.NewScorer(nil),
		now:      func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) },
		log:      zerolog.Nop(),
	}
	return s
}

func TestGeneratePersistsAndMarksSent(t *testing.T) {
	user := models.User{ID: 1, Username: "sam", Email: "sam@example.com"}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		1: {sampleProduct(1, "Earbuds")},
	}}
	reports := &fakeReports{}
	mail := &fakeMailer{result: true}
	s := newTestReportService(&fakeUsers{eligible: []models.User{user}}, products, reports, mail)

	report, err := s.Generate(&user, models.ReportKindDaily)
	require.NoError(t, err)

	require.Len(t, reports.inserted, 1)
	assert.Equal(t, []int64{report.ID}, reports.sentIDs)
	assert.True(t, report.SentViaEmail)
	require.NotNil(t, report.EmailSentAt)
	assert.Equal(t, []string{"sam@example.com"}, mail.sentTo)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(report.ReportData), &payload))
	assert.EqualValues(t, 1, payload["total_products"])
	assert.NotContains(t, payload, "weekly_insights")
}

func TestGenerateMailFailureDoesNotFailPipeline(t *testing.T) {
	user := models.User{ID: 1, Username: "sam", Email: "sam@example.com"}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		1: {sampleProduct(1, "Earbuds")},
	}}
	reports := &fakeReports{}
	mail := &fakeMailer{result: false}
	s := newTestReportService(&fakeUsers{eligible: []models.User{user}}, products, reports, mail)

	report, err := s.Generate(&user, models.ReportKindDaily)
	require.NoError(t, err)

	require.Len(t, reports.inserted, 1)
	assert.False(t, report.SentViaEmail)
	assert.Nil(t, report.EmailSentAt)
	assert.Empty(t, reports.sentIDs)
}

func TestGenerateWeeklyIncludesInsights(t *testing.T) {
	user := models.User{ID: 1, Username: "sam", Email: "sam@example.com"}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		1: {sampleProduct(1, "Earbuds")},
	}}
	s := newTestReportService(&fakeUsers{}, products, &fakeReports{}, &fakeMailer{result: true})

	report, err := s.Generate(&user, models.ReportKindWeekly)
	require.NoError(t, err)

	var payload struct {
		WeeklyInsights *WeeklyInsights `json:"weekly_insights"`
	}
	require.NoError(t, json.Unmarshal([]byte(report.ReportData), &payload))
	require.NotNil(t, payload.WeeklyInsights)
	assert.NotEmpty(t, payload.WeeklyInsights.TrendComparison)
	assert.NotEmpty(t, payload.WeeklyInsights.Recommendations)
}

func TestGenerateEmptyProductSet(t *testing.T) {
	user := models.User{ID: 1, Username: "sam", Email: "sam@example.com"}
	products := &fakeProducts{byUser: map[int64][]models.Product{}}
	s := newTestReportService(&fakeUsers{}, products, &fakeReports{}, &fakeMailer{result: true})

	report, err := s.Generate(&user, models.ReportKindManual)
	require.NoError(t, err)

	var payload analysis.DetailedStats
	require.NoError(t, json.Unmarshal([]byte(report.ReportData), &payload))
	assert.Zero(t, payload.TotalProducts)
	assert.Equal(t, analysis.NoDataPlaceholder, payload.TopProduct)
}

func TestGeneratePersistFailurePropagates(t *testing.T) {
	user := models.User{ID: 1, Username: "sam", Email: "sam@example.com"}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		1: {sampleProduct(1, "Earbuds")},
	}}
	reports := &fakeReports{insertErr: errors.New("disk full")}
	mail := &fakeMailer{result: true}
	s := newTestReportService(&fakeUsers{}, products, reports, mail)

	_, err := s.Generate(&user, models.ReportKindDaily)
	require.Error(t, err)
	assert.Empty(t, mail.sentTo, "no email without a persisted report")
}

func TestRunDailyReportsSkipsAndIsolates(t *testing.T) {
	users := &fakeUsers{eligible: []models.User{
		{ID: 1, Username: "active", Email: "a@example.com"},
		{ID: 2, Username: "empty", Email: "b@example.com"},
		{ID: 3, Username: "broken", Email: "c@example.com"},
		{ID: 4, Username: "also-active", Email: "d@example.com"},
	}}
	products := &fakeProducts{
		byUser: map[int64][]models.Product{
			1: {sampleProduct(1, "Earbuds")},
			4: {sampleProduct(4, "Yoga Mat")},
		},
		errFor: map[int64]error{3: errors.New("db gone")},
	}
	reports := &fakeReports{}
	s := newTestReportService(users, products, reports, &fakeMailer{result: true})

	require.NoError(t, s.RunDailyReports())

	// Users with no products are skipped, a failing user does not stop
	// the batch, and both active users get reports.
	require.Len(t, reports.inserted, 2)
	assert.Equal(t, int64(1), reports.inserted[0].UserID)
	assert.Equal(t, int64(4), reports.inserted[1].UserID)
	for _, r := range reports.inserted {
		assert.Equal(t, models.ReportKindDaily, r.ReportKind)
	}
}

func TestGenerateForUserID(t *testing.T) {
	users := &fakeUsers{eligible: []models.User{
		{ID: 7, Username: "sam", Email: "sam@example.com"},
	}}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		7: {sampleProduct(7, "Earbuds")},
	}}
	reports := &fakeReports{}
	s := newTestReportService(users, products, reports, &fakeMailer{result: true})

	s.GenerateForUserID(context.Background(), 7, models.ReportKindManual)
	require.Len(t, reports.inserted, 1)
	assert.Equal(t, models.ReportKindManual, reports.inserted[0].ReportKind)

	// Unknown users and cancelled contexts are no-ops.
	s.GenerateForUserID(context.Background(), 99, models.ReportKindManual)
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	s.GenerateForUserID(cancelled, 7, models.ReportKindManual)
	assert.Len(t, reports.inserted, 1)
}

func TestListSummaries(t *testing.T) {
	users := &fakeUsers{eligible: []models.User{
		{ID: 1, Username: "sam", Email: "sam@example.com"},
	}}
	products := &fakeProducts{byUser: map[int64][]models.Product{
		1: {sampleProduct(1, "Earbuds")},
	}}
	reports := &fakeReports{}
	s := newTestReportService(users, products, reports, &fakeMailer{result: true})

	_, err := s.Generate(&users.eligible[0], models.ReportKindDaily)
	require.NoError(t, err)

	summaries, err := s.ListSummaries(1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, models.ReportKindDaily, summaries[0].ReportKind)
	assert.True(t, summaries[0].SentViaEmail)
	assert.Equal(t, fmt.Sprintf("1 products, average ROI: %.1f%%", 100.0), summaries[0].Summary)
}
