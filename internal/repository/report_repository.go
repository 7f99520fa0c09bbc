package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sellscout/sellscout-backend-go/internal/models"
)

// ReportRepository handles database operations for reports
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Insert writes a new report row and returns the assigned id
func (r *ReportRepository) Insert(report *models.Report) (int64, error) {
	result, err := r.db.Exec(
		`INSERT INTO reports (user_id, report_kind, report_data, generated_at, sent_via_email)
		 VALUES (?, ?, ?, ?, ?)`,
		report.UserID, report.ReportKind, report.ReportData, report.GeneratedAt, report.SentViaEmail,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert report: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get report id: %w", err)
	}
	return id, nil
}

// MarkSent sets the sent flag and timestamp after a successful
// notification. Reports are otherwise immutable.
func (r *ReportRepository) MarkSent(id int64, at time.Time) error {
	result, err := r.db.Exec(
		"UPDATE reports SET sent_via_email = 1, email_sent_at = ? WHERE id = ?",
		at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark report sent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListRecent retrieves a user's most recent reports, newest first
func (r *ReportRepository) ListRecent(userID int64, limit int) ([]models.Report, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(
		`SELECT id, user_id, report_kind, report_data, generated_at, sent_via_email, email_sent_at
		 FROM reports WHERE user_id = ? ORDER BY generated_at DESC, id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		var rep models.Report
		var sentAt sql.NullTime
		err := rows.Scan(
			&rep.ID, &rep.UserID, &rep.ReportKind, &rep.ReportData,
			&rep.GeneratedAt, &rep.SentViaEmail, &sentAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		if sentAt.Valid {
			rep.EmailSentAt = &sentAt.Time
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// CountByUser returns the number of reports generated for a user
func (r *ReportRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow("SELECT COUNT(*) FROM reports WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}
