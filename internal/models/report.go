package models

import "time"

// Report kind constants
const (
	ReportKindDaily  = "daily"
	ReportKindWeekly = "weekly"
	ReportKindManual = "manual"
)

// Report is the persisted output of one pipeline run for one user.
// Rows are written once; only the sent flag and timestamp may be set
// afterwards.
type Report struct {
	ID           int64      `json:"id" db:"id"`
	UserID       int64      `json:"user_id" db:"user_id"`
	ReportKind   string     `json:"report_kind" db:"report_kind"`
	ReportData   string     `json:"report_data" db:"report_data"`
	GeneratedAt  time.Time  `json:"generated_at" db:"generated_at"`
	SentViaEmail bool       `json:"sent_via_email" db:"sent_via_email"`
	EmailSentAt  *time.Time `json:"email_sent_at,omitempty" db:"email_sent_at"`
}

// ReportSummary is the list-view projection of a report
type ReportSummary struct {
	ID           int64     `json:"id"`
	ReportKind   string    `json:"report_kind"`
	GeneratedAt  time.Time `json:"generated_at"`
	SentViaEmail bool      `json:"sent_via_email"`
	Summary      string    `json:"summary"`
}

// GenerateReportRequest represents an on-demand report request
type GenerateReportRequest struct {
	ReportKind string `json:"report_kind"`
}
