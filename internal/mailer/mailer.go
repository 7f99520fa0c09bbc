package mailer

import (
	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/config"
)

// Mailer delivers report summaries to users. Send never panics or
// propagates transport errors past its boundary; any failure is logged
// and reported as false.
type Mailer interface {
	Send(stats analysis.DetailedStats, recipientEmail, recipientName string) bool
	Mode() string
}

// Select chooses the mailer variant once at startup: the SMTP transport
// when a server and account are configured, otherwise the logging stub.
func Select(cfg config.SMTPConfig, log zerolog.Logger) Mailer {
	if cfg.Host != "" && cfg.Username != "" {
		return NewSMTPMailer(cfg, log)
	}
	return NewLogMailer(log)
}

// LogMailer is the null variant: it logs what would have been sent and
// always reports success.
type LogMailer struct {
	log zerolog.Logger
}

// NewLogMailer creates the logging stub.
func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

// Send logs the report summary instead of delivering it.
func (m *LogMailer) Send(stats analysis.DetailedStats, recipientEmail, recipientName string) bool {
	m.log.Info().
		Str("to", recipientEmail).
		Str("name", recipientName).
		Int("total_products", stats.TotalProducts).
		Float64("avg_roi", stats.AvgROI).
		Int("high_value_count", stats.HighValueCount).
		Float64("total_revenue", stats.TotalRevenue).
		Msg("simulated report email")
	return true
}

// Mode identifies the active variant for the status endpoint.
func (m *LogMailer) Mode() string { return "simulated" }
