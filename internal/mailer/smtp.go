package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellscout/sellscout-backend-go/internal/analysis"
	"github.com/sellscout/sellscout-backend-go/internal/config"
)

// SMTPMailer delivers report emails over SMTP with STARTTLS auth.
type SMTPMailer struct {
	cfg config.SMTPConfig
	log zerolog.Logger

	// send is swappable for tests.
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates the real transport.
func NewSMTPMailer(cfg config.SMTPConfig, log zerolog.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		log:  log.With().Str("component", "mailer").Logger(),
		send: smtp.SendMail,
	}
}

// Send builds and delivers the report email. Transport failures are
// logged and reported as false; they never propagate.
func (m *SMTPMailer) Send(stats analysis.DetailedStats, recipientEmail, recipientName string) bool {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	msg := m.buildMessage(stats, recipientEmail, recipientName)

	if err := m.send(addr, auth, m.cfg.Sender, []string{recipientEmail}, msg); err != nil {
		m.log.Error().Str("to", recipientEmail).Err(err).Msg("report email failed")
		return false
	}
	m.log.Info().Str("to", recipientEmail).Msg("report email sent")
	return true
}

// Mode identifies the active variant for the status endpoint.
func (m *SMTPMailer) Mode() string { return "smtp" }

func (m *SMTPMailer) buildMessage(stats analysis.DetailedStats, recipientEmail, recipientName string) []byte {
	now := time.Now().UTC()
	subject := fmt.Sprintf("Product Research Report - %s", now.Format("2006-01-02"))

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.Sender)
	fmt.Fprintf(&b, "To: %s\r\n", recipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Product Research Report</h1>
    <p>Dear %s,</p>
    <p>Here is your automatically generated product analysis report:</p>
    <h3>Key statistics</h3>
    <ul>
      <li>Total products: <strong>%d</strong></li>
      <li>Average ROI: <strong>%.1f%%</strong></li>
      <li>Average profit per unit: <strong>$%.2f</strong></li>
      <li>High-value products: <strong>%d</strong></li>
      <li>Total revenue potential: <strong>$%.2f</strong></li>
    </ul>
    <h3>Best performer</h3>
    <p>Top ROI product: <strong>%s</strong></p>
    <p style="color: #7f8c8d; font-size: 0.9em;">Sent automatically at %s. Please do not reply.</p>
  </div>
</body>
</html>`,
		recipientName,
		stats.TotalProducts,
		stats.AvgROI,
		stats.AvgProfit,
		stats.HighValueCount,
		stats.TotalRevenue,
		stats.TopProduct,
		now.Format("2006-01-02 15:04:05"),
	)

	return []byte(b.String())
}
