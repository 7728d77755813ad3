package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/logger"
	"backoffice/internal/model"
)

// ReportFields are the optional payment figures of a daily sales report.
// Empty fields are omitted from the message body.
type ReportFields struct {
	Cashless string
	Card     string
	QR       string
	Cash     string
}

// Report composes and sends the daily sales report with the uploaded
// spreadsheet attached.
type Report struct {
	mailer model.Mailer
	logger *logger.Logger
	now    func() time.Time
}

func NewReport(mailer model.Mailer, logger *logger.Logger) *Report {
	return &Report{
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Send mails the report. The subject and attachment name carry the current
// date; the returned time is what the status message shows the operator.
func (r *Report) Send(ctx context.Context, fields ReportFields, attachment []byte) (sentAt string, err error) {
	now := r.now()
	date := now.Format("02.01.06")

	m := model.ReportMail{
		Subject:        date,
		Body:           reportBody(fields),
		AttachmentName: date + ".xlsx",
		Attachment:     attachment,
	}

	if err := r.mailer.Send(ctx, m); err != nil {
		r.logger.Error("Report service: failed to send report", "error", err.Error())
		return "", fmt.Errorf("send report: %w", err)
	}

	r.logger.Info("Report service: report sent", "subject", m.Subject)
	return now.Format("15:04"), nil
}

func reportBody(fields ReportFields) string {
	var b strings.Builder
	b.WriteString("Добрый вечер!\n\n")
	if fields.Cashless != "" {
		fmt.Fprintf(&b, "Безналичная оплата: %s\n", fields.Cashless)
	}
	if fields.Card != "" {
		fmt.Fprintf(&b, "На карту: %s\n", fields.Card)
	}
	if fields.QR != "" {
		fmt.Fprintf(&b, "QR-код: %s\n", fields.QR)
	}
	if fields.Cash != "" {
		fmt.Fprintf(&b, "Наличные: %s\n", fields.Cash)
	}
	b.WriteString("\nС уважением")
	return b.String()
}
