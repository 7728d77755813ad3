package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice/internal/model"
	"backoffice/internal/testutil"
)

type captureMailer struct {
	sent []model.ReportMail
	err  error
}

func (m *captureMailer) Send(ctx context.Context, mail model.ReportMail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func TestReport_Send(t *testing.T) {
	mailer := &captureMailer{}
	svc := NewReport(mailer, testutil.MakeNoopLogger())
	svc.now = func() time.Time { return time.Date(2025, time.March, 7, 21, 45, 0, 0, time.UTC) }

	sentAt, err := svc.Send(context.Background(), ReportFields{
		Cashless: "12000",
		Card:     "3500",
		Cash:     "800",
	}, []byte("spreadsheet"))
	require.NoError(t, err)
	assert.Equal(t, "21:45", sentAt)

	require.Len(t, mailer.sent, 1)
	m := mailer.sent[0]
	assert.Equal(t, "07.03.25", m.Subject)
	assert.Equal(t, "07.03.25.xlsx", m.AttachmentName)
	assert.Equal(t, []byte("spreadsheet"), m.Attachment)

	assert.Equal(t, "Добрый вечер!\n\nБезналичная оплата: 12000\nНа карту: 3500\nНаличные: 800\n\nС уважением", m.Body)
}

func TestReport_Send_EmptyFieldsOmitted(t *testing.T) {
	mailer := &captureMailer{}
	svc := NewReport(mailer, testutil.MakeNoopLogger())

	_, err := svc.Send(context.Background(), ReportFields{QR: "150"}, nil)
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Добрый вечер!\n\nQR-код: 150\n\nС уважением", mailer.sent[0].Body)
}

func TestReport_Send_MailerError(t *testing.T) {
	mailer := &captureMailer{err: errors.New("connection refused")}
	svc := NewReport(mailer, testutil.MakeNoopLogger())

	sentAt, err := svc.Send(context.Background(), ReportFields{}, nil)
	require.Error(t, err)
	assert.Empty(t, sentAt)
	assert.Contains(t, err.Error(), "connection refused")
}
