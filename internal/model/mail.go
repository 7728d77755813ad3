package model

import "context"

// ReportMail is an outgoing report message with a single attachment.
type ReportMail struct {
	Subject        string
	Body           string
	AttachmentName string
	Attachment     []byte
}

// Mailer delivers report messages over an opaque transport.
type Mailer interface {
	Send(ctx context.Context, m ReportMail) error
}
