package service

import "context"

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, plainBody, htmlBody string) error
}
