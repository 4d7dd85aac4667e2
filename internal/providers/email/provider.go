// Package email delivers transactional mail, currently the payment-link
// notification sent after a checkout is created.
package email

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Provider interface {
	Send(ctx context.Context, msg Message) error
}

// NoOp discards mail. Used when SMTP is not configured.
type NoOp struct{}

func (NoOp) Send(ctx context.Context, msg Message) error { return nil }
