package model

import "context"

// Notifier delivers a message to an address. Send either delivers the whole
// message or returns an error.
type Notifier interface {
	Send(ctx context.Context, address, subject, body string) error
}
