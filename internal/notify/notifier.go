// Package notify delivers reminder messages over an outbound transport.
package notify

import "context"

// Notifier sends one addressed message. The meaning of the address depends
// on the transport: an email address for SMTP, a chat ID for Telegram.
// Implementations are safe to call redundantly; at-most-once is the
// caller's job.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}
