// Package notify provides outcome notification senders.
package notify

import "context"

// Notifier sends a human-readable notification about a remediation
// outcome. Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, subject, message string) error
}

// Noop is used when no notification destination is configured.
type Noop struct{}

// Send discards the notification.
func (Noop) Send(ctx context.Context, subject, message string) error {
	return nil
}
