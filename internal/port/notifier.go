package port

import "context"

// StepNotification describes a workflow step awaiting action.
type StepNotification struct {
	DocumentID     string
	DocumentTitle  string
	DocumentNumber string
	StepLabel      string
	SLAHours       int
}

// Notifier informs users that a workflow step is waiting on their role.
// Delivery is best effort; a failed notification never blocks or reverses a
// workflow transition.
type Notifier interface {
	NotifyStepReady(ctx context.Context, toEmail, toName string, n StepNotification) error
}
