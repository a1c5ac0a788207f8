package noop

import (
	"context"
	"log"

	"veridoc/internal/port"
)

type noopNotifier struct{}

// NewNoopNotifier creates a no-op Notifier that logs step notifications to stdout.
func NewNoopNotifier() port.Notifier {
	return &noopNotifier{}
}

func (s *noopNotifier) NotifyStepReady(_ context.Context, toEmail, toName string, n port.StepNotification) error {
	log.Printf("[NOOP EMAIL] Step %q ready on document %s for %s (%s)", n.StepLabel, n.DocumentNumber, toName, toEmail)
	return nil
}
