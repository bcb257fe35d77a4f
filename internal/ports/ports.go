package ports

import (
	"context"
	"time"

	"darkwebmonitor/internal/domain"
)

// MentionSource pulls one batch of normalized mentions from an upstream
// collector. Sources are pure producers; all decision logic lives in the
// pipeline.
type MentionSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Mention, error)
}

// AlertStage is one composable step of the analysis pipeline; a nil result
// means the alert was suppressed.
type AlertStage interface {
	Apply(alert *domain.Alert) *domain.Alert
}

// AlertNotifier delivers a formatted alert message to an outbound channel.
type AlertNotifier interface {
	Send(ctx context.Context, message string, severity domain.Severity) error
}

// AlertArchive persists dispatched alerts for audit and search. Storage is a
// boundary consumer only; archive failures never affect the pipeline.
type AlertArchive interface {
	Store(ctx context.Context, alert domain.Alert) error
}

// Scheduler controls when monitoring cycles execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
