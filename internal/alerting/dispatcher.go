package alerting

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"darkwebmonitor/internal/domain"
	"darkwebmonitor/internal/ports"
)

// Dispatcher delivers alerts to the configured channel with a console
// fallback. Delivery is attempted exactly once; there is no retry, backoff,
// or dead-letter queue.
type Dispatcher struct {
	notifier ports.AlertNotifier
	console  io.Writer
}

// NewDispatcher wires an optional notifier. When notifier is nil every
// alert falls back to the console sink. console may be nil, defaulting to
// stdout.
func NewDispatcher(notifier ports.AlertNotifier, console io.Writer) *Dispatcher {
	if console == nil {
		console = os.Stdout
	}
	return &Dispatcher{notifier: notifier, console: console}
}

// Dispatch renders and delivers the alert. With no channel configured the
// console fallback counts as success; a configured but failing channel
// returns false and the caller logs the failure.
func (d *Dispatcher) Dispatch(ctx context.Context, alert domain.Alert) bool {
	message := FormatMessage(alert)

	if d.notifier == nil {
		divider := strings.Repeat("=", 80)
		fmt.Fprintf(d.console, "%s\nALERT: %s SEVERITY\n%s\n%s\n", divider, alert.Severity, message, divider)
		return true
	}

	return d.notifier.Send(ctx, message, alert.Severity) == nil
}
