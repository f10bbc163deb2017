// Package notifier renders analysis results and delivers them to the
// presentation side: a text report, the full series for charting, and
// optional push delivery.
package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Notifier delivers a rendered report.
type Notifier interface {
	Name() string
	Send(ctx context.Context, text string) error
}

// WriterNotifier writes each report to an io.Writer, separated by a blank line.
type WriterNotifier struct {
	mu sync.Mutex
	W  io.Writer
}

func NewWriterNotifier(w io.Writer) *WriterNotifier { return &WriterNotifier{W: w} }

func (n *WriterNotifier) Name() string { return "writer" }

func (n *WriterNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, err := fmt.Fprintf(n.W, "%s\n\n", text); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Retrying wraps a TelegramNotifier so Send retries with backoff.
type Retrying struct {
	*TelegramNotifier
	MaxRetries int
}

func (r Retrying) Send(ctx context.Context, text string) error {
	return r.SendWithRetry(ctx, text, r.MaxRetries)
}

// Multi fans a report out to every notifier and returns the first error.
type Multi []Notifier

func (m Multi) Name() string { return "multi" }

func (m Multi) Send(ctx context.Context, text string) error {
	var first error
	for _, n := range m {
		if err := n.Send(ctx, text); err != nil && first == nil {
			first = fmt.Errorf("%s: %w", n.Name(), err)
		}
	}
	return first
}
