package engine

import (
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
)

// SignalKind classifies a user-facing notification.
type SignalKind int

const (
	// SignalApplied reports a command that went through.
	SignalApplied SignalKind = iota
	// SignalWarning is informational and never blocks the command.
	SignalWarning
	// SignalRejected reports a command the policy refused.
	SignalRejected
	// SignalModeChanged reports an emergency mode toggle.
	SignalModeChanged
)

func (k SignalKind) String() string {
	switch k {
	case SignalApplied:
		return "applied"
	case SignalWarning:
		return "warning"
	case SignalRejected:
		return "rejected"
	case SignalModeChanged:
		return "mode_changed"
	default:
		return "unknown"
	}
}

// Signal is a transient notification for the presentation layer.
type Signal struct {
	// Overage is set on emergency budget rejections: how far over the budget
	// the expense would have gone.
	Overage *decimal.Decimal
	Title   string
	Message string
	Kind    SignalKind
}

// Signal titles.
const (
	TitleExpenseAdded      = "Expense Added"
	TitleEmergencyActive   = "Emergency Mode Active"
	TitleBudgetExceeded    = "Emergency Budget Exceeded"
	TitleLowBalance        = "Low Balance Warning"
	TitleModeActivated     = "Emergency Mode Activated"
	TitleModeDeactivated   = "Emergency Mode Deactivated"
	TitleCannotDeleteInUse = "Cannot Delete Category"
)

// SignalSink receives signals as commands resolve. Publish must not block.
type SignalSink interface {
	Publish(Signal)
}

// SinkFunc adapts a function to SignalSink.
type SinkFunc func(Signal)

// Publish calls f(s).
func (f SinkFunc) Publish(s Signal) {
	f(s)
}

type discardSink struct{}

func (discardSink) Publish(Signal) {}

// ChannelSink buffers signals on a channel. When the buffer is full new
// signals are dropped rather than blocking the engine.
type ChannelSink struct {
	ch     chan Signal
	mu     sync.Mutex
	closed bool
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{ch: make(chan Signal, buffer)}
}

// Publish enqueues s without blocking.
func (c *ChannelSink) Publish(s Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	select {
	case c.ch <- s:
	default:
		slog.Warn("Signal buffer full, dropping signal", "kind", s.Kind, "title", s.Title)
	}
}

// Signals returns the receive side of the buffer.
func (c *ChannelSink) Signals() <-chan Signal {
	return c.ch
}

// Close closes the channel. Later publishes are ignored.
func (c *ChannelSink) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}
