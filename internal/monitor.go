package internal

import (
	"context"
	"sync"
	"time"
)

// IdentityFunc computes the current chat identity. An empty string or an
// error means no identity is available on this tick.
type IdentityFunc func(ctx context.Context) (string, error)

// ChatChange is emitted when the displayed conversation changes
type ChatChange struct {
	Previous string
	Current  string
}

// Ticker abstracts time.Ticker so tests can drive the monitor by hand
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	t *time.Ticker
}

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// Monitor polls a chat identity and reports changes
type Monitor struct {
	identity  IdentityFunc
	interval  time.Duration
	onChange  func(context.Context, ChatChange)
	newTicker func(time.Duration) Ticker

	mu   sync.Mutex
	last string
}

// MonitorOption configures a Monitor
type MonitorOption func(*Monitor)

// WithTicker replaces the ticker factory
func WithTicker(newTicker func(time.Duration) Ticker) MonitorOption {
	return func(m *Monitor) {
		m.newTicker = newTicker
	}
}

// NewMonitor creates a monitor calling onChange whenever the identity
// differs from the previous non-empty one
func NewMonitor(identity IdentityFunc, interval time.Duration, onChange func(context.Context, ChatChange), opts ...MonitorOption) *Monitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	m := &Monitor{
		identity: identity,
		interval: interval,
		onChange: onChange,
		newTicker: func(d time.Duration) Ticker {
			return timeTicker{t: time.NewTicker(d)}
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tick runs one poll. The last identity is updated on every tick, including
// the first and including ticks where no identity was found.
func (m *Monitor) Tick(ctx context.Context) (ChatChange, bool) {
	current, err := m.identity(ctx)
	if err != nil {
		LogDebug("Chat identity unavailable: %v", err)
		current = ""
	}

	m.mu.Lock()
	previous := m.last
	m.last = current
	m.mu.Unlock()

	if previous == "" || current == "" || previous == current {
		return ChatChange{}, false
	}

	change := ChatChange{Previous: previous, Current: current}
	LogInfo("Chat changed from %q to %q", previous, current)
	if m.onChange != nil {
		m.onChange(ctx, change)
	}
	return change, true
}

// Last returns the identity seen on the most recent tick
func (m *Monitor) Last() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Run ticks until ctx is cancelled
func (m *Monitor) Run(ctx context.Context) error {
	ticker := m.newTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C():
			m.Tick(ctx)
		}
	}
}

// ChatIdentity returns the chat heading text, or the page path when no
// heading is rendered
func ChatIdentity(doc *Document, chain SelectorChain) string {
	if doc == nil {
		return ""
	}
	if doc.DOM != nil {
		if title := ChatTitle(doc.DOM.Selection, chain); title != "" {
			return title
		}
	}
	return doc.Path()
}

// SourceIdentity adapts a DocumentSource into an IdentityFunc
func SourceIdentity(source DocumentSource, chain SelectorChain) IdentityFunc {
	return func(ctx context.Context) (string, error) {
		doc, err := source.Load(ctx)
		if err != nil {
			return "", err
		}
		return ChatIdentity(doc, chain), nil
	}
}
