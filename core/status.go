package core

import (
	"sync"
	"time"
)

type Severity int

const (
	SeverityInfo Severity = iota
	SeveritySuccess
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeveritySuccess:
		return "success"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

type StatusMessage struct {
	Text     string
	Severity Severity
	Duration time.Duration
}

// Ready is the idle status every message reverts to.
var Ready = StatusMessage{Text: "Ready", Severity: SeverityInfo}

func successStatus(text string, d time.Duration) StatusMessage {
	return StatusMessage{Text: text, Severity: SeveritySuccess, Duration: d}
}

func errorStatus(text string, d time.Duration) StatusMessage {
	return StatusMessage{Text: text, Severity: SeverityError, Duration: d}
}

// StatusBar holds the message on display. Each message reverts to Ready
// after its Duration unless a newer message replaced it first.
type StatusBar struct {
	// deliver orders onChange calls; it is taken before mu.
	deliver  sync.Mutex
	mu       sync.Mutex
	current  StatusMessage
	timer    *time.Timer
	gen      uint64
	onChange func(StatusMessage)
}

// NewStatusBar starts at Ready. onChange, if set, runs after every change,
// including reversions, in the order the changes happened. It must not call
// Show.
func NewStatusBar(onChange func(StatusMessage)) *StatusBar {
	return &StatusBar{current: Ready, onChange: onChange}
}

func (b *StatusBar) Show(msg StatusMessage) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
	b.current = msg
	if msg.Duration > 0 {
		// A timer that already fired is told apart by its generation.
		gen := b.gen
		b.timer = time.AfterFunc(msg.Duration, func() { b.revert(gen) })
	}
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(msg)
	}
}

func (b *StatusBar) revert(gen uint64) {
	b.deliver.Lock()
	defer b.deliver.Unlock()

	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	b.current = Ready
	b.timer = nil
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(Ready)
	}
}

func (b *StatusBar) Current() StatusMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Stop cancels any pending reversion.
func (b *StatusBar) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.gen++
}
