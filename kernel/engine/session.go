package engine

import (
	"io"

	"github.com/simplestation/ssu/kernel/clock"
	"github.com/simplestation/ssu/kernel/provider"
	"github.com/simplestation/ssu/kernel/telemetry"
)

// Session carries the authenticated client and the collaborators every
// workflow needs. It is built once per process and never mutated; the
// With* methods return modified copies.
type Session struct {
	Client    provider.Client
	Clock     clock.Clock
	Progress  io.Writer
	Telemetry telemetry.Reporter
}

func NewSession(client provider.Client) *Session {
	return &Session{
		Client:    client,
		Clock:     clock.Real(),
		Progress:  io.Discard,
		Telemetry: telemetry.Nop(),
	}
}

func (s *Session) WithClock(c clock.Clock) *Session {
	copied := *s
	copied.Clock = c
	return &copied
}

func (s *Session) WithProgress(w io.Writer) *Session {
	copied := *s
	if w == nil {
		w = io.Discard
	}
	copied.Progress = w
	return &copied
}

func (s *Session) WithTelemetry(r telemetry.Reporter) *Session {
	copied := *s
	if r == nil {
		r = telemetry.Nop()
	}
	copied.Telemetry = r
	return &copied
}
