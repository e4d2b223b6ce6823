// Package telemetry records the outcome of provider actions to an
// optional time-series sink.
package telemetry

import (
	"context"
	"time"

	"github.com/simplestation/ssu/kernel/model"
)

// ActionRecord describes one action that reached a terminal state.
type ActionRecord struct {
	NodeID    model.NodeID
	ActionID  model.ActionID
	Command   string
	State     model.ActionState
	ErrorCode string
	Polls     int
	Duration  time.Duration
	Finished  time.Time
}

type Reporter interface {
	RecordAction(ctx context.Context, record ActionRecord) error
	Close()
}

// Nop returns a Reporter that discards everything.
func Nop() Reporter {
	return nopReporter{}
}

type nopReporter struct{}

func (nopReporter) RecordAction(context.Context, ActionRecord) error { return nil }
func (nopReporter) Close()                                           {}
