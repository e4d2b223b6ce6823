package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

// ActionPollInterval is the pause between two polls of a running action.
const ActionPollInterval = 300 * time.Millisecond

type pollState int

const (
	statePolling pollState = iota
	stateSucceeded
	stateFailed
	stateTimedOut
)

func (s pollState) String() string {
	switch s {
	case statePolling:
		return "polling"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	case stateTimedOut:
		return "timed-out"
	}
	return "unknown"
}

// actionPoller follows one action until it reaches a terminal state.
// It has no attempt limit.
type actionPoller struct {
	session *Session
	id      model.ActionID
	state   pollState
	polls   int
	last    *model.Action
}

// AwaitCompletion polls the action until it succeeds or fails. A failed
// action is returned as *model.ActionFailure.
func (s *Session) AwaitCompletion(ctx context.Context, id model.ActionID) error {
	_, err := s.awaitAction(ctx, id)
	return err
}

func (s *Session) awaitAction(ctx context.Context, id model.ActionID) (*actionPoller, error) {
	p := &actionPoller{session: s, id: id}
	fmt.Fprintln(s.Progress)
	for p.state == statePolling {
		if err := p.step(ctx); err != nil {
			return p, err
		}
	}

	if p.state == stateFailed {
		return p, &model.ActionFailure{ActionID: id, Code: p.last.ErrorCode, Message: p.last.ErrorMessage}
	}
	return p, nil
}

func (p *actionPoller) step(ctx context.Context) error {
	action, err := p.session.Client.GetAction(ctx, p.id)
	if err != nil {
		return err
	}
	p.polls++
	p.last = action

	if !action.IsComplete() {
		if action.State != model.ActionRunning {
			return &model.RemoteError{Op: "get action", Err: errors.Errorf("action %d has unknown status '%s'", p.id, action.State)}
		}
		if action.Progress <= 0 {
			fmt.Fprint(p.session.Progress, "Waiting...\r")
		} else {
			fmt.Fprintf(p.session.Progress, "Progress... %.2f%%\r", float64(action.Progress))
		}
		return p.session.Clock.Sleep(ctx, ActionPollInterval)
	}

	if action.State == model.ActionSuccess {
		fmt.Fprintln(p.session.Progress, "Finished       ")
		p.state = stateSucceeded
	} else {
		fmt.Fprintln(p.session.Progress, "Failed         ")
		p.state = stateFailed
	}

	pfxlog.Logger().Debugf("action %d %s after %d poll(s)", p.id, p.state, p.polls)
	return nil
}
