package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/simplestation/ssu/kernel/model"
)

const (
	NodeOffPollInterval = 100 * time.Millisecond
	NodeOffMaxAttempts  = 50
)

// nodeOffWaiter polls a node until the provider reports it off, giving up
// after NodeOffMaxAttempts polls. An accepted power-off action does not
// mean the machine is down yet, and resizing needs it to be.
type nodeOffWaiter struct {
	session  *Session
	id       model.NodeID
	state    pollState
	attempts int
	last     model.NodeStatus
}

// AwaitNodeOff returns nil once the node is off, or *model.TimeoutExceeded
// when the attempt budget runs out.
func (s *Session) AwaitNodeOff(ctx context.Context, id model.NodeID) error {
	w := &nodeOffWaiter{session: s, id: id}
	fmt.Fprint(s.Progress, "Waiting for server to shut down")
	defer fmt.Fprintln(s.Progress)

	for w.state == statePolling {
		if err := w.step(ctx); err != nil {
			return err
		}
	}

	if w.state == stateTimedOut {
		return &model.TimeoutExceeded{NodeID: id, Attempts: w.attempts, LastStatus: w.last}
	}
	return nil
}

func (w *nodeOffWaiter) step(ctx context.Context) error {
	node, err := w.session.Client.GetNode(ctx, w.id)
	if err != nil {
		return err
	}
	w.attempts++
	w.last = node.Status

	if node.Status.IsOff() {
		w.state = stateSucceeded
		return nil
	}
	if w.attempts >= NodeOffMaxAttempts {
		w.state = stateTimedOut
		return nil
	}

	if w.attempts%3 == 0 {
		fmt.Fprint(w.session.Progress, ".")
	}
	return w.session.Clock.Sleep(ctx, NodeOffPollInterval)
}
