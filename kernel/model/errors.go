package model

import "fmt"

// ResolutionError means no node matches the identifier the user gave.
type ResolutionError struct {
	Identifier string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no node found with the name or ID '%s'", e.Identifier)
}

// RemoteError wraps a transport or API failure from the provider.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// ActionFailure means an action reached its terminal error state.
type ActionFailure struct {
	ActionID ActionID
	Code     string
	Message  string
}

func (e *ActionFailure) Error() string {
	return fmt.Sprintf("action %d failed: %s: %s", e.ActionID, e.Code, e.Message)
}

// TimeoutExceeded means a node did not reach the off state within the
// bounded wait.
type TimeoutExceeded struct {
	NodeID     NodeID
	Attempts   int
	LastStatus NodeStatus
}

func (e *TimeoutExceeded) Error() string {
	return fmt.Sprintf("node %d did not shut down in time (%d attempts, last status %s)", e.NodeID, e.Attempts, e.LastStatus)
}
