package model

import "strconv"

// ActionID identifies one asynchronous provider operation.
type ActionID int64

func (id ActionID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

type ActionState string

const (
	ActionRunning ActionState = "running"
	ActionSuccess ActionState = "success"
	ActionError   ActionState = "error"
)

// Action is a snapshot of an asynchronous operation. Once State is
// ActionSuccess or ActionError it never changes again.
type Action struct {
	ID           ActionID
	Command      string
	State        ActionState
	Progress     int
	ErrorCode    string
	ErrorMessage string
}

func (a *Action) IsComplete() bool {
	return a.State == ActionSuccess || a.State == ActionError
}

// ShutdownMode selects one of the four ways of taking a node down.
type ShutdownMode int

const (
	PowerOff ShutdownMode = iota
	Shutdown
	SoftReboot
	Reset
)

// ShutdownModeFor maps the force/restart flag pair to a mode.
func ShutdownModeFor(force, restart bool) ShutdownMode {
	switch {
	case force && restart:
		return Reset
	case restart:
		return SoftReboot
	case force:
		return Shutdown
	default:
		return PowerOff
	}
}

func (m ShutdownMode) String() string {
	switch m {
	case PowerOff:
		return "poweroff"
	case Shutdown:
		return "shutdown"
	case SoftReboot:
		return "reboot"
	case Reset:
		return "reset"
	}
	return "unknown"
}
