package model

import (
	"strconv"
	"time"
)

// NodeID is the provider-assigned identity of a node.
type NodeID int64

func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// NodeStatus is the provider's view of a node's power state.
type NodeStatus string

const (
	NodeInitializing NodeStatus = "initializing"
	NodeStarting     NodeStatus = "starting"
	NodeRunning      NodeStatus = "running"
	NodeStopping     NodeStatus = "stopping"
	NodeOff          NodeStatus = "off"
	NodeDeleting     NodeStatus = "deleting"
	NodeMigrating    NodeStatus = "migrating"
	NodeRebuilding   NodeStatus = "rebuilding"
	NodeUnknown      NodeStatus = "unknown"
)

func (s NodeStatus) IsOff() bool {
	return s == NodeOff
}

var statusRank = map[NodeStatus]int{
	NodeRunning:      0,
	NodeInitializing: 1,
	NodeStarting:     2,
	NodeStopping:     3,
	NodeOff:          4,
	NodeDeleting:     5,
	NodeMigrating:    6,
	NodeRebuilding:   7,
	NodeUnknown:      8,
}

// Rank orders statuses the way the provider declares them, running
// first. Statuses it does not know sort after all of them.
func (s NodeStatus) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}

// Node is a remote compute instance as reported by the provider.
type Node struct {
	ID             NodeID
	Name           string
	Status         NodeStatus
	Created        time.Time
	Shape          *Shape
	PrimaryDiskGiB int
	Location       string
}

// ShapeName returns the name of the node's current shape, or an empty
// string when the provider did not report one.
func (n *Node) ShapeName() string {
	if n.Shape == nil {
		return ""
	}
	return n.Shape.Name
}

// ParseNodeID reports whether the identifier is a non-negative decimal
// integer and returns it as a NodeID.
func ParseNodeID(identifier string) (NodeID, bool) {
	id, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return NodeID(id), true
}
