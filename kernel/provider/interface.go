package provider

import (
	"context"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

// ErrNodeNotFound is returned by GetNode when the provider has no node
// with the requested ID.
var ErrNodeNotFound = errors.New("node not found")

// NodeFilter narrows a node listing. An empty Name lists every node.
type NodeFilter struct {
	Name string
}

// Client is the remote side of every node operation. Mutating calls
// return the ID of the action the provider created for them; the action
// must be polled through GetAction to learn its outcome.
type Client interface {
	ListNodes(ctx context.Context, filter NodeFilter) ([]*model.Node, error)
	GetNode(ctx context.Context, id model.NodeID) (*model.Node, error)

	PowerOn(ctx context.Context, id model.NodeID) (model.ActionID, error)
	PowerOff(ctx context.Context, id model.NodeID) (model.ActionID, error)
	Shutdown(ctx context.Context, id model.NodeID) (model.ActionID, error)
	SoftReboot(ctx context.Context, id model.NodeID) (model.ActionID, error)
	Reset(ctx context.Context, id model.NodeID) (model.ActionID, error)
	ChangeShape(ctx context.Context, id model.NodeID, shape model.ShapeID, upgradeDisk bool) (model.ActionID, error)

	GetAction(ctx context.Context, id model.ActionID) (*model.Action, error)
	ListShapes(ctx context.Context) ([]*model.Shape, error)
}

// SubmitShutdown dispatches the mode to the matching Client call.
func SubmitShutdown(ctx context.Context, c Client, id model.NodeID, mode model.ShutdownMode) (model.ActionID, error) {
	switch mode {
	case model.PowerOff:
		return c.PowerOff(ctx, id)
	case model.Shutdown:
		return c.Shutdown(ctx, id)
	case model.SoftReboot:
		return c.SoftReboot(ctx, id)
	case model.Reset:
		return c.Reset(ctx, id)
	}
	return 0, errors.Errorf("unknown shutdown mode %d", mode)
}
