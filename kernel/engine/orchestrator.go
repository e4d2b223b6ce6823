package engine

import (
	"context"
	"fmt"

	"github.com/michaelquigley/pfxlog"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/provider"
	"github.com/simplestation/ssu/kernel/telemetry"
)

// Rescale moves a node to req.TargetShape, shutting it down first when it
// is not already off. Without a target it only reports the shapes the
// node could be moved to. A failure midway is returned as-is; nothing
// that already happened is undone.
func (s *Session) Rescale(ctx context.Context, req model.RescaleRequest) (*model.RescaleOutcome, error) {
	id, err := s.mustResolve(ctx, req.Node)
	if err != nil {
		return nil, err
	}
	node, err := s.getNode(ctx, req.Node, id)
	if err != nil {
		return nil, err
	}

	outcome := &model.RescaleOutcome{NodeID: id, CurrentShape: node.ShapeName()}
	log := pfxlog.Logger().WithField("node", id)

	if req.TargetShape == nil {
		if node.Shape == nil {
			return nil, &model.RemoteError{Op: "get server", Err: errors.Errorf("node %d reported no shape", id)}
		}
		catalog, err := s.Client.ListShapes(ctx)
		if err != nil {
			return nil, err
		}
		outcome.Shapes = CompatibleShapes(catalog, node.PrimaryDiskGiB, node.Shape.Architecture, node.Location)
		log.Debugf("%d of %d shapes compatible with %s", len(outcome.Shapes), len(catalog), node.ShapeName())
		return outcome, nil
	}

	if !node.Status.IsOff() {
		fmt.Fprintln(s.Progress, "Shutting down the server...")
		log.Infof("node is %s, powering off before rescale", node.Status)
		if err := s.shutdown(ctx, id, model.PowerOff); err != nil {
			return nil, err
		}
		if err := s.AwaitNodeOff(ctx, id); err != nil {
			return nil, err
		}
		outcome.ShutdownPerformed = true
	}

	log.Infof("changing shape %s -> %d", node.ShapeName(), *req.TargetShape)
	actionID, err := s.Client.ChangeShape(ctx, id, *req.TargetShape, false)
	if err != nil {
		return nil, err
	}
	if err := s.track(ctx, id, actionID, "change_server_type"); err != nil {
		return nil, err
	}

	outcome.Changed = true
	return outcome, nil
}

// CompatibleShapesFor lists the shapes identifier could be rescaled to
// without changing anything.
func (s *Session) CompatibleShapesFor(ctx context.Context, identifier string) (*model.RescaleOutcome, error) {
	return s.Rescale(ctx, model.RescaleRequest{Node: identifier})
}

// ShutdownNode resolves the node and runs one shutdown action of the
// given mode to completion.
func (s *Session) ShutdownNode(ctx context.Context, identifier string, mode model.ShutdownMode) (model.NodeID, error) {
	id, err := s.mustResolve(ctx, identifier)
	if err != nil {
		return 0, err
	}
	return id, s.shutdown(ctx, id, mode)
}

// StartupNode resolves the node and powers it on.
func (s *Session) StartupNode(ctx context.Context, identifier string) (model.NodeID, error) {
	id, err := s.mustResolve(ctx, identifier)
	if err != nil {
		return 0, err
	}
	actionID, err := s.Client.PowerOn(ctx, id)
	if err != nil {
		return id, err
	}
	return id, s.track(ctx, id, actionID, "start_server")
}

// ListNodes returns every node the provider knows about, in provider order.
func (s *Session) ListNodes(ctx context.Context) ([]*model.Node, error) {
	return s.Client.ListNodes(ctx, provider.NodeFilter{})
}

func (s *Session) shutdown(ctx context.Context, id model.NodeID, mode model.ShutdownMode) error {
	actionID, err := provider.SubmitShutdown(ctx, s.Client, id, mode)
	if err != nil {
		return err
	}
	return s.track(ctx, id, actionID, mode.String())
}

func (s *Session) getNode(ctx context.Context, identifier string, id model.NodeID) (*model.Node, error) {
	node, err := s.Client.GetNode(ctx, id)
	if errors.Is(err, provider.ErrNodeNotFound) {
		return nil, &model.ResolutionError{Identifier: identifier}
	}
	return node, err
}

// track waits for the action and reports its outcome to telemetry.
// Telemetry failures are logged, never returned.
func (s *Session) track(ctx context.Context, nodeID model.NodeID, actionID model.ActionID, command string) error {
	started := s.Clock.Now()
	p, err := s.awaitAction(ctx, actionID)
	if p.state == statePolling {
		return err
	}

	record := telemetry.ActionRecord{
		NodeID:   nodeID,
		ActionID: actionID,
		Command:  command,
		State:    p.last.State,
		Polls:    p.polls,
		Finished: s.Clock.Now(),
	}
	record.Duration = record.Finished.Sub(started)
	if p.last.Command != "" {
		record.Command = p.last.Command
	}
	record.ErrorCode = p.last.ErrorCode
	if terr := s.Telemetry.RecordAction(ctx, record); terr != nil {
		pfxlog.Logger().WithError(terr).Warn("unable to record action telemetry")
	}
	return err
}
