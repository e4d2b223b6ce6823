package engine

import (
	"context"

	"github.com/michaelquigley/pfxlog"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/provider"
)

// Resolve turns a user-supplied identifier into a node ID. Numeric
// identifiers are returned as-is without asking the provider. Names cost
// one filtered listing; when several nodes share a name the first one
// the provider returns wins.
func (s *Session) Resolve(ctx context.Context, identifier string) (model.NodeID, bool, error) {
	if id, ok := model.ParseNodeID(identifier); ok {
		return id, true, nil
	}

	nodes, err := s.Client.ListNodes(ctx, provider.NodeFilter{Name: identifier})
	if err != nil {
		return 0, false, err
	}
	if len(nodes) == 0 {
		return 0, false, nil
	}
	if len(nodes) > 1 {
		pfxlog.Logger().Debugf("%d nodes named '%s', using %d", len(nodes), identifier, nodes[0].ID)
	}
	return nodes[0].ID, true, nil
}

// mustResolve is Resolve with the absent case turned into a ResolutionError.
func (s *Session) mustResolve(ctx context.Context, identifier string) (model.NodeID, error) {
	id, ok, err := s.Resolve(ctx, identifier)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &model.ResolutionError{Identifier: identifier}
	}
	return id, nil
}
