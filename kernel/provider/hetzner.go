package provider

import (
	"context"
	"strconv"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"
	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

// HetznerClient implements Client on top of the Hetzner Cloud API.
type HetznerClient struct {
	api *hcloud.Client
}

func NewHetznerClient(settings Settings) (*HetznerClient, error) {
	if settings.Token == "" {
		return nil, errors.New("hetzner: an API token is required")
	}

	opts := []hcloud.ClientOption{hcloud.WithToken(settings.Token)}
	if settings.Endpoint != "" {
		opts = append(opts, hcloud.WithEndpoint(settings.Endpoint))
	}
	if settings.Application != "" {
		opts = append(opts, hcloud.WithApplication(settings.Application, settings.Version))
	}
	return &HetznerClient{api: hcloud.NewClient(opts...)}, nil
}

func (c *HetznerClient) ListNodes(ctx context.Context, filter NodeFilter) ([]*model.Node, error) {
	servers, err := c.api.Server.AllWithOpts(ctx, hcloud.ServerListOpts{Name: filter.Name})
	if err != nil {
		return nil, &model.RemoteError{Op: "list servers", Err: err}
	}
	nodes := make([]*model.Node, 0, len(servers))
	for _, s := range servers {
		nodes = append(nodes, serverToNode(s))
	}
	return nodes, nil
}

func (c *HetznerClient) GetNode(ctx context.Context, id model.NodeID) (*model.Node, error) {
	server, _, err := c.api.Server.GetByID(ctx, int64(id))
	if err != nil {
		return nil, &model.RemoteError{Op: "get server", Err: err}
	}
	if server == nil {
		return nil, ErrNodeNotFound
	}
	return serverToNode(server), nil
}

func (c *HetznerClient) PowerOn(ctx context.Context, id model.NodeID) (model.ActionID, error) {
	action, _, err := c.api.Server.Poweron(ctx, &hcloud.Server{ID: int64(id)})
	return actionID("power on server", action, err)
}

func (c *HetznerClient) PowerOff(ctx context.Context, id model.NodeID) (model.ActionID, error) {
	action, _, err := c.api.Server.Poweroff(ctx, &hcloud.Server{ID: int64(id)})
	return actionID("power off server", action, err)
}

func (c *HetznerClient) Shutdown(ctx context.Context, id model.NodeID) (model.ActionID, error) {
	action, _, err := c.api.Server.Shutdown(ctx, &hcloud.Server{ID: int64(id)})
	return actionID("shutdown server", action, err)
}

func (c *HetznerClient) SoftReboot(ctx context.Context, id model.NodeID) (model.ActionID, error) {
	action, _, err := c.api.Server.Reboot(ctx, &hcloud.Server{ID: int64(id)})
	return actionID("reboot server", action, err)
}

func (c *HetznerClient) Reset(ctx context.Context, id model.NodeID) (model.ActionID, error) {
	action, _, err := c.api.Server.Reset(ctx, &hcloud.Server{ID: int64(id)})
	return actionID("reset server", action, err)
}

func (c *HetznerClient) ChangeShape(ctx context.Context, id model.NodeID, shape model.ShapeID, upgradeDisk bool) (model.ActionID, error) {
	action, _, err := c.api.Server.ChangeType(ctx, &hcloud.Server{ID: int64(id)}, hcloud.ServerChangeTypeOpts{
		ServerType:  &hcloud.ServerType{ID: int64(shape)},
		UpgradeDisk: upgradeDisk,
	})
	return actionID("change server type", action, err)
}

func (c *HetznerClient) GetAction(ctx context.Context, id model.ActionID) (*model.Action, error) {
	action, _, err := c.api.Action.GetByID(ctx, int64(id))
	if err != nil {
		return nil, &model.RemoteError{Op: "get action", Err: err}
	}
	if action == nil {
		return nil, &model.RemoteError{Op: "get action", Err: errors.Errorf("action %d not found", id)}
	}
	return &model.Action{
		ID:           model.ActionID(action.ID),
		Command:      action.Command,
		State:        model.ActionState(action.Status),
		Progress:     action.Progress,
		ErrorCode:    action.ErrorCode,
		ErrorMessage: action.ErrorMessage,
	}, nil
}

func (c *HetznerClient) ListShapes(ctx context.Context) ([]*model.Shape, error) {
	types, err := c.api.ServerType.All(ctx)
	if err != nil {
		return nil, &model.RemoteError{Op: "list server types", Err: err}
	}
	shapes := make([]*model.Shape, 0, len(types))
	for _, t := range types {
		shape, err := serverTypeToShape(t)
		if err != nil {
			return nil, &model.RemoteError{Op: "list server types", Err: err}
		}
		shapes = append(shapes, shape)
	}
	return shapes, nil
}

func actionID(op string, action *hcloud.Action, err error) (model.ActionID, error) {
	if err != nil {
		return 0, &model.RemoteError{Op: op, Err: err}
	}
	if action == nil {
		return 0, &model.RemoteError{Op: op, Err: errors.New("no action returned")}
	}
	return model.ActionID(action.ID), nil
}

func serverToNode(s *hcloud.Server) *model.Node {
	node := &model.Node{
		ID:             model.NodeID(s.ID),
		Name:           s.Name,
		Status:         model.NodeStatus(s.Status),
		Created:        s.Created,
		PrimaryDiskGiB: s.PrimaryDiskSize,
	}
	if s.ServerType != nil {
		node.Shape = &model.Shape{
			ID:           model.ShapeID(s.ServerType.ID),
			Name:         s.ServerType.Name,
			Cores:        s.ServerType.Cores,
			MemoryGiB:    float64(s.ServerType.Memory),
			DiskGiB:      s.ServerType.Disk,
			Architecture: model.Arch(s.ServerType.Architecture),
		}
	}
	if s.Datacenter != nil && s.Datacenter.Location != nil {
		node.Location = s.Datacenter.Location.Name
	}
	return node
}

func serverTypeToShape(t *hcloud.ServerType) (*model.Shape, error) {
	shape := &model.Shape{
		ID:           model.ShapeID(t.ID),
		Name:         t.Name,
		Cores:        t.Cores,
		MemoryGiB:    float64(t.Memory),
		DiskGiB:      t.Disk,
		Architecture: model.Arch(t.Architecture),
		Prices:       make(map[string]model.Price, len(t.Pricings)),
	}
	for _, pricing := range t.Pricings {
		if pricing.Location == nil {
			continue
		}
		gross, err := strconv.ParseFloat(pricing.Monthly.Gross, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "server type %s: monthly price for %s", t.Name, pricing.Location.Name)
		}
		shape.Prices[pricing.Location.Name] = model.Price(gross)
	}
	return shape, nil
}

func init() {
	RegisterProvider("hetzner", func(settings Settings) (Client, error) {
		return NewHetznerClient(settings)
	})
}
