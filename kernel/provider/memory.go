package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/simplestation/ssu/kernel/model"
)

// MemoryProvider is an in-memory Client. Actions and node statuses can
// be scripted, and every call is recorded, which makes it the fake used
// throughout the tests as well as the backing of `--provider memory`.
type MemoryProvider struct {
	mu          sync.Mutex
	nodes       []*model.Node
	shapes      []*model.Shape
	actions     map[model.ActionID]*memoryAction
	nextAction  model.ActionID
	scripts     [][]model.Action
	nodeScripts map[model.NodeID][]model.NodeStatus
	failures    map[string]error
	calls       []Call
}

// Call is one recorded invocation of a Client method.
type Call struct {
	Op  string
	Arg string
}

type memoryAction struct {
	steps   []model.Action
	polls   int
	effect  func()
	applied bool
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		actions:     make(map[model.ActionID]*memoryAction),
		nextAction:  1,
		nodeScripts: make(map[model.NodeID][]model.NodeStatus),
		failures:    make(map[string]error),
	}
}

func (p *MemoryProvider) AddNode(node *model.Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = append(p.nodes, node)
}

func (p *MemoryProvider) AddShape(shape *model.Shape) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shapes = append(p.shapes, shape)
}

// ScriptAction queues the statuses the next submitted action reports,
// one per GetAction call. The last status repeats once reached.
func (p *MemoryProvider) ScriptAction(steps ...model.Action) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts = append(p.scripts, steps)
}

// ScriptNodeStatuses makes successive GetNode calls for id report the
// given statuses, overriding whatever actions did to the node.
func (p *MemoryProvider) ScriptNodeStatuses(id model.NodeID, statuses ...model.NodeStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodeScripts[id] = append(p.nodeScripts[id], statuses...)
}

// FailNext makes the next call of op return err as a RemoteError.
func (p *MemoryProvider) FailNext(op string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[op] = err
}

// Calls returns every recorded call in order.
func (p *MemoryProvider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// Ops returns the operation names of every recorded call in order.
func (p *MemoryProvider) Ops() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	ops := make([]string, len(p.calls))
	for i, c := range p.calls {
		ops[i] = c.Op
	}
	return ops
}

func (p *MemoryProvider) CallCount(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	count := 0
	for _, c := range p.calls {
		if c.Op == op {
			count++
		}
	}
	return count
}

func (p *MemoryProvider) ListNodes(_ context.Context, filter NodeFilter) ([]*model.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("ListNodes", filter.Name); err != nil {
		return nil, err
	}

	var result []*model.Node
	for _, n := range p.nodes {
		if filter.Name != "" && n.Name != filter.Name {
			continue
		}
		copied := *n
		result = append(result, &copied)
	}
	return result, nil
}

func (p *MemoryProvider) GetNode(_ context.Context, id model.NodeID) (*model.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("GetNode", id.String()); err != nil {
		return nil, err
	}

	node := p.findNode(id)
	if node == nil {
		return nil, ErrNodeNotFound
	}
	if script := p.nodeScripts[id]; len(script) > 0 {
		node.Status = script[0]
		p.nodeScripts[id] = script[1:]
	}
	copied := *node
	return &copied, nil
}

func (p *MemoryProvider) PowerOn(_ context.Context, id model.NodeID) (model.ActionID, error) {
	return p.submit("PowerOn", "start_server", id, model.NodeRunning)
}

func (p *MemoryProvider) PowerOff(_ context.Context, id model.NodeID) (model.ActionID, error) {
	return p.submit("PowerOff", "stop_server", id, model.NodeOff)
}

func (p *MemoryProvider) Shutdown(_ context.Context, id model.NodeID) (model.ActionID, error) {
	return p.submit("Shutdown", "shutdown_server", id, model.NodeOff)
}

func (p *MemoryProvider) SoftReboot(_ context.Context, id model.NodeID) (model.ActionID, error) {
	return p.submit("SoftReboot", "reboot_server", id, model.NodeRunning)
}

func (p *MemoryProvider) Reset(_ context.Context, id model.NodeID) (model.ActionID, error) {
	return p.submit("Reset", "reset_server", id, model.NodeRunning)
}

func (p *MemoryProvider) ChangeShape(_ context.Context, id model.NodeID, shapeID model.ShapeID, upgradeDisk bool) (model.ActionID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("ChangeShape", fmt.Sprintf("%d:%d:%t", id, shapeID, upgradeDisk)); err != nil {
		return 0, err
	}

	node := p.findNode(id)
	if node == nil {
		return 0, &model.RemoteError{Op: "change shape", Err: ErrNodeNotFound}
	}
	shape := p.findShape(shapeID)
	if shape == nil {
		return 0, &model.RemoteError{Op: "change shape", Err: errors.Errorf("shape %d not found", shapeID)}
	}
	if !node.Status.IsOff() {
		return 0, &model.RemoteError{Op: "change shape", Err: errors.Errorf("node %d must be off, is %s", id, node.Status)}
	}

	return p.newAction("change_server_type", func() {
		node.Shape = shape
	}), nil
}

func (p *MemoryProvider) GetAction(_ context.Context, id model.ActionID) (*model.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("GetAction", id.String()); err != nil {
		return nil, err
	}

	a, ok := p.actions[id]
	if !ok {
		return nil, &model.RemoteError{Op: "get action", Err: errors.Errorf("action %d not found", id)}
	}
	step := a.steps[len(a.steps)-1]
	if a.polls < len(a.steps) {
		step = a.steps[a.polls]
	}
	a.polls++
	step.ID = id

	if step.State == model.ActionSuccess && !a.applied && a.effect != nil {
		a.effect()
		a.applied = true
	}
	return &step, nil
}

func (p *MemoryProvider) ListShapes(_ context.Context) ([]*model.Shape, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("ListShapes", ""); err != nil {
		return nil, err
	}
	return append([]*model.Shape(nil), p.shapes...), nil
}

func (p *MemoryProvider) submit(op, command string, id model.NodeID, result model.NodeStatus) (model.ActionID, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record(op, id.String()); err != nil {
		return 0, err
	}

	node := p.findNode(id)
	if node == nil {
		return 0, &model.RemoteError{Op: command, Err: ErrNodeNotFound}
	}
	return p.newAction(command, func() {
		node.Status = result
	}), nil
}

// newAction must be called with p.mu held.
func (p *MemoryProvider) newAction(command string, effect func()) model.ActionID {
	steps := []model.Action{
		{Command: command, State: model.ActionRunning},
		{Command: command, State: model.ActionSuccess, Progress: 100},
	}
	if len(p.scripts) > 0 {
		steps = p.scripts[0]
		p.scripts = p.scripts[1:]
	}

	id := p.nextAction
	p.nextAction++
	p.actions[id] = &memoryAction{steps: steps, effect: effect}
	return id
}

// record must be called with p.mu held.
func (p *MemoryProvider) record(op, arg string) error {
	p.calls = append(p.calls, Call{Op: op, Arg: arg})
	if err, ok := p.failures[op]; ok {
		delete(p.failures, op)
		return &model.RemoteError{Op: op, Err: err}
	}
	return nil
}

func (p *MemoryProvider) findNode(id model.NodeID) *model.Node {
	for _, n := range p.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (p *MemoryProvider) findShape(id model.ShapeID) *model.Shape {
	for _, s := range p.shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// DemoFleet returns a provider seeded with a few nodes and a small
// catalog, used by `--provider memory`.
func DemoFleet() *MemoryProvider {
	p := NewMemoryProvider()

	shapes := []*model.Shape{
		{ID: 22, Name: "cpx11", Cores: 2, MemoryGiB: 2, DiskGiB: 40, Architecture: model.ArchX86,
			Prices: map[string]model.Price{"fsn1": 4.85, "nbg1": 4.85, "ash": 5.49}},
		{ID: 23, Name: "cpx21", Cores: 3, MemoryGiB: 4, DiskGiB: 80, Architecture: model.ArchX86,
			Prices: map[string]model.Price{"fsn1": 8.39, "nbg1": 8.39}},
		{ID: 24, Name: "cpx31", Cores: 4, MemoryGiB: 8, DiskGiB: 160, Architecture: model.ArchX86,
			Prices: map[string]model.Price{"fsn1": 15.59, "nbg1": 15.59, "ash": 16.49}},
		{ID: 45, Name: "cax11", Cores: 2, MemoryGiB: 4, DiskGiB: 40, Architecture: model.ArchARM,
			Prices: map[string]model.Price{"fsn1": 4.49}},
	}
	for _, s := range shapes {
		p.AddShape(s)
	}

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p.AddNode(&model.Node{ID: 1001, Name: "game-eu-1", Status: model.NodeRunning, Created: created,
		Shape: shapes[0], PrimaryDiskGiB: 40, Location: "fsn1"})
	p.AddNode(&model.Node{ID: 1002, Name: "game-eu-2", Status: model.NodeOff, Created: created.Add(48 * time.Hour),
		Shape: shapes[1], PrimaryDiskGiB: 80, Location: "nbg1"})
	p.AddNode(&model.Node{ID: 1003, Name: "panel", Status: model.NodeRunning, Created: created.Add(-24 * time.Hour),
		Shape: shapes[3], PrimaryDiskGiB: 40, Location: "fsn1"})
	return p
}

func init() {
	RegisterProvider("memory", func(Settings) (Client, error) {
		return DemoFleet(), nil
	})
}
