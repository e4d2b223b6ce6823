package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/michaelquigley/pfxlog"
	"github.com/simplestation/ssu/kernel/engine"
	"github.com/simplestation/ssu/kernel/model"
	"github.com/simplestation/ssu/kernel/proxyconf"
	"github.com/simplestation/ssu/kernel/render"
)

const nodesURI = "ssu://nodes"

// NodeServer exposes the node workflows as MCP tools. Stdout carries the
// protocol, so the session never writes progress.
type NodeServer struct {
	server  *server.MCPServer
	session *engine.Session
}

func NewNodeServer(session *engine.Session, version string) *NodeServer {
	srv := server.NewMCPServer(
		"SimpleStation Utility",
		version,
		server.WithResourceCapabilities(true, true),
		server.WithToolCapabilities(true),
	)

	ns := &NodeServer{
		server:  srv,
		session: session.WithProgress(io.Discard),
	}

	ns.registerTools()
	ns.registerResources()

	return ns
}

func (ns *NodeServer) ServeStdio() error {
	return server.ServeStdio(ns.server)
}

func (ns *NodeServer) registerTools() {
	ns.server.AddTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List all nodes with their status and shape"),
		mcp.WithString("sort",
			mcp.Description("Sort order: "+render.SortUsage()),
		),
		mcp.WithBoolean("reverse",
			mcp.Description("Reverse the ordering"),
		),
	), ns.listNodesHandler)

	ns.server.AddTool(mcp.NewTool("shutdown_node",
		mcp.WithDescription("Power off, shut down, reboot or reset a node and wait for the action to finish"),
		mcp.WithString("node",
			mcp.Description("Node name or numeric ID"),
			mcp.Required(),
		),
		mcp.WithBoolean("force",
			mcp.Description("Use the forced variant (ACPI shutdown, or reset when restarting)"),
		),
		mcp.WithBoolean("restart",
			mcp.Description("Restart instead of staying down"),
		),
	), ns.shutdownNodeHandler)

	ns.server.AddTool(mcp.NewTool("startup_node",
		mcp.WithDescription("Power on a node and wait for the action to finish"),
		mcp.WithString("node",
			mcp.Description("Node name or numeric ID"),
			mcp.Required(),
		),
	), ns.startupNodeHandler)

	ns.server.AddTool(mcp.NewTool("rescale_node",
		mcp.WithDescription("Move a node to another shape, or list compatible shapes when no shape is given"),
		mcp.WithString("node",
			mcp.Description("Node name or numeric ID"),
			mcp.Required(),
		),
		mcp.WithNumber("shape",
			mcp.Description("Numeric ID of the target shape"),
		),
	), ns.rescaleNodeHandler)

	ns.server.AddTool(mcp.NewTool("render_proxy_config",
		mcp.WithDescription("Render nginx server blocks from a TOML proxy config"),
		mcp.WithString("config_path",
			mcp.Description("Path to the TOML file"),
			mcp.Required(),
		),
		mcp.WithString("upstream",
			mcp.Description("Upstream address (default "+proxyconf.DefaultUpstream+")"),
		),
		mcp.WithString("domain",
			mcp.Description("Base domain (default "+proxyconf.DefaultDomain+")"),
		),
	), ns.renderProxyConfigHandler)
}

func (ns *NodeServer) registerResources() {
	resource := mcp.NewResource(nodesURI, "Nodes",
		mcp.WithResourceDescription("Every node with status and shape"),
		mcp.WithMIMEType("application/json"),
	)
	ns.server.AddResource(resource, ns.nodesHandler)
}

func (ns *NodeServer) listNodesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	by, err := render.ParseNodeSort(request.GetString("sort", render.SortCreated.String()))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nodes, err := ns.session.ListNodes(ctx)
	if err != nil {
		return toolError("list_nodes", err), nil
	}
	render.SortNodes(nodes, by, request.GetBool("reverse", false))

	return jsonResult(map[string]interface{}{
		"count": len(nodes),
		"nodes": render.NodeDocument(nodes, true),
	})
}

func (ns *NodeServer) shutdownNodeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := request.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError("node argument is required"), nil
	}
	mode := model.ShutdownModeFor(request.GetBool("force", false), request.GetBool("restart", false))

	id, err := ns.session.ShutdownNode(ctx, node, mode)
	if err != nil {
		return toolError("shutdown_node", err), nil
	}
	return jsonResult(map[string]interface{}{"id": id, "mode": mode.String(), "done": true})
}

func (ns *NodeServer) startupNodeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := request.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError("node argument is required"), nil
	}

	id, err := ns.session.StartupNode(ctx, node)
	if err != nil {
		return toolError("startup_node", err), nil
	}
	return jsonResult(map[string]interface{}{"id": id, "done": true})
}

func (ns *NodeServer) rescaleNodeHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := request.RequireString("node")
	if err != nil {
		return mcp.NewToolResultError("node argument is required"), nil
	}
	req := model.RescaleRequest{Node: node}
	if shape := request.GetInt("shape", -1); shape >= 0 {
		target := model.ShapeID(shape)
		req.TargetShape = &target
	}

	var outcome *model.RescaleOutcome
	if req.TargetShape == nil {
		outcome, err = ns.session.CompatibleShapesFor(ctx, node)
	} else {
		outcome, err = ns.session.Rescale(ctx, req)
	}
	if err != nil {
		return toolError("rescale_node", err), nil
	}

	response := map[string]interface{}{
		"id":                 outcome.NodeID,
		"current_shape":      outcome.CurrentShape,
		"changed":            outcome.Changed,
		"shutdown_performed": outcome.ShutdownPerformed,
	}
	if req.TargetShape == nil {
		shapes := make([]map[string]interface{}, 0, len(outcome.Shapes))
		for _, s := range outcome.Shapes {
			shapes = append(shapes, map[string]interface{}{
				"id":     s.ID,
				"name":   s.Name,
				"cores":  s.Cores,
				"memory": s.MemoryGiB,
				"disk":   s.DiskGiB,
				"price":  s.MonthlyPrice.String(),
			})
		}
		response["shapes"] = shapes
	}
	return jsonResult(response)
}

func (ns *NodeServer) renderProxyConfigHandler(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("config_path")
	if err != nil {
		return mcp.NewToolResultError("config_path argument is required"), nil
	}
	cfg, err := proxyconf.Load(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := proxyconf.Render(cfg, request.GetString("upstream", ""), request.GetString("domain", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (ns *NodeServer) nodesHandler(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	nodes, err := ns.session.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	data, err := json.Marshal(map[string]interface{}{
		"count": len(nodes),
		"nodes": render.NodeDocument(nodes, true),
	})
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      nodesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func toolError(tool string, err error) *mcp.CallToolResult {
	pfxlog.Logger().WithError(err).Warnf("%s failed", tool)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(data)), nil
}
