// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Wayfare's change-set operations for LLM integration via stdio
// transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/halvard/wayfare/internal/tripservice"
)

// Server wraps the MCP server with Wayfare tools.
type Server struct {
	mcp *server.MCPServer
	svc *tripservice.Service
}

// New creates a new MCP server with all Wayfare tools registered.
func New(svc *tripservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Wayfare",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("apply_changes",
		mcp.WithDescription("Apply a change-set to a trip's collections. "+
			"The change-set MUST follow the canonical format; read it first via "+
			"the get_changeset_contract tool or the wayfare://changeset-format resource."),
		mcp.WithString("trip_id", mcp.Required(), mcp.Description("Id of the trip to modify")),
		mcp.WithString("changes", mcp.Required(), mcp.Description("Change-set JSON following the contract")),
	), s.applyChanges)

	s.mcp.AddTool(mcp.NewTool("preview_changes",
		mcp.WithDescription("Dry-run a change-set against a trip: returns what would "+
			"be added, updated, and removed without persisting anything."),
		mcp.WithString("trip_id", mcp.Required(), mcp.Description("Id of the trip")),
		mcp.WithString("changes", mcp.Required(), mcp.Description("Change-set JSON following the contract")),
	), s.previewChanges)

	s.mcp.AddTool(mcp.NewTool("get_trip",
		mcp.WithDescription("Read a trip's full state: itinerary, tasks, packing, bags."),
		mcp.WithString("trip_id", mcp.Required(), mcp.Description("Id of the trip")),
	), s.getTrip)

	s.mcp.AddTool(mcp.NewTool("list_trips",
		mcp.WithDescription("List all trips with their ids and destinations."),
	), s.listTrips)

	s.mcp.AddTool(mcp.NewTool("get_changeset_contract",
		mcp.WithDescription("Returns the canonical change-set JSON contract. "+
			"Call this before proposing changes to ensure correct structure."),
	), s.getContract)

	// Resource: change-set contract.
	s.mcp.AddResource(
		mcp.NewResource("wayfare://changeset-format", "Change-Set Format Contract",
			mcp.WithResourceDescription("Canonical change-set JSON format that apply_changes accepts."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) applyChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := req.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changes, err := req.RequireString("changes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.Apply(ctx, tripID, []byte(changes), tripservice.AllTargets(), false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res.Counts, "", "  ")
	return mcp.NewToolResultText(fmt.Sprintf("applied to %s:\n%s", tripID, out)), nil
}

func (s *Server) previewChanges(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := req.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	changes, err := req.RequireString("changes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.Preview(ctx, tripID, []byte(changes), tripservice.AllTargets())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(res.Counts, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getTrip(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tripID, err := req.RequireString("trip_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	trip, err := s.svc.GetTrip(ctx, tripID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", tripID)), nil
	}
	out, _ := json.MarshalIndent(trip, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTrips(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListTrips(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ChangeSetContract), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "wayfare://changeset-format",
			MIMEType: "text/markdown",
			Text:     ChangeSetContract,
		},
	}, nil
}
