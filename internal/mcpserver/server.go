// Package mcpserver implements spec.md §6's structured tool-invocation
// surface: one MCP tool per Navigation Service operation, exposed over the
// real modelcontextprotocol/go-sdk rather than a hand-rolled JSON-RPC loop
// (the teacher's own internal/mcp/handler.go hand-rolls JSON-RPC despite
// carrying the SDK as a direct dependency; this repository wires the SDK
// instead). Call-rate throttling is grounded on the teacher's go.mod direct
// dependency on golang.org/x/time/rate.
package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/time/rate"

	"github.com/nick-boey/sharpitect/internal/logging"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/navigation"
)

// Server wraps an mcp.Server exposing the Navigation Service's read
// operations as tools, throttled to a fixed call rate (spec.md §6 "serve
// tool-call throttling").
type Server struct {
	mcp     *mcp.Server
	nav     *navigation.Service
	limiter *rate.Limiter
}

// New builds a Server backed by nav, throttling tool calls to
// ratePerSecond (spec.md §10.3 Serve.RateLimitPerSecond).
func New(nav *navigation.Service, ratePerSecond float64) *Server {
	if ratePerSecond <= 0 {
		ratePerSecond = 20
	}
	s := &Server{
		nav:     nav,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), int(ratePerSecond)+1),
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "sharpitect",
		Version: "1.0.0",
	}, nil)
	s.registerTools()
	return s
}

// Run serves tool calls over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// throttle blocks the calling goroutine until the rate limiter admits one
// more call, respecting ctx cancellation (spec.md §5 "every long operation
// accepts a cancellation signal").
func (s *Server) throttle(ctx context.Context) error {
	return s.limiter.Wait(ctx)
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search",
		Description: "Find declarations whose name matches a query under a given match mode.",
	}, s.handleSearch)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_node",
		Description: "Return a single declaration node by id, or null if unknown.",
	}, s.handleGetNode)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_children",
		Description: "List a node's direct Contains children.",
	}, s.handleGetChildren)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_ancestors",
		Description: "List a node's containing ancestors, root-first.",
	}, s.handleGetAncestors)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_relationships",
		Description: "List edges incident to a node in a given direction.",
	}, s.handleGetRelationships)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_callers",
		Description: "BFS over incoming Calls edges up to a depth.",
	}, s.handleGetCallers)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_callees",
		Description: "BFS over outgoing Calls edges up to a depth.",
	}, s.handleGetCallees)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_inheritance",
		Description: "BFS over Inherits/Implements edges in a given direction.",
	}, s.handleGetInheritance)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_usages",
		Description: "List incoming reference-shaped edges for a node.",
	}, s.handleGetUsages)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_dependencies",
		Description: "List a project's DependsOn targets, optionally transitive.",
	}, s.handleGetDependencies)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_dependents",
		Description: "List projects that depend on a project, optionally transitive.",
	}, s.handleGetDependents)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_by_kind",
		Description: "List every node of a given kind, optionally scoped to descendants of a node.",
	}, s.handleListByKind)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_file_declarations",
		Description: "List every node declared in a file.",
	}, s.handleGetFileDeclarations)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_signature",
		Description: "Return a node's display signature.",
	}, s.handleGetSignature)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_code",
		Description: "Return a node's declaration metadata plus its literal source snippet.",
	}, s.handleGetCode)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_tree",
		Description: "Return a bounded Contains tree rooted at a node.",
	}, s.handleGetTree)
}

// toolError builds the {error:true, error_code, message} object spec.md §6
// mandates tools return rather than failing the transport.
func toolError(code, message string) (*mcp.CallToolResult, any, error) {
	payload := map[string]any{"error": true, "error_code": code, "message": message}
	return jsonResult(payload, true), payload, nil
}

func jsonResult(data any, isError bool) *mcp.CallToolResult {
	text, err := marshalIndent(data)
	if err != nil {
		logging.LogError("mcpserver: failed to marshal tool result", err)
		text = fmt.Sprintf("%v", data)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}

func notFound(id string) (*mcp.CallToolResult, any, error) {
	return toolError("NOT_FOUND", fmt.Sprintf("node not found: %s", id))
}

func parseMatchMode(s string) (navigation.MatchMode, bool) {
	switch s {
	case "Contains", "":
		return navigation.Contains, true
	case "StartsWith":
		return navigation.StartsWith, true
	case "EndsWith":
		return navigation.EndsWith, true
	case "Exact":
		return navigation.Exact, true
	default:
		return 0, false
	}
}

func parseDirection(s string) (navigation.Direction, bool) {
	switch s {
	case "Outgoing":
		return navigation.Outgoing, true
	case "Incoming":
		return navigation.Incoming, true
	case "Both", "":
		return navigation.Both, true
	default:
		return 0, false
	}
}

func parseInheritanceDirection(s string) (navigation.InheritanceDirection, bool) {
	switch s {
	case "Ancestors", "":
		return navigation.Ancestors, true
	case "Descendants":
		return navigation.Descendants, true
	case "Both":
		return navigation.InheritanceBoth, true
	default:
		return 0, false
	}
}

func parseNodeKindFilter(s string) (*model.NodeKind, bool) {
	if s == "" {
		return nil, true
	}
	k, ok := model.ParseNodeKind(s)
	if !ok {
		return nil, false
	}
	return &k, true
}

func parseEdgeKindFilter(s string) (*model.EdgeKind, bool) {
	if s == "" {
		return nil, true
	}
	k, ok := model.ParseEdgeKind(s)
	if !ok {
		return nil, false
	}
	return &k, true
}
