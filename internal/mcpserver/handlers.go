package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Argument structs mirror the CLI flags of cmd/sharpitect one-for-one
// (spec.md §6: "arguments mirror the CLI"). json tags match the field
// names a client would naturally pass.

type SearchArgs struct {
	Query         string `json:"query"`
	Match         string `json:"match,omitempty"`
	Kind          string `json:"kind,omitempty"`
	CaseSensitive bool   `json:"caseSensitive,omitempty"`
	Limit         int    `json:"limit,omitempty"`
}

func (s *Server) handleSearch(ctx context.Context, req *mcp.CallToolRequest, args SearchArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	mode, ok := parseMatchMode(args.Match)
	if !ok {
		return toolError("VALIDATION", "invalid match mode: "+args.Match)
	}
	kindFilter, ok := parseNodeKindFilter(args.Kind)
	if !ok {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	limit := args.Limit
	if limit <= 0 {
		limit = 50
	}
	result, err := s.nav.Search(ctx, args.Query, mode, kindFilter, args.CaseSensitive, limit)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(result, false), result, nil
}

type NodeArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleGetNode(ctx context.Context, req *mcp.CallToolRequest, args NodeArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	n, err := s.nav.GetNode(ctx, args.ID)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	if n == nil {
		return notFound(args.ID)
	}
	return jsonResult(n, false), n, nil
}

type ChildrenArgs struct {
	ParentID string `json:"parentId"`
	Kind     string `json:"kind,omitempty"`
}

func (s *Server) handleGetChildren(ctx context.Context, req *mcp.CallToolRequest, args ChildrenArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	kindFilter, ok := parseNodeKindFilter(args.Kind)
	if !ok {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	children, err := s.nav.GetChildren(ctx, args.ParentID, kindFilter, 0)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(children, false), children, nil
}

type AncestorsArgs struct {
	ID string `json:"id"`
}

func (s *Server) handleGetAncestors(ctx context.Context, req *mcp.CallToolRequest, args AncestorsArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	ancestors, err := s.nav.GetAncestors(ctx, args.ID)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(ancestors, false), ancestors, nil
}

type RelationshipsArgs struct {
	ID        string `json:"id"`
	Direction string `json:"direction,omitempty"`
	Kind      string `json:"kind,omitempty"`
}

func (s *Server) handleGetRelationships(ctx context.Context, req *mcp.CallToolRequest, args RelationshipsArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	direction, ok := parseDirection(args.Direction)
	if !ok {
		return toolError("VALIDATION", "invalid direction: "+args.Direction)
	}
	kindFilter, ok := parseEdgeKindFilter(args.Kind)
	if !ok {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	edges, err := s.nav.GetRelationships(ctx, args.ID, direction, kindFilter, 0)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(edges, false), edges, nil
}

type DepthArgs struct {
	ID    string `json:"id"`
	Depth int    `json:"depth,omitempty"`
}

func (s *Server) handleGetCallers(ctx context.Context, req *mcp.CallToolRequest, args DepthArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	results, err := s.nav.GetCallers(ctx, args.ID, args.Depth, 0)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(results, false), results, nil
}

func (s *Server) handleGetCallees(ctx context.Context, req *mcp.CallToolRequest, args DepthArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	results, err := s.nav.GetCallees(ctx, args.ID, args.Depth, 0)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(results, false), results, nil
}

type InheritanceArgs struct {
	ID        string `json:"id"`
	Direction string `json:"direction,omitempty"`
	Depth     int    `json:"depth,omitempty"`
}

func (s *Server) handleGetInheritance(ctx context.Context, req *mcp.CallToolRequest, args InheritanceArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	direction, ok := parseInheritanceDirection(args.Direction)
	if !ok {
		return toolError("VALIDATION", "invalid direction: "+args.Direction)
	}
	results, err := s.nav.GetInheritance(ctx, args.ID, direction, args.Depth)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(results, false), results, nil
}

type UsagesArgs struct {
	ID   string `json:"id"`
	Kind string `json:"kind,omitempty"`
}

func (s *Server) handleGetUsages(ctx context.Context, req *mcp.CallToolRequest, args UsagesArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	kindFilter, ok := parseEdgeKindFilter(args.Kind)
	if !ok {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	edges, err := s.nav.GetUsages(ctx, args.ID, kindFilter, 0)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(edges, false), edges, nil
}

type TransitiveArgs struct {
	ID         string `json:"id"`
	Transitive bool   `json:"transitive,omitempty"`
}

func (s *Server) handleGetDependencies(ctx context.Context, req *mcp.CallToolRequest, args TransitiveArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	deps, err := s.nav.GetDependencies(ctx, args.ID, args.Transitive)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(deps, false), deps, nil
}

func (s *Server) handleGetDependents(ctx context.Context, req *mcp.CallToolRequest, args TransitiveArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	deps, err := s.nav.GetDependents(ctx, args.ID, args.Transitive)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(deps, false), deps, nil
}

type ListByKindArgs struct {
	Kind  string `json:"kind"`
	Scope string `json:"scope,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

func (s *Server) handleListByKind(ctx context.Context, req *mcp.CallToolRequest, args ListByKindArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	kindFilter, ok := parseNodeKindFilter(args.Kind)
	if !ok || kindFilter == nil {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	var scope *string
	if args.Scope != "" {
		scope = &args.Scope
	}
	nodes, err := s.nav.ListByKind(ctx, *kindFilter, scope, args.Limit)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(nodes, false), nodes, nil
}

type FileArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleGetFileDeclarations(ctx context.Context, req *mcp.CallToolRequest, args FileArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	nodes, err := s.nav.GetFileDeclarations(ctx, args.Path)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(nodes, false), nodes, nil
}

func (s *Server) handleGetSignature(ctx context.Context, req *mcp.CallToolRequest, args NodeArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	sig, err := s.nav.GetSignature(ctx, args.ID)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	return jsonResult(map[string]string{"signature": sig}, false), sig, nil
}

func (s *Server) handleGetCode(ctx context.Context, req *mcp.CallToolRequest, args NodeArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	result, err := s.nav.GetCode(ctx, args.ID)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	if result == nil {
		return notFound(args.ID)
	}
	return jsonResult(result, false), result, nil
}

type TreeArgs struct {
	RootID string `json:"rootId"`
	Kind   string `json:"kind,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

func (s *Server) handleGetTree(ctx context.Context, req *mcp.CallToolRequest, args TreeArgs) (*mcp.CallToolResult, any, error) {
	if err := s.throttle(ctx); err != nil {
		return toolError("CANCELLED", err.Error())
	}
	kindFilter, ok := parseNodeKindFilter(args.Kind)
	if !ok {
		return toolError("VALIDATION", "invalid kind: "+args.Kind)
	}
	depth := args.Depth
	if depth <= 0 {
		depth = 3
	}
	tree, err := s.nav.GetTree(ctx, args.RootID, kindFilter, depth)
	if err != nil {
		return toolError("STORAGE", err.Error())
	}
	if tree == nil {
		return notFound(args.RootID)
	}
	return jsonResult(tree, false), tree, nil
}
