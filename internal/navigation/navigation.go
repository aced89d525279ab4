// Package navigation implements the Navigation Service (spec.md §4.10):
// read-only, bounded graph queries layered over the Graph Repository.
// Grounded on the teacher's internal/graph query layer for the "return
// empty, never throw on a missing root" convention, and on
// golang.org/x/sync/errgroup (already in the teacher's dependency stack,
// used there for concurrent store fan-out) for the bidirectional queries
// that read two edge directions at once.
package navigation

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/storage"
)

// MatchMode controls how Search compares a node's name against a query.
type MatchMode int

const (
	Contains MatchMode = iota
	StartsWith
	EndsWith
	Exact
)

// Direction selects which side of a relationship to read.
type Direction int

const (
	Outgoing Direction = iota
	Incoming
	Both
)

// InheritanceDirection selects which way to walk Inherits/Implements edges.
type InheritanceDirection int

const (
	Ancestors InheritanceDirection = iota
	Descendants
	InheritanceBoth
)

// Service is the Navigation Service.
type Service struct {
	repo    *storage.Repository
	rootDir string // workspace root, used by GetCode to read literal source
}

// New creates a Navigation Service reading from repo. rootDir is the
// workspace root used to resolve a node's FilePath for GetCode.
func New(repo *storage.Repository, rootDir string) *Service {
	return &Service{repo: repo, rootDir: rootDir}
}

// SearchResult is Search's typed result (spec.md §4.10).
type SearchResult struct {
	Results    []model.DeclarationNode
	TotalCount int
	Truncated  bool
}

// Search finds nodes whose name matches query under matchMode. limit==0
// means "return nothing, just tell me whether anything matches": the
// repository would otherwise treat it as "no limit" (spec.md §8 Testable
// Property #9).
func (s *Service) Search(ctx context.Context, query string, matchMode MatchMode, kindFilter *model.NodeKind, caseSensitive bool, limit int) (*SearchResult, error) {
	pattern := likePattern(query, matchMode)
	if limit == 0 {
		total, err := s.repo.CountSearchNodesByName(ctx, pattern, caseSensitive, kindFilter)
		if err != nil {
			return nil, err
		}
		return &SearchResult{Results: []model.DeclarationNode{}, TotalCount: total, Truncated: total > 0}, nil
	}
	nodes, total, err := s.repo.SearchNodesByName(ctx, pattern, caseSensitive, kindFilter, limit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Results: nodes, TotalCount: total, Truncated: total > limit}, nil
}

func likePattern(query string, mode MatchMode) string {
	switch mode {
	case StartsWith:
		return query + "%"
	case EndsWith:
		return "%" + query
	case Exact:
		return query
	default:
		return "%" + query + "%"
	}
}

// GetNode returns a node by id, or nil if unknown.
func (s *Service) GetNode(ctx context.Context, id string) (*model.DeclarationNode, error) {
	return s.repo.GetNode(ctx, id)
}

// GetChildren returns the target nodes of parentId's outgoing Contains edges.
func (s *Service) GetChildren(ctx context.Context, parentID string, kindFilter *model.NodeKind, limit int) ([]model.DeclarationNode, error) {
	containsKind := model.EdgeContains
	edges, err := s.repo.GetOutgoingEdges(ctx, parentID, &containsKind, limit)
	if err != nil {
		return nil, err
	}
	return s.resolveTargets(ctx, edges, kindFilter)
}

// GetAncestors walks Contains edges backwards from id to the root,
// returning them in root-first order.
func (s *Service) GetAncestors(ctx context.Context, id string) ([]model.DeclarationNode, error) {
	containsKind := model.EdgeContains
	var chain []model.DeclarationNode
	cur := id
	visited := map[string]bool{id: true}
	for {
		incoming, err := s.repo.GetIncomingEdges(ctx, cur, &containsKind, 1)
		if err != nil {
			return nil, err
		}
		if len(incoming) == 0 {
			break
		}
		parentID := incoming[0].SourceID
		if visited[parentID] {
			break // cycle guard; Contains should be acyclic but never trust input
		}
		visited[parentID] = true
		parent, err := s.repo.GetNode(ctx, parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			break
		}
		chain = append(chain, *parent)
		cur = parentID
	}
	// reverse to root-first order
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// GetRelationships returns edges incident to id in the requested direction.
func (s *Service) GetRelationships(ctx context.Context, id string, direction Direction, kindFilter *model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	switch direction {
	case Outgoing:
		return s.repo.GetOutgoingEdges(ctx, id, kindFilter, limit)
	case Incoming:
		return s.repo.GetIncomingEdges(ctx, id, kindFilter, limit)
	default:
		var out, in []model.RelationshipEdge
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			out, err = s.repo.GetOutgoingEdges(gctx, id, kindFilter, limit)
			return err
		})
		g.Go(func() error {
			var err error
			in, err = s.repo.GetIncomingEdges(gctx, id, kindFilter, limit)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		combined := append(out, in...)
		return withLimit(combined, limit), nil
	}
}

// BFSResult pairs a discovered node with the BFS depth it was found at.
type BFSResult struct {
	Node  model.DeclarationNode
	Depth int
}

// GetCallers runs BFS along incoming Calls edges up to depth hops; depth <= 0
// returns no results.
func (s *Service) GetCallers(ctx context.Context, id string, depth, limit int) ([]BFSResult, error) {
	return s.bfs(ctx, id, depth, limit, model.EdgeCalls, Incoming)
}

// GetCallees runs BFS along outgoing Calls edges up to depth.
func (s *Service) GetCallees(ctx context.Context, id string, depth, limit int) ([]BFSResult, error) {
	return s.bfs(ctx, id, depth, limit, model.EdgeCalls, Outgoing)
}

func defaultDepth(depth int) int {
	if depth <= 0 {
		return 1
	}
	return depth
}

// bfs explores edges of kind in the given direction up to depth hops,
// breaking cycles with a visited set (spec.md §5 "all traversals use a
// visited set").
func (s *Service) bfs(ctx context.Context, rootID string, depth, limit int, kind model.EdgeKind, direction Direction) ([]BFSResult, error) {
	if depth <= 0 {
		return nil, nil
	}
	visited := map[string]bool{rootID: true}
	frontier := []string{rootID}
	var results []BFSResult

	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			var edges []model.RelationshipEdge
			var err error
			if direction == Incoming {
				edges, err = s.repo.GetIncomingEdges(ctx, id, &kind, 0)
			} else {
				edges, err = s.repo.GetOutgoingEdges(ctx, id, &kind, 0)
			}
			if err != nil {
				return nil, err
			}
			for _, e := range edges {
				target := e.TargetID
				if direction == Incoming {
					target = e.SourceID
				}
				if visited[target] {
					continue
				}
				visited[target] = true
				node, err := s.repo.GetNode(ctx, target)
				if err != nil {
					return nil, err
				}
				if node == nil {
					continue
				}
				results = append(results, BFSResult{Node: *node, Depth: d})
				next = append(next, target)
				if limit > 0 && len(results) >= limit {
					return results, nil
				}
			}
		}
		frontier = next
	}
	return results, nil
}

// GetInheritance runs BFS along Inherits/Implements edges.
func (s *Service) GetInheritance(ctx context.Context, id string, direction InheritanceDirection, depth int) ([]BFSResult, error) {
	depth = defaultDepth(depth)
	var results []BFSResult
	if direction == Ancestors || direction == InheritanceBoth {
		up, err := s.inheritanceBFS(ctx, id, depth, Outgoing)
		if err != nil {
			return nil, err
		}
		results = append(results, up...)
	}
	if direction == Descendants || direction == InheritanceBoth {
		down, err := s.inheritanceBFS(ctx, id, depth, Incoming)
		if err != nil {
			return nil, err
		}
		results = append(results, down...)
	}
	return results, nil
}

func (s *Service) inheritanceBFS(ctx context.Context, rootID string, depth int, direction Direction) ([]BFSResult, error) {
	visited := map[string]bool{rootID: true}
	frontier := []string{rootID}
	var results []BFSResult
	for d := 1; d <= depth && len(frontier) > 0; d++ {
		var next []string
		for _, id := range frontier {
			for _, kind := range []model.EdgeKind{model.EdgeInherits, model.EdgeImplements} {
				var edges []model.RelationshipEdge
				var err error
				if direction == Outgoing {
					edges, err = s.repo.GetOutgoingEdges(ctx, id, &kind, 0)
				} else {
					edges, err = s.repo.GetIncomingEdges(ctx, id, &kind, 0)
				}
				if err != nil {
					return nil, err
				}
				for _, e := range edges {
					target := e.TargetID
					if direction == Incoming {
						target = e.SourceID
					}
					if visited[target] {
						continue
					}
					visited[target] = true
					node, err := s.repo.GetNode(ctx, target)
					if err != nil {
						return nil, err
					}
					if node == nil {
						continue
					}
					results = append(results, BFSResult{Node: *node, Depth: d})
					next = append(next, target)
				}
			}
		}
		frontier = next
	}
	return results, nil
}

// GetUsages returns incoming edges filtered to usage-shaped kinds.
func (s *Service) GetUsages(ctx context.Context, id string, usageKind *model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	if usageKind != nil {
		return s.repo.GetIncomingEdges(ctx, id, usageKind, limit)
	}
	kinds := []model.EdgeKind{model.EdgeCalls, model.EdgeReferences, model.EdgeConstructs, model.EdgeInherits, model.EdgeImplements, model.EdgeUses}
	var all []model.RelationshipEdge
	for _, k := range kinds {
		edges, err := s.repo.GetIncomingEdges(ctx, id, &k, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, edges...)
	}
	return withLimit(all, limit), nil
}

// GetDependencies walks outgoing DependsOn edges from projectId.
func (s *Service) GetDependencies(ctx context.Context, projectID string, transitive bool) ([]model.DeclarationNode, error) {
	return s.walkDependsOn(ctx, projectID, transitive, Outgoing)
}

// GetDependents walks incoming DependsOn edges into projectId.
func (s *Service) GetDependents(ctx context.Context, projectID string, transitive bool) ([]model.DeclarationNode, error) {
	return s.walkDependsOn(ctx, projectID, transitive, Incoming)
}

func (s *Service) walkDependsOn(ctx context.Context, rootID string, transitive bool, direction Direction) ([]model.DeclarationNode, error) {
	depth := 1
	if transitive {
		depth = 1 << 20 // effectively unbounded, still cycle-guarded by visited set
	}
	kind := model.EdgeDependsOn
	bfsResults, err := s.bfs(ctx, rootID, depth, 0, kind, direction)
	if err != nil {
		return nil, err
	}
	out := make([]model.DeclarationNode, len(bfsResults))
	for i, r := range bfsResults {
		out[i] = r.Node
	}
	return out, nil
}

// ListByKind lists nodes of kind, optionally scoped to descendants of scopeID.
func (s *Service) ListByKind(ctx context.Context, kind model.NodeKind, scopeID *string, limit int) ([]model.DeclarationNode, error) {
	nodes, err := s.repo.GetNodesByKind(ctx, kind, 0)
	if err != nil {
		return nil, err
	}
	if scopeID == nil {
		return withNodeLimit(nodes, limit), nil
	}
	var scoped []model.DeclarationNode
	for _, n := range nodes {
		inScope, err := s.isDescendant(ctx, n.ID, *scopeID)
		if err != nil {
			return nil, err
		}
		if inScope {
			scoped = append(scoped, n)
			if limit > 0 && len(scoped) >= limit {
				break
			}
		}
	}
	return scoped, nil
}

func (s *Service) isDescendant(ctx context.Context, id, scopeID string) (bool, error) {
	ancestors, err := s.GetAncestors(ctx, id)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		if a.ID == scopeID {
			return true, nil
		}
	}
	return false, nil
}

// GetFileDeclarations lists every node declared in relativePath.
func (s *Service) GetFileDeclarations(ctx context.Context, relativePath string) ([]model.DeclarationNode, error) {
	return s.repo.GetNodesByFile(ctx, relativePath)
}

// GetSignature returns a node's display signature: its name, or for
// methods/constructors/indexers the full id (which already carries the
// parenthesised parameter-type list, spec.md §3.1).
func (s *Service) GetSignature(ctx context.Context, id string) (string, error) {
	n, err := s.repo.GetNode(ctx, id)
	if err != nil {
		return "", err
	}
	if n == nil {
		return "", nil
	}
	switch n.Kind {
	case model.KindMethod, model.KindConstructor, model.KindIndexer, model.KindLocalFunction:
		return n.ID, nil
	default:
		return n.Name, nil
	}
}

// CodeResult is GetCode's result: node metadata plus the literal source
// snippet spanning its declared range.
type CodeResult struct {
	Node   model.DeclarationNode
	Source string
}

// GetCode returns id's declaration metadata plus the literal source text
// from FilePath:StartLine-EndLine.
func (s *Service) GetCode(ctx context.Context, id string) (*CodeResult, error) {
	n, err := s.repo.GetNode(ctx, id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	snippet, err := s.readSnippet(n.FilePath, n.StartLine, n.EndLine)
	if err != nil {
		return nil, sharperrors.StorageError(err, fmt.Sprintf("read source for %s", id))
	}
	return &CodeResult{Node: *n, Source: snippet}, nil
}

func (s *Service) readSnippet(relPath string, startLine, endLine int) (string, error) {
	data, err := os.ReadFile(joinRoot(s.rootDir, relPath))
	if err != nil {
		return "", err
	}
	lines := strings.Split(string(data), "\n")
	if startLine < 1 || startLine > len(lines) {
		return "", nil
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}
	return strings.Join(lines[startLine-1:endLine], "\n"), nil
}

func joinRoot(root, relPath string) string {
	if root == "" {
		return relPath
	}
	return root + "/" + relPath
}

// TreeNode is one level of a GetTree result.
type TreeNode struct {
	Node     model.DeclarationNode
	Children []TreeNode
}

// GetTree returns a bounded Contains tree rooted at rootId.
func (s *Service) GetTree(ctx context.Context, rootID string, kindFilter *model.NodeKind, depth int) (*TreeNode, error) {
	root, err := s.repo.GetNode(ctx, rootID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, nil
	}
	return s.buildTree(ctx, *root, kindFilter, depth)
}

func (s *Service) buildTree(ctx context.Context, n model.DeclarationNode, kindFilter *model.NodeKind, depth int) (*TreeNode, error) {
	node := &TreeNode{Node: n}
	if depth <= 0 {
		return node, nil
	}
	children, err := s.GetChildren(ctx, n.ID, kindFilter, 0)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		child, err := s.buildTree(ctx, c, kindFilter, depth-1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, *child)
	}
	return node, nil
}

func (s *Service) resolveTargets(ctx context.Context, edges []model.RelationshipEdge, kindFilter *model.NodeKind) ([]model.DeclarationNode, error) {
	nodes := make([]model.DeclarationNode, 0, len(edges))
	for _, e := range edges {
		n, err := s.repo.GetNode(ctx, e.TargetID)
		if err != nil {
			return nil, err
		}
		if n == nil {
			continue
		}
		if kindFilter != nil && n.Kind != *kindFilter {
			continue
		}
		nodes = append(nodes, *n)
	}
	return nodes, nil
}

func withLimit(edges []model.RelationshipEdge, limit int) []model.RelationshipEdge {
	if limit > 0 && len(edges) > limit {
		return edges[:limit]
	}
	return edges
}

func withNodeLimit(nodes []model.DeclarationNode, limit int) []model.DeclarationNode {
	if limit > 0 && len(nodes) > limit {
		return nodes[:limit]
	}
	return nodes
}
