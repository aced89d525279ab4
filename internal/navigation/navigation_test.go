package navigation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/storage"
)

// buildFixture seeds a small graph: Solution -> Project -> Namespace -> Class
// (Foo) with a method Bar that calls a method Baz on another class Quux, and
// Foo implements an interface IFoo.
func buildFixture(t *testing.T) (*Service, *storage.Repository) {
	t.Helper()
	root := t.TempDir()
	repo, err := storage.Open(filepath.Join(root, "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	nodes := []model.DeclarationNode{
		{ID: "sln", Name: "Sln", Kind: model.KindSolution, FilePath: "Sln.sln", StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1},
		{ID: "proj", Name: "Proj", Kind: model.KindProject, FilePath: "Proj.csproj", StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1},
		{ID: "ns", Name: "Acme", Kind: model.KindNamespace, FilePath: "Foo.cs", StartLine: 1, StartColumn: 1, EndLine: 20, EndColumn: 1},
		{ID: "IFoo", Name: "IFoo", Kind: model.KindInterface, FilePath: "IFoo.cs", StartLine: 1, StartColumn: 1, EndLine: 3, EndColumn: 1},
		{ID: "Foo", Name: "Foo", Kind: model.KindClass, FilePath: "Foo.cs", StartLine: 2, StartColumn: 1, EndLine: 10, EndColumn: 1},
		{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod, FilePath: "Foo.cs", StartLine: 3, StartColumn: 1, EndLine: 5, EndColumn: 1},
		{ID: "Quux", Name: "Quux", Kind: model.KindClass, FilePath: "Quux.cs", StartLine: 1, StartColumn: 1, EndLine: 10, EndColumn: 1},
		{ID: "Quux.Baz()", Name: "Baz", Kind: model.KindMethod, FilePath: "Quux.cs", StartLine: 2, StartColumn: 1, EndLine: 4, EndColumn: 1},
	}
	require.NoError(t, repo.UpsertNodes(ctx, nodes))

	edges := []model.RelationshipEdge{
		*model.NewEdge("sln", "proj", model.EdgeContains),
		*model.NewEdge("proj", "ns", model.EdgeContains),
		*model.NewEdge("ns", "Foo", model.EdgeContains),
		*model.NewEdge("ns", "IFoo", model.EdgeContains),
		*model.NewEdge("ns", "Quux", model.EdgeContains),
		*model.NewEdge("Foo", "Foo.Bar()", model.EdgeContains),
		*model.NewEdge("Quux", "Quux.Baz()", model.EdgeContains),
		*model.NewEdge("Foo", "IFoo", model.EdgeImplements),
		*model.NewEdge("Foo.Bar()", "Quux.Baz()", model.EdgeCalls),
	}
	require.NoError(t, repo.UpsertEdges(ctx, edges))

	return New(repo, root), repo
}

func TestSearch_ContainsMode(t *testing.T) {
	svc, _ := buildFixture(t)
	result, err := svc.Search(context.Background(), "oo", Contains, nil, false, 50)
	require.NoError(t, err)
	names := make([]string, 0, len(result.Results))
	for _, n := range result.Results {
		names = append(names, n.Name)
	}
	assert.Contains(t, names, "Foo")
	assert.Contains(t, names, "IFoo")
}

func TestSearch_ZeroLimitReturnsNoRowsButReportsMatch(t *testing.T) {
	svc, _ := buildFixture(t)

	result, err := svc.Search(context.Background(), "oo", Contains, nil, false, 0)
	require.NoError(t, err)
	assert.Empty(t, result.Results)
	assert.True(t, result.Truncated, "matches exist, limit=0 must still report truncated")
	assert.Greater(t, result.TotalCount, 0)

	noMatch, err := svc.Search(context.Background(), "zzz-nope", Contains, nil, false, 0)
	require.NoError(t, err)
	assert.Empty(t, noMatch.Results)
	assert.False(t, noMatch.Truncated, "no matches at all, limit=0 must not report truncated")
	assert.Equal(t, 0, noMatch.TotalCount)
}

func TestGetNode(t *testing.T) {
	svc, _ := buildFixture(t)
	n, err := svc.GetNode(context.Background(), "Foo")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, "Foo", n.Name)

	missing, err := svc.GetNode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetChildren(t *testing.T) {
	svc, _ := buildFixture(t)
	children, err := svc.GetChildren(context.Background(), "ns", nil, 0)
	require.NoError(t, err)
	assert.Len(t, children, 3)
}

func TestGetAncestors_RootFirstOrder(t *testing.T) {
	svc, _ := buildFixture(t)
	ancestors, err := svc.GetAncestors(context.Background(), "Foo.Bar()")
	require.NoError(t, err)
	ids := make([]string, len(ancestors))
	for i, a := range ancestors {
		ids[i] = a.ID
	}
	assert.Equal(t, []string{"sln", "proj", "ns", "Foo"}, ids)
}

func TestGetRelationships_Both(t *testing.T) {
	svc, _ := buildFixture(t)
	edges, err := svc.GetRelationships(context.Background(), "Foo", Both, nil, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, edges)
}

func TestGetCallers_And_GetCallees(t *testing.T) {
	svc, _ := buildFixture(t)

	callees, err := svc.GetCallees(context.Background(), "Foo.Bar()", 1, 0)
	require.NoError(t, err)
	require.Len(t, callees, 1)
	assert.Equal(t, "Quux.Baz()", callees[0].Node.ID)

	callers, err := svc.GetCallers(context.Background(), "Quux.Baz()", 1, 0)
	require.NoError(t, err)
	require.Len(t, callers, 1)
	assert.Equal(t, "Foo.Bar()", callers[0].Node.ID)
}

func TestGetInheritance_Ancestors(t *testing.T) {
	svc, _ := buildFixture(t)
	results, err := svc.GetInheritance(context.Background(), "Foo", Ancestors, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "IFoo", results[0].Node.ID)
}

func TestGetUsages_DefaultKinds(t *testing.T) {
	svc, _ := buildFixture(t)
	usages, err := svc.GetUsages(context.Background(), "Quux.Baz()", nil, 0)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, model.EdgeCalls, usages[0].Kind)
}

func TestListByKind_ScopedToSubtree(t *testing.T) {
	svc, _ := buildFixture(t)
	scope := "Foo"
	nodes, err := svc.ListByKind(context.Background(), model.KindMethod, &scope, 0)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "Foo.Bar()", nodes[0].ID)
}

func TestGetFileDeclarations(t *testing.T) {
	svc, _ := buildFixture(t)
	nodes, err := svc.GetFileDeclarations(context.Background(), "Foo.cs")
	require.NoError(t, err)
	assert.Len(t, nodes, 3) // ns, Foo, Foo.Bar()
}

func TestGetSignature(t *testing.T) {
	svc, _ := buildFixture(t)

	methodSig, err := svc.GetSignature(context.Background(), "Foo.Bar()")
	require.NoError(t, err)
	assert.Equal(t, "Foo.Bar()", methodSig)

	classSig, err := svc.GetSignature(context.Background(), "Foo")
	require.NoError(t, err)
	assert.Equal(t, "Foo", classSig)
}

func TestGetCode_ReadsLiteralSnippet(t *testing.T) {
	root := t.TempDir()
	repo, err := storage.Open(filepath.Join(root, "graph.db"))
	require.NoError(t, err)
	defer repo.Close()

	source := "class Foo\n{\n    void Bar() {}\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "Foo.cs"), []byte(source), 0o644))

	require.NoError(t, repo.UpsertNode(context.Background(), model.DeclarationNode{
		ID: "Foo", Name: "Foo", Kind: model.KindClass, FilePath: "Foo.cs",
		StartLine: 1, StartColumn: 1, EndLine: 4, EndColumn: 1,
	}))

	svc := New(repo, root)
	result, err := svc.GetCode(context.Background(), "Foo")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, source[:len(source)-1], result.Source)
}

func TestGetCode_MissingNode(t *testing.T) {
	svc, _ := buildFixture(t)
	result, err := svc.GetCode(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestGetTree_BoundedByDepth(t *testing.T) {
	svc, _ := buildFixture(t)
	tree, err := svc.GetTree(context.Background(), "proj", nil, 1)
	require.NoError(t, err)
	require.NotNil(t, tree)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "ns", tree.Children[0].Node.ID)
	assert.Empty(t, tree.Children[0].Children, "depth 1 should not recurse into ns's own children")
}
