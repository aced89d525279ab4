package update

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nick-boey/sharpitect/internal/analysis"
	"github.com/nick-boey/sharpitect/internal/config"
	"github.com/nick-boey/sharpitect/internal/dependency"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/storage"
	"github.com/nick-boey/sharpitect/internal/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func openUpdateTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.Open(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func hasInheritsBA(t *testing.T, repo *storage.Repository) bool {
	t.Helper()
	edges, err := repo.GetOutgoingEdges(context.Background(), "B", nil, 0)
	require.NoError(t, err)
	for _, e := range edges {
		if e.Kind == model.EdgeInherits && e.TargetID == "A" {
			return true
		}
	}
	return false
}

func nodeExists(t *testing.T, repo *storage.Repository, id string) bool {
	t.Helper()
	nodes, _, err := repo.SearchNodesByName(context.Background(), "%", false, nil, 1000)
	require.NoError(t, err)
	for _, n := range nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}

// TestE4_DeleteRecreateCascade exercises spec.md §8 scenario E4: deleting
// f.cs removes class A and cascades Inherits(B,A) away while keeping B, and
// recreating f.cs with identical content restores A and re-analyses g.cs,
// restoring Inherits(B,A).
func TestE4_DeleteRecreateCascade(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, "Acme.sln.json"), `{"name":"Acme","projects":["P/P.csproj.json"]}`)
	writeTestFile(t, filepath.Join(dir, "P", "P.csproj.json"), `{"name":"P","references":[]}`)
	fPath := filepath.Join(dir, "P", "f.cs")
	gPath := filepath.Join(dir, "P", "g.cs")
	const aSource = "class A {}\n"
	writeTestFile(t, fPath, aSource)
	writeTestFile(t, gPath, "class B : A {}\n")

	repo := openUpdateTestRepo(t)
	cfg := config.Default()
	tracker := dependency.NewTracker()

	result, ws, err := analysis.AnalyzeSolution(context.Background(), filepath.Join(dir, "Acme.sln.json"), cfg, repo, tracker)
	require.NoError(t, err)
	require.NotNil(t, ws)

	require.True(t, nodeExists(t, repo, "A"))
	require.True(t, nodeExists(t, repo, "B"))
	require.True(t, hasInheritsBA(t, repo))

	svc := New(cfg, repo, ws, tracker, result.Symbols, result.KnownIDs, result.ResIdx)
	ctx := context.Background()

	// Delete f.cs.
	require.NoError(t, os.Remove(fPath))
	svc.processBatch(ctx, []watcher.Change{{FilePath: "P/f.cs", Kind: watcher.Deleted}})

	assert.False(t, nodeExists(t, repo, "A"), "class A must be gone after f.cs is deleted")
	assert.True(t, nodeExists(t, repo, "B"), "class B must survive, only its own file was untouched")
	assert.False(t, hasInheritsBA(t, repo), "Inherits(B,A) must cascade away with A")

	// Recreate f.cs with identical content.
	writeTestFile(t, fPath, aSource)
	svc.processBatch(ctx, []watcher.Change{{FilePath: "P/f.cs", Kind: watcher.Created}})

	assert.True(t, nodeExists(t, repo, "A"), "class A must be restored")
	assert.True(t, hasInheritsBA(t, repo), "Inherits(B,A) must be restored once g.cs is re-analysed via cascade")
}
