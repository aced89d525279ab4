package walker

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseDoc writes source to a temp .cs file and compiles it into a
// frontend.Document, the same path OpenWorkspace/CompileDocument take in
// production (spec.md §4.1-§4.3 walkers all operate on a compiled Document).
func parseDoc(t *testing.T, relPath, source string) *frontend.Document {
	t.Helper()
	dir := t.TempDir()
	abs := filepath.Join(dir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(source), 0o644))

	doc := &frontend.Document{AbsPath: abs, RelPath: relPath}
	require.NoError(t, frontend.CompileDocument(doc))
	require.NotNil(t, doc.Tree)
	t.Cleanup(doc.Close)
	return doc
}

func nodeByID(nodes []model.DeclarationNode, id string) *model.DeclarationNode {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i]
		}
	}
	return nil
}

func hasEdge(edges []model.RelationshipEdge, source, target string, kind model.EdgeKind) bool {
	for _, e := range edges {
		if e.SourceID == source && e.TargetID == target && e.Kind == kind {
			return true
		}
	}
	return false
}

// TestE1_NestedClassContainment exercises spec.md §8 scenario E1: nested
// namespace/class/method declarations produce the full Contains chain.
func TestE1_NestedClassContainment(t *testing.T) {
	doc := parseDoc(t, "N.cs", `
namespace N {
	class A {
		class B {
			void M() {}
		}
	}
}
`)
	decl := WalkDeclarations(doc, false)

	for _, id := range []string{"N", "N.A", "N.A.B", "N.A.B.M()"} {
		assert.NotNil(t, nodeByID(decl.Nodes, id), "expected node %s", id)
	}
	assert.True(t, hasEdge(decl.ContainmentEdges, "N", "N.A", model.EdgeContains))
	assert.True(t, hasEdge(decl.ContainmentEdges, "N.A", "N.A.B", model.EdgeContains))
	assert.True(t, hasEdge(decl.ContainmentEdges, "N.A.B", "N.A.B.M()", model.EdgeContains))
}

// TestE3_InterfaceImplementation exercises spec.md §8 scenario E3.
func TestE3_InterfaceImplementation(t *testing.T) {
	doc := parseDoc(t, "T.cs", `
interface I { void F(); }
class T : I { public void F() {} }
`)
	decl := WalkDeclarations(doc, false)
	idx := NewResolutionIndex()
	for _, n := range decl.Nodes {
		idx.Add(n)
	}
	ref := WalkReferences(doc, idx)

	assert.True(t, hasEdge(ref.Edges, "T", "I", model.EdgeImplements))
	assert.NotNil(t, nodeByID(decl.Nodes, "T.F()"))
	assert.NotNil(t, nodeByID(decl.Nodes, "I.F()"))
}

// TestE5_CommentMarker exercises spec.md §8 scenario E5.
func TestE5_CommentMarker(t *testing.T) {
	doc := parseDoc(t, "M.cs", `
namespace Ns {
	class Cls {
		void M() {
			// TODO: handle null
		}
	}
}
`)
	decl := WalkDeclarations(doc, false)
	cmt := WalkComments(doc)

	var todo *model.DeclarationNode
	for i := range cmt.Nodes {
		if cmt.Nodes[i].Kind == model.KindTodoComment {
			todo = &cmt.Nodes[i]
		}
	}
	require.NotNil(t, todo, "expected a TodoComment node")
	assert.Contains(t, todo.ID, "Ns.Cls.M()$TODO#")
	require.NotNil(t, todo.Metadata)
	var meta model.CommentMetadata
	require.NoError(t, json.Unmarshal([]byte(*todo.Metadata), &meta))
	assert.Equal(t, "TODO", meta.CommentType)
	assert.Equal(t, "handle null", meta.Text)

	methodID := "Ns.Cls.M()"
	require.NotNil(t, nodeByID(decl.Nodes, methodID))
	assert.True(t, hasEdge(cmt.ContainmentEdges, methodID, todo.ID, model.EdgeContains))
}

// TestReferenceWalker_FieldDeclarationEmitsReferencesEdge guards the
// field/event-field gap: a field's declared type must produce a References
// edge the same way a method's return type does.
func TestReferenceWalker_FieldDeclarationEmitsReferencesEdge(t *testing.T) {
	doc := parseDoc(t, "W.cs", `
class Logger {}
class Worker {
	private Logger _log;
}
`)
	decl := WalkDeclarations(doc, false)
	idx := NewResolutionIndex()
	for _, n := range decl.Nodes {
		idx.Add(n)
	}
	ref := WalkReferences(doc, idx)

	require.NotNil(t, nodeByID(decl.Nodes, "Worker._log"))
	assert.True(t, hasEdge(ref.Edges, "Worker._log", "Logger", model.EdgeReferences),
		"field declaration must emit a References edge to its declared type")
}

// TestReferenceWalker_MultiDeclaratorFieldEmitsReferencesForEach covers the
// `private int a, b;` shape: one field_declaration, multiple declarators.
func TestReferenceWalker_MultiDeclaratorFieldEmitsReferencesForEach(t *testing.T) {
	doc := parseDoc(t, "W2.cs", `
class Logger {}
class Worker {
	private Logger a, b;
}
`)
	decl := WalkDeclarations(doc, false)
	idx := NewResolutionIndex()
	for _, n := range decl.Nodes {
		idx.Add(n)
	}
	ref := WalkReferences(doc, idx)

	assert.True(t, hasEdge(ref.Edges, "Worker.a", "Logger", model.EdgeReferences))
	assert.True(t, hasEdge(ref.Edges, "Worker.b", "Logger", model.EdgeReferences))
}

// TestReferenceWalker_EventFieldEmitsReferencesEdge covers event_field_declaration.
func TestReferenceWalker_EventFieldEmitsReferencesEdge(t *testing.T) {
	doc := parseDoc(t, "E.cs", `
delegate void Handler();
class Worker {
	public event Handler Changed;
}
`)
	decl := WalkDeclarations(doc, false)
	idx := NewResolutionIndex()
	for _, n := range decl.Nodes {
		idx.Add(n)
	}
	ref := WalkReferences(doc, idx)

	require.NotNil(t, nodeByID(decl.Nodes, "Worker.Changed"))
	assert.True(t, hasEdge(ref.Edges, "Worker.Changed", "Handler", model.EdgeReferences))
}
