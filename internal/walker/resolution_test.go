package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick-boey/sharpitect/internal/model"
)

func TestResolutionIndex_ResolveType(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "Acme.Foo", Name: "Foo", Kind: model.KindClass})

	t.Run("unique name resolves", func(t *testing.T) {
		id, ok := idx.ResolveType("Foo")
		require.True(t, ok)
		assert.Equal(t, "Acme.Foo", id)
	})
	t.Run("unknown name does not resolve", func(t *testing.T) {
		_, ok := idx.ResolveType("Bar")
		assert.False(t, ok)
	})
	t.Run("generic arity is stripped before lookup", func(t *testing.T) {
		id, ok := idx.ResolveType("Foo<T>")
		require.True(t, ok)
		assert.Equal(t, "Acme.Foo", id)
	})
}

func TestResolutionIndex_ResolveType_AmbiguousNameFailsWithoutContainer(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "NsA.Widget", Name: "Widget", Kind: model.KindClass})
	idx.Add(model.DeclarationNode{ID: "NsB.Widget", Name: "Widget", Kind: model.KindClass})

	_, ok := idx.ResolveType("Widget")
	assert.False(t, ok, "two same-named types with no enclosing-type preference is ambiguous")
}

func TestResolutionIndex_ResolveMember_PrefersEnclosingContainer(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod})
	idx.Add(model.DeclarationNode{ID: "Quux.Bar()", Name: "Bar", Kind: model.KindMethod})

	id, ok := idx.ResolveMember("Bar", "Foo")
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar()", id)
}

func TestResolutionIndex_ResolveMember_UniqueFallbackWithoutContainer(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod})

	id, ok := idx.ResolveMember("Bar", "")
	require.True(t, ok)
	assert.Equal(t, "Foo.Bar()", id)
}

func TestResolutionIndex_ResolveMember_AmbiguousWithoutMatchingContainer(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod})
	idx.Add(model.DeclarationNode{ID: "Quux.Bar()", Name: "Bar", Kind: model.KindMethod})

	_, ok := idx.ResolveMember("Bar", "Zap")
	assert.False(t, ok)
}

func TestResolutionIndex_Remove(t *testing.T) {
	idx := NewResolutionIndex()
	n := model.DeclarationNode{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod}
	idx.Add(n)

	idx.Remove([]model.DeclarationNode{n})

	_, ok := idx.ResolveMember("Bar", "")
	assert.False(t, ok)
	_, known := idx.Kind("Foo.Bar()")
	assert.False(t, known)
}

func TestResolutionIndex_Remove_DoesNotAffectOtherNodesWithSameName(t *testing.T) {
	idx := NewResolutionIndex()
	a := model.DeclarationNode{ID: "Foo.Bar()", Name: "Bar", Kind: model.KindMethod}
	b := model.DeclarationNode{ID: "Quux.Bar()", Name: "Bar", Kind: model.KindMethod}
	idx.Add(a)
	idx.Add(b)

	idx.Remove([]model.DeclarationNode{a})

	id, ok := idx.ResolveMember("Bar", "")
	require.True(t, ok, "removing one ambiguous candidate should leave the other uniquely resolvable")
	assert.Equal(t, "Quux.Bar()", id)
}

func TestResolutionIndex_Kind(t *testing.T) {
	idx := NewResolutionIndex()
	idx.Add(model.DeclarationNode{ID: "Foo", Name: "Foo", Kind: model.KindClass})

	k, ok := idx.Kind("Foo")
	require.True(t, ok)
	assert.Equal(t, model.KindClass, k)

	_, ok = idx.Kind("Missing")
	assert.False(t, ok)
}
