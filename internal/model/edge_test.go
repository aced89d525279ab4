package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEdgeKind_StringAndParseRoundTrip(t *testing.T) {
	kinds := []EdgeKind{
		EdgeContains, EdgeInherits, EdgeImplements, EdgeOverrides, EdgeCalls,
		EdgeConstructs, EdgeReferences, EdgeUses, EdgeDependsOn,
	}
	for _, k := range kinds {
		name := k.String()
		assert.NotEqual(t, "Unknown", name)
		parsed, ok := ParseEdgeKind(name)
		assert.True(t, ok, "ParseEdgeKind(%q) should succeed", name)
		assert.Equal(t, k, parsed)
	}
}

func TestParseEdgeKind_Unknown(t *testing.T) {
	_, ok := ParseEdgeKind("NotAKind")
	assert.False(t, ok)
}

func TestNewEdge(t *testing.T) {
	e := NewEdge("a", "b", EdgeCalls)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "a", e.SourceID)
	assert.Equal(t, "b", e.TargetID)
	assert.Equal(t, EdgeCalls, e.Kind)
	assert.Nil(t, e.SourceFilePath)
}

func TestNewEdge_DistinctIDsForRepeatedTriples(t *testing.T) {
	e1 := NewEdge("a", "b", EdgeCalls)
	e2 := NewEdge("a", "b", EdgeCalls)
	assert.NotEqual(t, e1.ID, e2.ID, "multigraph edges from distinct call sites must not collide on id")
}

func TestRelationshipEdge_WithSite(t *testing.T) {
	e := NewEdge("a", "b", EdgeReferences).WithSite("Foo.cs", 10)
	if assert.NotNil(t, e.SourceFilePath) {
		assert.Equal(t, "Foo.cs", *e.SourceFilePath)
	}
	if assert.NotNil(t, e.SourceLine) {
		assert.Equal(t, 10, *e.SourceLine)
	}
}
