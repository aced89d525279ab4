package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeKind_StringAndParseRoundTrip(t *testing.T) {
	kinds := []NodeKind{
		KindSolution, KindProject, KindNamespace, KindClass, KindInterface,
		KindStruct, KindRecord, KindEnum, KindEnumMember, KindDelegate,
		KindMethod, KindConstructor, KindProperty, KindField, KindEvent,
		KindIndexer, KindParameter, KindTypeParameter, KindLocalVariable,
		KindLocalFunction, KindTodoComment,
	}
	for _, k := range kinds {
		name := k.String()
		assert.NotEqual(t, "Unknown", name)
		parsed, ok := ParseNodeKind(name)
		assert.True(t, ok, "ParseNodeKind(%q) should succeed", name)
		assert.Equal(t, k, parsed)
	}
}

func TestParseNodeKind_Unknown(t *testing.T) {
	_, ok := ParseNodeKind("NotAKind")
	assert.False(t, ok)
}

func TestNodeKind_IsTypeKind(t *testing.T) {
	t.Run("type kinds", func(t *testing.T) {
		for _, k := range []NodeKind{KindClass, KindInterface, KindStruct, KindRecord, KindEnum} {
			assert.True(t, k.IsTypeKind(), "%s should be a type kind", k)
		}
	})
	t.Run("non-type kinds", func(t *testing.T) {
		for _, k := range []NodeKind{KindMethod, KindField, KindNamespace, KindSolution} {
			assert.False(t, k.IsTypeKind(), "%s should not be a type kind", k)
		}
	})
}

func TestNodeKind_IsLocalKind(t *testing.T) {
	for _, k := range []NodeKind{KindParameter, KindTypeParameter, KindLocalVariable, KindLocalFunction} {
		assert.True(t, k.IsLocalKind(), "%s should be a local kind", k)
	}
	for _, k := range []NodeKind{KindClass, KindMethod, KindField} {
		assert.False(t, k.IsLocalKind(), "%s should not be a local kind", k)
	}
}

func TestDeclarationNode_Validate(t *testing.T) {
	t.Run("valid node", func(t *testing.T) {
		n := &DeclarationNode{ID: "x", StartLine: 1, StartColumn: 1, EndLine: 2, EndColumn: 1}
		assert.NoError(t, n.Validate())
	})
	t.Run("empty id", func(t *testing.T) {
		n := &DeclarationNode{StartLine: 1, StartColumn: 1, EndLine: 1, EndColumn: 1}
		assert.Error(t, n.Validate())
	})
	t.Run("start line after end line", func(t *testing.T) {
		n := &DeclarationNode{ID: "x", StartLine: 5, StartColumn: 1, EndLine: 2, EndColumn: 1}
		assert.Error(t, n.Validate())
	})
	t.Run("same line, start column after end column", func(t *testing.T) {
		n := &DeclarationNode{ID: "x", StartLine: 1, StartColumn: 10, EndLine: 1, EndColumn: 2}
		assert.Error(t, n.Validate())
	})
	t.Run("non-positive line or column", func(t *testing.T) {
		n := &DeclarationNode{ID: "x", StartLine: 0, StartColumn: 1, EndLine: 1, EndColumn: 1}
		assert.Error(t, n.Validate())
	})
}

func TestTodoNodeID(t *testing.T) {
	assert.Equal(t, "Foo.Bar$TODO#42", TodoNodeID("Foo.Bar", 42))
}

func TestSolutionAndProjectNodeID(t *testing.T) {
	assert.Equal(t, "MySolution", SolutionNodeID("MySolution"))
	assert.Equal(t, "MyProject", ProjectNodeID("MyProject"))
}
