package mcpserver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/navigation"
)

func TestParseMatchMode(t *testing.T) {
	t.Run("known modes", func(t *testing.T) {
		cases := map[string]navigation.MatchMode{
			"":           navigation.Contains,
			"Contains":   navigation.Contains,
			"StartsWith": navigation.StartsWith,
			"EndsWith":   navigation.EndsWith,
			"Exact":      navigation.Exact,
		}
		for in, want := range cases {
			got, ok := parseMatchMode(in)
			require.True(t, ok, "input %q should parse", in)
			assert.Equal(t, want, got)
		}
	})
	t.Run("unknown mode", func(t *testing.T) {
		_, ok := parseMatchMode("Fuzzy")
		assert.False(t, ok)
	})
}

func TestParseDirection(t *testing.T) {
	cases := map[string]navigation.Direction{
		"":         navigation.Both,
		"Both":     navigation.Both,
		"Outgoing": navigation.Outgoing,
		"Incoming": navigation.Incoming,
	}
	for in, want := range cases {
		got, ok := parseDirection(in)
		require.True(t, ok, "input %q should parse", in)
		assert.Equal(t, want, got)
	}
	_, ok := parseDirection("Sideways")
	assert.False(t, ok)
}

func TestParseInheritanceDirection(t *testing.T) {
	cases := map[string]navigation.InheritanceDirection{
		"":            navigation.Ancestors,
		"Ancestors":   navigation.Ancestors,
		"Descendants": navigation.Descendants,
		"Both":        navigation.InheritanceBoth,
	}
	for in, want := range cases {
		got, ok := parseInheritanceDirection(in)
		require.True(t, ok, "input %q should parse", in)
		assert.Equal(t, want, got)
	}
	_, ok := parseInheritanceDirection("Sideways")
	assert.False(t, ok)
}

func TestParseNodeKindFilter(t *testing.T) {
	t.Run("empty means no filter", func(t *testing.T) {
		k, ok := parseNodeKindFilter("")
		assert.True(t, ok)
		assert.Nil(t, k)
	})
	t.Run("known kind", func(t *testing.T) {
		k, ok := parseNodeKindFilter("Class")
		require.True(t, ok)
		require.NotNil(t, k)
		assert.Equal(t, model.KindClass, *k)
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, ok := parseNodeKindFilter("NotAKind")
		assert.False(t, ok)
	})
}

func TestParseEdgeKindFilter(t *testing.T) {
	t.Run("empty means no filter", func(t *testing.T) {
		k, ok := parseEdgeKindFilter("")
		assert.True(t, ok)
		assert.Nil(t, k)
	})
	t.Run("known kind", func(t *testing.T) {
		k, ok := parseEdgeKindFilter("Calls")
		require.True(t, ok)
		require.NotNil(t, k)
		assert.Equal(t, model.EdgeCalls, *k)
	})
	t.Run("unknown kind", func(t *testing.T) {
		_, ok := parseEdgeKindFilter("NotAKind")
		assert.False(t, ok)
	})
}

func TestToolError_ReturnsMachineReadablePayload(t *testing.T) {
	result, payload, err := toolError("VALIDATION", "bad input")
	require.NoError(t, err)
	assert.True(t, result.IsError)
	m, ok := payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, m["error"])
	assert.Equal(t, "VALIDATION", m["error_code"])
	assert.Equal(t, "bad input", m["message"])
}

func TestNotFound_UsesNotFoundErrorCode(t *testing.T) {
	_, payload, err := notFound("n1")
	require.NoError(t, err)
	m := payload.(map[string]any)
	assert.Equal(t, "NOT_FOUND", m["error_code"])
	assert.Contains(t, m["message"], "n1")
}
