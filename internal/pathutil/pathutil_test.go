package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToRelative(t *testing.T) {
	t.Run("under root", func(t *testing.T) {
		assert.Equal(t, "src/Foo.cs", ToRelative("/repo", "/repo/src/Foo.cs"))
	})
	t.Run("not under root yields a parent-relative path", func(t *testing.T) {
		got := ToRelative("/repo", "/other/Foo.cs")
		assert.Contains(t, got, "Foo.cs")
	})
}

func TestToSlash(t *testing.T) {
	assert.Equal(t, "src/Foo.cs", ToSlash("src/Foo.cs"))
	assert.Equal(t, "src/foo", ToSlash("src/./foo"))
}

func TestIsExcludedDir(t *testing.T) {
	excluded := []string{"bin", "obj"}
	t.Run("excluded segment anywhere in path", func(t *testing.T) {
		assert.True(t, IsExcludedDir("MyProj/bin/Debug/Foo.cs", excluded))
		assert.True(t, IsExcludedDir("MyProj/obj/Foo.cs", excluded))
	})
	t.Run("not excluded", func(t *testing.T) {
		assert.False(t, IsExcludedDir("MyProj/src/Foo.cs", excluded))
	})
	t.Run("partial segment match does not count", func(t *testing.T) {
		assert.False(t, IsExcludedDir("MyProj/binary/Foo.cs", excluded))
	})
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("Foo.cs", "cs"))
	assert.True(t, HasExtension("Foo.cs", ".cs"))
	assert.True(t, HasExtension("Foo.CS", "cs"), "extension comparison is case-insensitive")
	assert.False(t, HasExtension("Foo.cs", "ts"))
	assert.False(t, HasExtension("Foo", "cs"))
}
