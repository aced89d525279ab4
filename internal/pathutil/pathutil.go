// Package pathutil normalises filesystem paths to workspace-relative,
// platform-independent form (spec.md §2 "Path Helper").
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to a workspace-relative,
// forward-slash path. A path outside root comes back with leading "../"
// segments; only when no relative path can be formed at all is absPath
// returned cleaned and slash-normalised.
func ToRelative(root, absPath string) string {
	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return ToSlash(absPath)
	}
	return ToSlash(rel)
}

// ToSlash normalises OS-specific separators to forward slashes, matching
// the DeclarationNode.FilePath contract (spec.md §3.1).
func ToSlash(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// IsExcludedDir reports whether any path segment matches one of the
// excluded directory names (spec.md §4.6: "bin/ and obj/ segments
// (anywhere in the relative path) are excluded").
func IsExcludedDir(relPath string, excluded []string) bool {
	segments := strings.Split(ToSlash(relPath), "/")
	for _, seg := range segments {
		for _, ex := range excluded {
			if seg == ex {
				return true
			}
		}
	}
	return false
}

// HasExtension reports whether path has the given extension (case
// -insensitive, leading dot optional on either argument).
func HasExtension(path, ext string) bool {
	ext = strings.TrimPrefix(ext, ".")
	actual := strings.TrimPrefix(filepath.Ext(path), ".")
	return strings.EqualFold(actual, ext)
}
