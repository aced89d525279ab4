package model

import "encoding/json"

// CommentMetadata is the kind-specific payload for TodoComment nodes
// (spec.md §4.3): full untruncated text plus the marker type.
type CommentMetadata struct {
	CommentType string `json:"commentType"`
	Text        string `json:"text"`
}

// Encode marshals the metadata to the JSON string stored in
// DeclarationNode.Metadata.
func (c CommentMetadata) Encode() string {
	b, _ := json.Marshal(c)
	return string(b)
}

// ComponentAnnotation is extracted from a `[Component]`/`[ComponentAttribute]`
// attribute on a type-kind or enum symbol (spec.md §4.1).
type ComponentAnnotation struct {
	Description string
}
