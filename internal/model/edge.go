package model

import "github.com/google/uuid"

// EdgeKind identifies the category of a RelationshipEdge.
type EdgeKind int

const (
	EdgeContains EdgeKind = iota
	EdgeInherits
	EdgeImplements
	EdgeOverrides
	EdgeCalls
	EdgeConstructs
	EdgeReferences
	EdgeUses
	EdgeDependsOn
)

var edgeKindNames = map[EdgeKind]string{
	EdgeContains:   "Contains",
	EdgeInherits:   "Inherits",
	EdgeImplements: "Implements",
	EdgeOverrides:  "Overrides",
	EdgeCalls:      "Calls",
	EdgeConstructs: "Constructs",
	EdgeReferences: "References",
	EdgeUses:       "Uses",
	EdgeDependsOn:  "DependsOn",
}

func (k EdgeKind) String() string {
	if s, ok := edgeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseEdgeKind resolves an EdgeKind from its spec display name.
func ParseEdgeKind(s string) (EdgeKind, bool) {
	for k, name := range edgeKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// RelationshipEdge is a directed, typed relation between two nodes (spec.md §3.2).
type RelationshipEdge struct {
	ID               string   `db:"id" json:"id"`
	SourceID         string   `db:"source_id" json:"sourceId"`
	TargetID         string   `db:"target_id" json:"targetId"`
	Kind             EdgeKind `db:"kind" json:"kind"`
	SourceFilePath   *string  `db:"source_file_path" json:"sourceFilePath,omitempty"`
	SourceLine       *int     `db:"source_line" json:"sourceLine,omitempty"`
	Metadata         *string  `db:"metadata" json:"metadata,omitempty"`
}

// NewEdge builds an edge with a fresh opaque id, as spec.md §3.2 requires
// (the graph is a multigraph: repeated (source,target,kind) triples are
// legal when they come from distinct source sites).
func NewEdge(sourceID, targetID string, kind EdgeKind) *RelationshipEdge {
	return &RelationshipEdge{
		ID:       uuid.NewString(),
		SourceID: sourceID,
		TargetID: targetID,
		Kind:     kind,
	}
}

// WithSite records the file/line that produced the edge, used by
// incremental deletion (spec.md §4.8).
func (e *RelationshipEdge) WithSite(filePath string, line int) *RelationshipEdge {
	e.SourceFilePath = &filePath
	e.SourceLine = &line
	return e
}
