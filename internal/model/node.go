// Package model defines the declaration graph's node and edge types.
package model

import "fmt"

// NodeKind identifies the syntactic/semantic category of a DeclarationNode.
type NodeKind int

const (
	KindSolution NodeKind = iota
	KindProject
	KindNamespace
	KindClass
	KindInterface
	KindStruct
	KindRecord
	KindEnum
	KindEnumMember
	KindDelegate
	KindMethod
	KindConstructor
	KindProperty
	KindField
	KindEvent
	KindIndexer
	KindParameter
	KindTypeParameter
	KindLocalVariable
	KindLocalFunction
	KindTodoComment
)

var nodeKindNames = map[NodeKind]string{
	KindSolution:      "Solution",
	KindProject:       "Project",
	KindNamespace:     "Namespace",
	KindClass:         "Class",
	KindInterface:     "Interface",
	KindStruct:        "Struct",
	KindRecord:        "Record",
	KindEnum:          "Enum",
	KindEnumMember:    "EnumMember",
	KindDelegate:      "Delegate",
	KindMethod:        "Method",
	KindConstructor:   "Constructor",
	KindProperty:      "Property",
	KindField:         "Field",
	KindEvent:         "Event",
	KindIndexer:       "Indexer",
	KindParameter:     "Parameter",
	KindTypeParameter: "TypeParameter",
	KindLocalVariable: "LocalVariable",
	KindLocalFunction: "LocalFunction",
	KindTodoComment:   "TodoComment",
}

func (k NodeKind) String() string {
	if s, ok := nodeKindNames[k]; ok {
		return s
	}
	return "Unknown"
}

// ParseNodeKind resolves a NodeKind from its spec display name, for CLI
// --kind filters and JSON round-tripping.
func ParseNodeKind(s string) (NodeKind, bool) {
	for k, name := range nodeKindNames {
		if name == s {
			return k, true
		}
	}
	return 0, false
}

// IsTypeKind reports whether k is a node kind that can carry an architecture annotation
// (spec.md §4.1 "Annotation extraction").
func (k NodeKind) IsTypeKind() bool {
	switch k {
	case KindClass, KindInterface, KindStruct, KindRecord, KindEnum:
		return true
	default:
		return false
	}
}

// IsLocalKind reports whether a kind is gated behind the visitLocals flag.
func (k NodeKind) IsLocalKind() bool {
	switch k {
	case KindParameter, KindTypeParameter, KindLocalVariable, KindLocalFunction:
		return true
	default:
		return false
	}
}

// ArchLevel classifies a node's position in a C4-style architecture model.
// Populated only for types bearing a recognised component annotation.
type ArchLevel int

const (
	ArchLevelNone ArchLevel = iota
	ArchLevelSystem
	ArchLevelContainer
	ArchLevelComponent
	ArchLevelCode
)

func (a ArchLevel) String() string {
	switch a {
	case ArchLevelSystem:
		return "System"
	case ArchLevelContainer:
		return "Container"
	case ArchLevelComponent:
		return "Component"
	case ArchLevelCode:
		return "Code"
	default:
		return "None"
	}
}

// DeclarationNode is a single declared entity in the source tree (spec.md §3.1).
type DeclarationNode struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Kind            NodeKind  `db:"kind" json:"kind"`
	FilePath        string    `db:"file_path" json:"filePath"`
	StartLine       int       `db:"start_line" json:"startLine"`
	StartColumn     int       `db:"start_column" json:"startColumn"`
	EndLine         int       `db:"end_line" json:"endLine"`
	EndColumn       int       `db:"end_column" json:"endColumn"`
	ArchLevel       ArchLevel `db:"arch_level" json:"archLevel"`
	ArchDescription *string   `db:"arch_description" json:"archDescription,omitempty"`
	Metadata        *string   `db:"metadata" json:"metadata,omitempty"`
}

// Validate checks the node invariants from spec.md §3.1.
func (n *DeclarationNode) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node has empty id")
	}
	if n.StartLine > n.EndLine {
		return fmt.Errorf("node %s: start line %d > end line %d", n.ID, n.StartLine, n.EndLine)
	}
	if n.StartLine == n.EndLine && n.StartColumn > n.EndColumn {
		return fmt.Errorf("node %s: start column %d > end column %d on same line", n.ID, n.StartColumn, n.EndColumn)
	}
	if n.StartLine <= 0 || n.StartColumn <= 0 || n.EndLine <= 0 || n.EndColumn <= 0 {
		return fmt.Errorf("node %s: line/column must be positive", n.ID)
	}
	return nil
}

// SolutionNodeID and ProjectNodeID follow the synthetic id patterns from
// spec.md §3.1 for the Solution Analyser's own nodes.
func SolutionNodeID(solutionName string) string { return solutionName }
func ProjectNodeID(projectName string) string   { return projectName }

// TodoNodeID follows `{enclosingId}$TODO#{line}` or `{relativePath}$TODO#{line}`.
func TodoNodeID(enclosingOrPath string, line int) string {
	return fmt.Sprintf("%s$TODO#%d", enclosingOrPath, line)
}
