// Package frontend implements the Compiler Frontend Adapter (spec.md §6):
// it opens a workspace manifest, enumerates projects and documents, and
// parses each into a tree-sitter syntax tree, exposing the syntax-level
// primitives (node text, source ranges, attribute metadata, primitive-type
// classification, reference-expression candidate names) that the walkers
// need to build a best-effort semantic model, generalizing the teacher's
// internal/treesitter per-language extractors into a single C# adapter.
package frontend

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Attribute is a parsed C# attribute (`[Component(Description = "...")]`)
// attached to a declaration, satisfying the adapter contract's "attribute
// metadata" requirement (spec.md §6).
type Attribute struct {
	Name          string
	NamedArgs     map[string]string
	PositionalArg string
}

// NamedArg looks up a named attribute argument by name (case-sensitive, per
// spec.md §4.1's "Component"/"ComponentAttribute" matching rule).
func (a Attribute) NamedArg(name string) (string, bool) {
	v, ok := a.NamedArgs[name]
	return v, ok
}

// Document is one parsed source file within a project.
type Document struct {
	Project  *Project
	AbsPath  string
	RelPath  string // workspace-relative, forward-slash (pathutil.ToRelative)
	Source   []byte
	Tree     *sitter.Tree
	ParseErr error
}

// Close releases the document's parse tree (CGO-backed, must be released).
func (d *Document) Close() {
	if d.Tree != nil {
		d.Tree.Close()
		d.Tree = nil
	}
}

// Project is a compilable unit: a directory of documents plus references to
// other projects by name (spec.md Glossary: "a compilable unit with its own
// references and output kind").
type Project struct {
	Name       string
	Dir        string // absolute
	References []string
	Documents  []*Document
}

// Workspace is the opened solution: a named collection of projects
// discovered from a manifest file (spec.md Glossary).
type Workspace struct {
	Name         string
	ManifestPath string // workspace-relative path of the solution manifest
	RootDir      string
	Projects     []*Project
}

// Diagnostic is a non-fatal problem surfaced while opening a workspace or
// project (spec.md §4.5 step 3: "subscribe to workspace diagnostics;
// surface as warnings, do not fail").
type Diagnostic struct {
	Project string
	Message string
}

// Close releases every document's parse tree in the workspace (spec.md §9
// "workspace ownership": a scoped resource released at end of call in
// analyse-once mode).
func (w *Workspace) Close() {
	for _, p := range w.Projects {
		for _, d := range p.Documents {
			d.Close()
		}
	}
}

// Compilation is the semantic model for one project: its parsed documents,
// ready for the Declaration/Reference/Comment walkers (spec.md Glossary:
// "the semantic model produced by the frontend for a project").
type Compilation struct {
	Project *Project
}
