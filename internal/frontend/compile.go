package frontend

import (
	"context"
	"fmt"
)

// Compile obtains a compilation for proj: parses every document that has
// not yet been parsed. Per spec.md §4.4, "if the frontend cannot produce a
// compilation, return empty results" — a project whose parser cannot even
// be constructed yields a nil Compilation and a non-fatal error for the
// caller (Project Analyser) to treat as CompilationUnavailable.
func Compile(ctx context.Context, proj *Project) (*Compilation, error) {
	parser, err := newSourceParser()
	if err != nil {
		return nil, fmt.Errorf("frontend: compile %s: %w", proj.Name, err)
	}
	defer parser.Close()

	for _, doc := range proj.Documents {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if doc.Tree != nil || doc.ParseErr != nil {
			continue
		}
		if err := parseDocument(parser, doc); err != nil {
			doc.ParseErr = err
		}
	}
	return &Compilation{Project: proj}, nil
}

// CompileDocument (re)parses a single document, releasing any previous
// parse tree first. Used by the Incremental File Analyser (spec.md §4.7),
// which operates on "a single live document" rather than a whole project.
func CompileDocument(doc *Document) error {
	parser, err := newSourceParser()
	if err != nil {
		return fmt.Errorf("frontend: compile document %s: %w", doc.RelPath, err)
	}
	defer parser.Close()
	doc.Close()
	doc.ParseErr = nil
	return parseDocument(parser, doc)
}

func parseDocument(parser *sourceParser, doc *Document) error {
	source, tree, err := parser.ParseFile(doc.AbsPath)
	doc.Source = source
	if err != nil {
		return err
	}
	doc.Tree = tree
	return nil
}
