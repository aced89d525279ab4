package frontend

import (
	"fmt"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_c_sharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
)

// sourceParser wraps a tree-sitter parser bound to the C# grammar, grounded
// on the teacher's LanguageParser (internal/treesitter/parser.go), narrowed
// from a multi-language switch to the single target language this adapter
// supports.
//
// Callers must call Close to release the CGO-backed parser.
type sourceParser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

func newSourceParser() (*sourceParser, error) {
	parser := sitter.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("frontend: failed to create tree-sitter parser")
	}
	language := sitter.NewLanguage(tree_sitter_c_sharp.Language())
	if err := parser.SetLanguage(language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("frontend: set language: %w", err)
	}
	return &sourceParser{parser: parser, language: language}, nil
}

func (p *sourceParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

func (p *sourceParser) Parse(source []byte) (*sitter.Tree, error) {
	tree := p.parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("frontend: parse failed")
	}
	return tree, nil
}

func (p *sourceParser) ParseFile(path string) ([]byte, *sitter.Tree, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("frontend: read %s: %w", path, err)
	}
	tree, err := p.Parse(source)
	if err != nil {
		return source, nil, fmt.Errorf("frontend: parse %s: %w", path, err)
	}
	return source, tree, nil
}
