package walker

import (
	"regexp"
	"strings"

	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

var (
	singleLineMarker = regexp.MustCompile(`(?i)^\s*//\s*(TODO|FIXME|HACK|XXX)\s*:?\s*(.*)`)
	multiLineMarker  = regexp.MustCompile(`(?i)(TODO|FIXME|HACK|XXX)\s*:?\s*(.*)`)
)

const maxMarkerContentLen = 50

// CommentResult is the Comment Marker Walker's output (spec.md §4.3).
type CommentResult struct {
	Nodes            []model.DeclarationNode
	ContainmentEdges []model.RelationshipEdge
}

// WalkComments runs the third pass over doc, recognising TODO/FIXME/HACK/
// XXX trivia and linking each to its enclosing declaration.
func WalkComments(doc *frontend.Document) *CommentResult {
	r := &CommentResult{}
	if doc.Tree == nil {
		return r
	}
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Kind() == "comment" {
			handleComment(n, doc, r)
		}
		for _, c := range frontend.Children(n) {
			walk(c)
		}
	}
	walk(doc.Tree.RootNode())
	return r
}

func handleComment(n *sitter.Node, doc *frontend.Document, r *CommentResult) {
	text := frontend.NodeText(n, doc.Source)
	var commentType, content string
	if strings.HasPrefix(text, "//") {
		m := singleLineMarker.FindStringSubmatch(text)
		if m == nil {
			return
		}
		commentType, content = strings.ToUpper(m[1]), m[2]
	} else {
		body := strings.TrimSuffix(strings.TrimSuffix(text, "*/"), "\n")
		m := multiLineMarker.FindStringSubmatch(body)
		if m == nil {
			return
		}
		commentType, content = strings.ToUpper(m[1]), strings.TrimSpace(m[2])
	}
	content = strings.TrimSpace(content)

	startLine, startCol, endLine, endCol := frontend.SourceRange(n)
	enclosingID, hasEnclosing := enclosingDeclarationID(n, doc.Source)

	var id string
	if hasEnclosing {
		id = model.TodoNodeID(enclosingID, startLine)
	} else {
		id = model.TodoNodeID(doc.RelPath, startLine)
	}

	meta := model.CommentMetadata{CommentType: commentType, Text: content}
	metaJSON := meta.Encode()

	node := model.DeclarationNode{
		ID:          id,
		Name:        truncateMarker(commentType, content),
		Kind:        model.KindTodoComment,
		FilePath:    doc.RelPath,
		StartLine:   startLine,
		StartColumn: startCol,
		EndLine:     endLine,
		EndColumn:   endCol,
		Metadata:    &metaJSON,
	}
	r.Nodes = append(r.Nodes, node)
	if hasEnclosing {
		r.ContainmentEdges = append(r.ContainmentEdges,
			*model.NewEdge(enclosingID, id, model.EdgeContains).WithSite(doc.RelPath, startLine))
	}
}

func truncateMarker(commentType, content string) string {
	if len(content) > maxMarkerContentLen {
		content = content[:maxMarkerContentLen] + "..."
	}
	return commentType + ": " + content
}

// containerKinds mirrors the Declaration Walker's container-forming node
// kinds, used to rebuild an ancestor chain's declaration id without a
// separate node->id index.
var containerKinds = map[string]bool{
	"namespace_declaration": true, "file_scoped_namespace_declaration": true,
	"class_declaration": true, "struct_declaration": true, "interface_declaration": true,
	"record_declaration": true, "record_struct_declaration": true, "enum_declaration": true,
	"method_declaration": true, "constructor_declaration": true, "property_declaration": true,
	"indexer_declaration": true, "local_function_statement": true,
}

// enclosingDeclarationID walks up from n's parent chain, collecting every
// container-forming ancestor, then rebuilds the nested id from the
// outermost ancestor inward — the same join rule the Declaration Walker
// uses, so the two passes agree on ids (spec.md §4.3: "by walking up the
// trivia's parent chain and querying the symbol map").
func enclosingDeclarationID(n *sitter.Node, source []byte) (string, bool) {
	var chain []*sitter.Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		if containerKinds[p.Kind()] {
			chain = append(chain, p)
		}
	}
	if len(chain) == 0 {
		return "", false
	}
	// chain is innermost-first; reverse to outermost-first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	id := ""
	for _, c := range chain {
		name := frontend.DeclarationName(c, source)
		if c.Kind() == "constructor_declaration" {
			name = ".ctor"
		}
		if c.Kind() == "indexer_declaration" {
			name = "this[]"
		}
		if id == "" {
			id = name
		} else {
			id = id + "." + name
		}
		switch c.Kind() {
		case "method_declaration", "constructor_declaration", "local_function_statement":
			if paramList := c.ChildByFieldName("parameters"); paramList != nil {
				id += "(" + strings.Join(frontend.ParameterTypeNames(paramList, source), ", ") + ")"
			}
		}
	}
	return id, true
}
