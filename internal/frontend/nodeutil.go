package frontend

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeText extracts a node's literal source text by byte offset, grounded
// on the teacher's getNodeText (internal/treesitter/helpers.go).
func NodeText(n *sitter.Node, source []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(source) {
		end = uint(len(source))
	}
	if start > end {
		return ""
	}
	return string(source[start:end])
}

// SourceRange returns the 1-based inclusive line/column range of n, per the
// DeclarationNode contract (spec.md §3.1).
func SourceRange(n *sitter.Node) (startLine, startCol, endLine, endCol int) {
	sp, ep := n.StartPosition(), n.EndPosition()
	return int(sp.Row) + 1, int(sp.Column) + 1, int(ep.Row) + 1, int(ep.Column) + 1
}

// Children returns every direct child of n (named and anonymous), matching
// the teacher's ChildCount/Child iteration style.
func Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	count := n.ChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenOfKind returns n's direct children whose Kind() matches kind.
func ChildrenOfKind(n *sitter.Node, kind string) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range Children(n) {
		if c.Kind() == kind {
			out = append(out, c)
		}
	}
	return out
}

// HasModifier reports whether a declaration carries a modifier keyword
// (e.g. "override", "static", "abstract") among its "modifier" children.
func HasModifier(n *sitter.Node, source []byte, keyword string) bool {
	for _, m := range ChildrenOfKind(n, "modifier") {
		if strings.TrimSpace(NodeText(m, source)) == keyword {
			return true
		}
	}
	return false
}

// ParseAttributes collects every `[Name(args)]` attribute list directly
// attached to a declaration node (C# attributes are sibling
// "attribute_list" children of the declaration in the grammar), satisfying
// adapter contract (d).
func ParseAttributes(n *sitter.Node, source []byte) []Attribute {
	var attrs []Attribute
	for _, list := range ChildrenOfKind(n, "attribute_list") {
		for _, attr := range ChildrenOfKind(list, "attribute") {
			attrs = append(attrs, parseAttribute(attr, source))
		}
	}
	return attrs
}

func parseAttribute(attr *sitter.Node, source []byte) Attribute {
	a := Attribute{NamedArgs: map[string]string{}}
	if nameNode := attr.ChildByFieldName("name"); nameNode != nil {
		a.Name = NodeText(nameNode, source)
	}
	argList := attr.ChildByFieldName("arguments")
	if argList == nil {
		return a
	}
	for _, arg := range ChildrenOfKind(argList, "attribute_argument") {
		nameEquals := arg.ChildByFieldName("name")
		valueNode := arg.ChildByFieldName("value")
		value := strings.Trim(NodeText(valueNode, source), "\"")
		if nameEquals != nil {
			a.NamedArgs[NodeText(nameEquals, source)] = value
		} else if a.PositionalArg == "" {
			a.PositionalArg = value
		}
	}
	return a
}

// DeclarationName extracts the `name` field text of a declaration node.
func DeclarationName(n *sitter.Node, source []byte) string {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return ""
	}
	return NodeText(nameNode, source)
}

// StripGenericArity removes a C# generic argument suffix from a
// syntactically-built display string (e.g. "List<Foo>" -> "List"), used by
// the Reference Walker's "original definition" resolution fallback
// (spec.md §4.2).
func StripGenericArity(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}

// ParameterTypeNames returns the declared type text of each parameter in a
// "parameter_list" node, in order, used to build a method's display
// signature (`Method(int, string)`, spec.md §3.1).
func ParameterTypeNames(paramList *sitter.Node, source []byte) []string {
	var types []string
	for _, p := range ChildrenOfKind(paramList, "parameter") {
		typeNode := p.ChildByFieldName("type")
		if typeNode == nil {
			types = append(types, "?")
			continue
		}
		types = append(types, NodeText(typeNode, source))
	}
	return types
}

// BaseListTypeNames returns the display text of each type referenced in a
// class/struct/record/interface declaration's base list (the base class, if
// any, followed by implemented interfaces — the grammar does not
// distinguish which is which; the Reference Walker tells them apart by
// looking up each name's already-declared Kind, per spec.md §4.2).
func BaseListTypeNames(declNode *sitter.Node, source []byte) []string {
	baseList := declNode.ChildByFieldName("bases")
	if baseList == nil {
		return nil
	}
	var names []string
	for _, c := range Children(baseList) {
		switch c.Kind() {
		case ",", ":", "base_list":
			continue
		}
		if c.IsNamed() {
			names = append(names, NodeText(c, source))
		}
	}
	return names
}

// CandidateNames returns ordered, best-effort name candidates for an
// expression node the Reference Walker is trying to resolve: the full
// textual form first (e.g. a member-access "Foo.Bar"), then its rightmost
// simple-name segment (e.g. "Bar"). The walker tries each against its
// symbol map per the resolution policy in spec.md §4.2; this adapter makes
// no resolution decision itself; it only turns syntax into name strings —
// a type symbol with full semantic resolution being out of reach of a
// syntax-only parser.
func CandidateNames(expr *sitter.Node, source []byte) []string {
	if expr == nil {
		return nil
	}
	full := NodeText(expr, source)
	var simple string
	switch expr.Kind() {
	case "member_access_expression":
		if nameNode := expr.ChildByFieldName("name"); nameNode != nil {
			simple = NodeText(nameNode, source)
		}
	case "generic_name":
		if nameNode := expr.ChildByFieldName("name"); nameNode != nil {
			simple = NodeText(nameNode, source)
		} else {
			simple = StripGenericArity(full)
		}
	case "qualified_name":
		if nameNode := expr.ChildByFieldName("name"); nameNode != nil {
			simple = NodeText(nameNode, source)
		}
	default:
		simple = full
	}
	if simple == "" || simple == full {
		return []string{full}
	}
	return []string{full, simple}
}
