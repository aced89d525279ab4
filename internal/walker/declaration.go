// Package walker implements the three syntax-tree passes of spec.md §4.1-
// §4.3: the Declaration Walker, the Reference Walker, and the Comment
// Marker Walker. Each pass switches on a tree-sitter node's Kind() the way
// a generated Roslyn CSharpSyntaxWalker would switch on SyntaxKind; the
// Compiler Frontend Adapter (internal/frontend) hides everything else about
// the grammar behind plain syntax helpers.
package walker

import (
	"strings"

	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// DeclarationResult is the Declaration Walker's output (spec.md §4.1
// "Output").
type DeclarationResult struct {
	Nodes            []model.DeclarationNode
	ContainmentEdges []model.RelationshipEdge
	SymbolToNodeID   *model.SymbolMap
}

// frame is one entry of the Declaration Walker's container stack.
type frame struct {
	id   string
	kind model.NodeKind
}

// WalkDeclarations runs the first pass over doc, emitting one
// DeclarationNode per named declaration and one Contains edge per
// non-top-level declaration (spec.md §4.1).
func WalkDeclarations(doc *frontend.Document, visitLocals bool) *DeclarationResult {
	r := &DeclarationResult{SymbolToNodeID: model.NewSymbolMap()}
	if doc.Tree == nil {
		return r
	}
	d := &declWalker{doc: doc, source: doc.Source, visitLocals: visitLocals, result: r}
	d.visit(doc.Tree.RootNode(), nil)
	return r
}

type declWalker struct {
	doc         *frontend.Document
	source      []byte
	visitLocals bool
	result      *DeclarationResult
}

func (w *declWalker) top(stack []frame) (string, bool) {
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1].id, true
}

func (w *declWalker) joinID(stack []frame, name string) string {
	if parent, ok := w.top(stack); ok {
		return parent + "." + name
	}
	return name
}

// emit records a declaration node, its Contains edge from the current
// container (if any), and its symbol mapping.
func (w *declWalker) emit(n *sitter.Node, id, name string, kind model.NodeKind, stack []frame) {
	startLine, startCol, endLine, endCol := frontend.SourceRange(n)
	node := model.DeclarationNode{
		ID: id, Name: name, Kind: kind,
		FilePath:    w.doc.RelPath,
		StartLine:   startLine, StartColumn: startCol,
		EndLine: endLine, EndColumn: endCol,
	}
	if kind.IsTypeKind() {
		applyComponentAnnotation(&node, frontend.ParseAttributes(n, w.source))
	}
	w.result.Nodes = append(w.result.Nodes, node)
	w.result.SymbolToNodeID.Set(model.SymbolHandle(id), id)
	if parent, ok := w.top(stack); ok {
		w.result.ContainmentEdges = append(w.result.ContainmentEdges,
			*model.NewEdge(parent, id, model.EdgeContains).WithSite(w.doc.RelPath, startLine))
	}
}

func applyComponentAnnotation(node *model.DeclarationNode, attrs []frontend.Attribute) {
	for _, a := range attrs {
		if a.Name != "Component" && a.Name != "ComponentAttribute" {
			continue
		}
		node.ArchLevel = model.ArchLevelComponent
		if desc, ok := a.NamedArg("Description"); ok {
			node.ArchDescription = &desc
		}
		return
	}
}

func (w *declWalker) visit(n *sitter.Node, stack []frame) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "namespace_declaration", "file_scoped_namespace_declaration":
		w.visitNamespace(n, stack)
		return
	case "class_declaration":
		w.visitType(n, model.KindClass, stack)
		return
	case "struct_declaration":
		w.visitType(n, model.KindStruct, stack)
		return
	case "record_declaration", "record_struct_declaration":
		w.visitType(n, model.KindRecord, stack)
		return
	case "interface_declaration":
		w.visitType(n, model.KindInterface, stack)
		return
	case "enum_declaration":
		w.visitEnum(n, stack)
		return
	case "delegate_declaration":
		w.visitDelegate(n, stack)
		return
	case "method_declaration":
		w.visitMethod(n, stack)
		return
	case "constructor_declaration":
		w.visitConstructor(n, stack)
		return
	case "property_declaration":
		w.visitProperty(n, stack)
		return
	case "indexer_declaration":
		w.visitIndexer(n, stack)
		return
	case "field_declaration":
		w.visitFieldDeclaration(n, stack)
		return
	case "event_field_declaration":
		w.visitEventField(n, stack)
		return
	case "event_declaration":
		w.visitEvent(n, stack)
		return
	case "local_function_statement":
		if w.visitLocals {
			w.visitLocalFunction(n, stack)
		}
		return
	case "local_declaration_statement":
		if w.visitLocals {
			w.visitLocalDeclaration(n, stack)
		}
		return
	}
	for _, c := range frontend.Children(n) {
		w.visit(c, stack)
	}
}

func (w *declWalker) visitNamespace(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	id := w.joinID(stack, name)
	w.emit(n, id, name, model.KindNamespace, stack)
	newStack := append(append([]frame{}, stack...), frame{id: id, kind: model.KindNamespace})
	body := n.ChildByFieldName("body")
	if body != nil {
		for _, c := range frontend.Children(body) {
			w.visit(c, newStack)
		}
		return
	}
	// File-scoped namespace: remaining siblings at this level belong to it.
	for _, c := range frontend.Children(n) {
		if c.Kind() == "name" || c.Kind() == "identifier" || c.Kind() == "qualified_name" {
			continue
		}
		w.visit(c, newStack)
	}
}

func (w *declWalker) visitType(n *sitter.Node, kind model.NodeKind, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	id := w.joinID(stack, name)
	w.emit(n, id, name, kind, stack)
	newStack := append(append([]frame{}, stack...), frame{id: id, kind: kind})
	body := n.ChildByFieldName("body")
	for _, c := range frontend.Children(body) {
		w.visit(c, newStack)
	}
}

func (w *declWalker) visitEnum(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	id := w.joinID(stack, name)
	w.emit(n, id, name, model.KindEnum, stack)
	newStack := append(append([]frame{}, stack...), frame{id: id, kind: model.KindEnum})
	body := n.ChildByFieldName("body")
	for _, member := range frontend.ChildrenOfKind(body, "enum_member_declaration") {
		memberName := frontend.DeclarationName(member, w.source)
		memberID := w.joinID(newStack, memberName)
		w.emit(member, memberID, memberName, model.KindEnumMember, newStack)
	}
}

func (w *declWalker) visitDelegate(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	paramList := n.ChildByFieldName("parameters")
	id := w.joinID(stack, name) + "(" + strings.Join(frontend.ParameterTypeNames(paramList, w.source), ", ") + ")"
	w.emit(n, id, name, model.KindDelegate, stack)
}

func (w *declWalker) visitMethod(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	paramList := n.ChildByFieldName("parameters")
	id := w.joinID(stack, name) + "(" + strings.Join(frontend.ParameterTypeNames(paramList, w.source), ", ") + ")"
	w.emit(n, id, name, model.KindMethod, stack)
	w.visitLocalsIn(n, paramList, stack, id)
}

func (w *declWalker) visitConstructor(n *sitter.Node, stack []frame) {
	paramList := n.ChildByFieldName("parameters")
	id := w.joinID(stack, ".ctor") + "(" + strings.Join(frontend.ParameterTypeNames(paramList, w.source), ", ") + ")"
	w.emit(n, id, ".ctor", model.KindConstructor, stack)
	w.visitLocalsIn(n, paramList, stack, id)
}

func (w *declWalker) visitProperty(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	id := w.joinID(stack, name)
	w.emit(n, id, name, model.KindProperty, stack)
}

func (w *declWalker) visitIndexer(n *sitter.Node, stack []frame) {
	id := w.joinID(stack, "this[]")
	w.emit(n, id, "this[]", model.KindIndexer, stack)
}

func (w *declWalker) visitFieldDeclaration(n *sitter.Node, stack []frame) {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return
	}
	for _, declarator := range frontend.ChildrenOfKind(decl, "variable_declarator") {
		name := frontend.DeclarationName(declarator, w.source)
		if name == "" {
			continue
		}
		id := w.joinID(stack, name)
		w.emit(declarator, id, name, model.KindField, stack)
	}
}

func (w *declWalker) visitEventField(n *sitter.Node, stack []frame) {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return
	}
	for _, declarator := range frontend.ChildrenOfKind(decl, "variable_declarator") {
		name := frontend.DeclarationName(declarator, w.source)
		if name == "" {
			continue
		}
		id := w.joinID(stack, name)
		w.emit(declarator, id, name, model.KindEvent, stack)
	}
}

func (w *declWalker) visitEvent(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	id := w.joinID(stack, name)
	w.emit(n, id, name, model.KindEvent, stack)
}

func (w *declWalker) visitLocalFunction(n *sitter.Node, stack []frame) {
	name := frontend.DeclarationName(n, w.source)
	paramList := n.ChildByFieldName("parameters")
	id := w.joinID(stack, name) + "(" + strings.Join(frontend.ParameterTypeNames(paramList, w.source), ", ") + ")"
	w.emit(n, id, name, model.KindLocalFunction, stack)
}

func (w *declWalker) visitLocalDeclaration(n *sitter.Node, stack []frame) {
	decl := n.ChildByFieldName("declaration")
	for _, declarator := range frontend.ChildrenOfKind(decl, "variable_declarator") {
		name := frontend.DeclarationName(declarator, w.source)
		if name == "" {
			continue
		}
		id := w.joinID(stack, name)
		w.emit(declarator, id, name, model.KindLocalVariable, stack)
	}
}

// visitLocalsIn emits Parameter/TypeParameter nodes and recurses into the
// body for nested local declarations/functions, only under visitLocals.
func (w *declWalker) visitLocalsIn(n, paramList *sitter.Node, stack []frame, memberID string) {
	memberStack := append(append([]frame{}, stack...), frame{id: memberID, kind: model.KindMethod})
	if w.visitLocals {
		for _, p := range frontend.ChildrenOfKind(paramList, "parameter") {
			name := frontend.DeclarationName(p, w.source)
			if name == "" {
				continue
			}
			w.emit(p, w.joinID(memberStack, name), name, model.KindParameter, memberStack)
		}
		if typeParams := n.ChildByFieldName("type_parameters"); typeParams != nil {
			for _, tp := range frontend.ChildrenOfKind(typeParams, "type_parameter") {
				name := frontend.DeclarationName(tp, w.source)
				if name == "" {
					continue
				}
				w.emit(tp, w.joinID(memberStack, name), name, model.KindTypeParameter, memberStack)
			}
		}
	}
	if body := n.ChildByFieldName("body"); body != nil && w.visitLocals {
		for _, c := range frontend.Children(body) {
			w.visit(c, memberStack)
		}
	}
}
