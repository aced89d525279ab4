package walker

import (
	"strings"

	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/model"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ReferenceResult is the Reference Walker's output (spec.md §4.2 "Output":
// edges only, no nodes).
type ReferenceResult struct {
	Edges []model.RelationshipEdge
}

// WalkReferences runs the second pass over doc, emitting
// Inherits/Implements/Overrides/References/Calls/Constructs/Uses edges
// using idx to resolve syntactic candidate names against the workspace's
// declared symbols (spec.md §4.2).
func WalkReferences(doc *frontend.Document, idx *ResolutionIndex) *ReferenceResult {
	r := &ReferenceResult{}
	if doc.Tree == nil {
		return r
	}
	w := &refWalker{doc: doc, source: doc.Source, idx: idx, result: r}
	w.visit(doc.Tree.RootNode(), nil, "")
	return r
}

// refWalker holds the Reference Walker's per-document state; visit carries
// the enclosing-declaration frame stack (for Calls/Constructs/Uses sources)
// alongside the enclosing type id (for member-name preference).
type refWalker struct {
	doc    *frontend.Document
	source []byte
	idx    *ResolutionIndex
	result *ReferenceResult
}

func (w *refWalker) emit(source, target string, kind model.EdgeKind, line int) {
	w.result.Edges = append(w.result.Edges, *model.NewEdge(source, target, kind).WithSite(w.doc.RelPath, line))
}

// visit walks the tree tracking enclosingID (innermost declared container:
// namespace, type, or member) and enclosingTypeID (innermost type, for
// member-preference resolution).
func (w *refWalker) visit(n *sitter.Node, stack []frame, enclosingTypeID string) {
	if n == nil {
		return
	}
	switch n.Kind() {
	case "namespace_declaration", "file_scoped_namespace_declaration":
		id := w.joinID(stack, frontend.DeclarationName(n, w.source))
		w.descendInto(n, append(stack, frame{id: id, kind: model.KindNamespace}), enclosingTypeID)
		return
	case "class_declaration", "struct_declaration", "record_declaration", "record_struct_declaration", "interface_declaration":
		w.visitTypeDecl(n, stack, enclosingTypeID)
		return
	case "method_declaration", "constructor_declaration", "property_declaration", "indexer_declaration", "local_function_statement":
		w.visitMember(n, stack, enclosingTypeID)
		return
	case "field_declaration", "event_field_declaration":
		w.visitFieldOrEventField(n, stack)
	case "invocation_expression":
		w.visitInvocation(n, stack, enclosingTypeID)
	case "object_creation_expression":
		w.visitObjectCreation(n, stack, enclosingTypeID)
	case "member_access_expression", "identifier_name", "identifier":
		w.visitUsage(n, stack, enclosingTypeID)
	}
	for _, c := range frontend.Children(n) {
		w.visit(c, stack, enclosingTypeID)
	}
}

func (w *refWalker) joinID(stack []frame, name string) string {
	if len(stack) == 0 {
		return name
	}
	return stack[len(stack)-1].id + "." + name
}

func (w *refWalker) descendInto(n *sitter.Node, stack []frame, enclosingTypeID string) {
	body := n.ChildByFieldName("body")
	if body != nil {
		for _, c := range frontend.Children(body) {
			w.visit(c, stack, enclosingTypeID)
		}
		return
	}
	for _, c := range frontend.Children(n) {
		w.visit(c, stack, enclosingTypeID)
	}
}

func (w *refWalker) visitTypeDecl(n *sitter.Node, stack []frame, _ string) {
	name := frontend.DeclarationName(n, w.source)
	typeID := w.joinID(stack, name)
	startLine, _, _, _ := frontend.SourceRange(n)

	for _, baseName := range frontend.BaseListTypeNames(n, w.source) {
		targetID, ok := w.idx.ResolveType(baseName)
		if !ok {
			continue
		}
		if targetID == typeID {
			continue // malformed self-reference, never emit a self-loop
		}
		kind, _ := w.idx.Kind(targetID)
		if kind == model.KindInterface {
			w.emit(typeID, targetID, model.EdgeImplements, startLine)
		} else if targetID != "Object" && baseName != "Object" {
			w.emit(typeID, targetID, model.EdgeInherits, startLine)
		}
	}

	newStack := append(append([]frame{}, stack...), frame{id: typeID, kind: model.KindClass})
	body := n.ChildByFieldName("body")
	for _, c := range frontend.Children(body) {
		w.visit(c, newStack, typeID)
	}
}

func (w *refWalker) visitMember(n *sitter.Node, stack []frame, enclosingTypeID string) {
	name := frontend.DeclarationName(n, w.source)
	if n.Kind() == "constructor_declaration" {
		name = ".ctor"
	}
	if n.Kind() == "indexer_declaration" {
		name = "this[]"
	}
	paramList := n.ChildByFieldName("parameters")
	memberID := w.joinID(stack, name)
	if paramList != nil {
		memberID += "(" + strings.Join(frontend.ParameterTypeNames(paramList, w.source), ", ") + ")"
	}
	startLine, _, _, _ := frontend.SourceRange(n)

	// References edge from the member's return/element type.
	if typeNode := n.ChildByFieldName("type"); typeNode != nil {
		for _, typeName := range referencedTypeNames(typeNode, w.source) {
			if targetID, ok := w.idx.ResolveType(typeName); ok && targetID != memberID {
				w.emit(memberID, targetID, model.EdgeReferences, startLine)
			}
		}
	}

	// Overrides edge: resolve the overridden method on the nearest base type.
	if n.Kind() == "method_declaration" && frontend.HasModifier(n, w.source, "override") {
		if baseTypeID, ok := w.baseTypeOf(enclosingTypeID); ok {
			if overriddenID, ok := w.idx.ResolveMember(name, baseTypeID); ok {
				w.emit(memberID, overriddenID, model.EdgeOverrides, startLine)
			}
		}
	}

	memberStack := append(append([]frame{}, stack...), frame{id: memberID, kind: model.KindMethod})
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	for _, c := range frontend.Children(body) {
		w.visit(c, memberStack, enclosingTypeID)
	}
}

// visitFieldOrEventField emits a References edge from each declared field or
// event to its declared type, mirroring visitMember's type-decomposition but
// over the declarator list a field_declaration/event_field_declaration can
// carry (`private int a, b;` declares two fields off one type node).
func (w *refWalker) visitFieldOrEventField(n *sitter.Node, stack []frame) {
	decl := n.ChildByFieldName("declaration")
	if decl == nil {
		return
	}
	typeNode := decl.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	startLine, _, _, _ := frontend.SourceRange(n)
	typeNames := referencedTypeNames(typeNode, w.source)
	for _, declarator := range frontend.ChildrenOfKind(decl, "variable_declarator") {
		name := frontend.DeclarationName(declarator, w.source)
		if name == "" {
			continue
		}
		fieldID := w.joinID(stack, name)
		for _, typeName := range typeNames {
			if targetID, ok := w.idx.ResolveType(typeName); ok && targetID != fieldID {
				w.emit(fieldID, targetID, model.EdgeReferences, startLine)
			}
		}
	}
}

// baseTypeOf returns the single base type a type inherits from: the target
// of the first Inherits edge already emitted in this document with typeID
// as its source (single inheritance, so at most one Inherits target).
func (w *refWalker) baseTypeOf(typeID string) (string, bool) {
	// The base-list pass already ran for this type during visitTypeDecl;
	// since we do not retain per-type base edges separately, approximate by
	// checking whether any already-emitted Inherits edge has typeID as
	// source (cheap linear scan; project-scale trees are small).
	for _, e := range w.result.Edges {
		if e.Kind == model.EdgeInherits && e.SourceID == typeID {
			return e.TargetID, true
		}
	}
	return "", false
}

func (w *refWalker) visitInvocation(n *sitter.Node, stack []frame, enclosingTypeID string) {
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return
	}
	startLine, _, _, _ := frontend.SourceRange(n)
	callerID, ok := w.currentMember(stack)
	if !ok {
		return
	}
	simple := simpleCallName(fn, w.source)
	if simple == "" {
		return
	}
	preferType := enclosingTypeID
	if fn.Kind() == "member_access_expression" {
		if recv := fn.ChildByFieldName("expression"); recv != nil {
			if t, ok := w.receiverType(recv, enclosingTypeID); ok {
				preferType = t
			}
		}
	}
	if targetID, ok := w.idx.ResolveMember(simple, preferType); ok {
		if kind, ok := w.idx.Kind(targetID); ok && kind == model.KindMethod {
			w.emit(callerID, targetID, model.EdgeCalls, startLine)
		}
	}
}

func (w *refWalker) visitObjectCreation(n *sitter.Node, stack []frame, _ string) {
	typeNode := n.ChildByFieldName("type")
	if typeNode == nil {
		return
	}
	callerID, ok := w.currentMember(stack)
	if !ok {
		return
	}
	startLine, _, _, _ := frontend.SourceRange(n)
	typeName := frontend.NodeText(typeNode, w.source)
	if frontend.IsPrimitiveTypeName(typeName) {
		return
	}
	typeID, ok := w.idx.ResolveType(typeName)
	if !ok {
		return
	}
	if ctorID, ok := w.idx.ResolveMember(".ctor", typeID); ok {
		w.emit(callerID, ctorID, model.EdgeConstructs, startLine)
	}
}

func (w *refWalker) visitUsage(n *sitter.Node, stack []frame, enclosingTypeID string) {
	// Skip identifiers that are themselves the callee of an invocation or
	// the type of an object-creation; those are handled by their own
	// visitors, and member-access-level Uses are preferred over the bare
	// identifier (spec.md §4.2: "bare-identifier case skipped when
	// identical edge already emitted via member-access").
	parent := n.Parent()
	if parent != nil {
		var skip *sitter.Node
		switch parent.Kind() {
		case "invocation_expression":
			skip = parent.ChildByFieldName("function")
		case "object_creation_expression":
			skip = parent.ChildByFieldName("type")
		case "member_access_expression":
			skip = parent.ChildByFieldName("name")
		}
		if skip != nil && skip.StartByte() == n.StartByte() && skip.EndByte() == n.EndByte() {
			return
		}
	}
	callerID, ok := w.currentMember(stack)
	if !ok {
		return
	}
	startLine, _, _, _ := frontend.SourceRange(n)
	name := simpleCallName(n, w.source)
	if name == "" {
		return
	}
	preferType := enclosingTypeID
	if n.Kind() == "member_access_expression" {
		if recv := n.ChildByFieldName("expression"); recv != nil {
			if t, ok := w.receiverType(recv, enclosingTypeID); ok {
				preferType = t
			}
		}
	}
	if targetID, ok := w.idx.ResolveMember(name, preferType); ok {
		if kind, ok := w.idx.Kind(targetID); ok && (kind == model.KindField || kind == model.KindProperty) {
			w.emit(callerID, targetID, model.EdgeUses, startLine)
		}
	}
}

// receiverType makes a best-effort guess at the declared type id of a
// member-access receiver expression: an identifier is checked against the
// resolution index as a type name first (static member access), else
// left unresolved (true instance-type inference needs a real type
// checker, which is out of reach of a syntax-only frontend).
func (w *refWalker) receiverType(recv *sitter.Node, enclosingTypeID string) (string, bool) {
	switch recv.Kind() {
	case "identifier_name", "identifier":
		if id, ok := w.idx.ResolveType(frontend.NodeText(recv, w.source)); ok {
			return id, true
		}
	case "object_creation_expression":
		if t := recv.ChildByFieldName("type"); t != nil {
			if id, ok := w.idx.ResolveType(frontend.NodeText(t, w.source)); ok {
				return id, true
			}
		}
	case "this_expression":
		return enclosingTypeID, true
	}
	return "", false
}

func (w *refWalker) currentMember(stack []frame) (string, bool) {
	if len(stack) == 0 {
		return "", false
	}
	return stack[len(stack)-1].id, true
}

// simpleCallName extracts the invoked/accessed member's bare name from a
// call target or member-access expression.
func simpleCallName(n *sitter.Node, source []byte) string {
	switch n.Kind() {
	case "member_access_expression":
		if name := n.ChildByFieldName("name"); name != nil {
			return frontend.NodeText(name, source)
		}
	case "identifier_name", "identifier":
		return frontend.NodeText(n, source)
	case "generic_name":
		if name := n.ChildByFieldName("name"); name != nil {
			return frontend.NodeText(name, source)
		}
	}
	return ""
}

// referencedTypeNames decomposes a type reference syntax node into the
// simple named types it mentions, unwrapping nullable wrappers, array
// elements, and generic type arguments and skipping primitives (spec.md
// §4.2 "Type decomposition").
func referencedTypeNames(typeNode *sitter.Node, source []byte) []string {
	if typeNode == nil {
		return nil
	}
	switch typeNode.Kind() {
	case "nullable_type":
		if inner := typeNode.ChildByFieldName("type"); inner != nil {
			return referencedTypeNames(inner, source)
		}
	case "array_type":
		if inner := typeNode.ChildByFieldName("type"); inner != nil {
			return referencedTypeNames(inner, source)
		}
	case "generic_name":
		var names []string
		if nameNode := typeNode.ChildByFieldName("name"); nameNode != nil {
			names = append(names, frontend.NodeText(nameNode, source))
		}
		if argList := typeNode.ChildByFieldName("type_arguments"); argList != nil {
			for _, arg := range frontend.Children(argList) {
				if arg.IsNamed() {
					names = append(names, referencedTypeNames(arg, source)...)
				}
			}
		}
		return names
	case "predefined_type":
		return nil // always primitive
	}
	name := frontend.NodeText(typeNode, source)
	if name == "" || frontend.IsPrimitiveTypeName(name) {
		return nil
	}
	return []string{name}
}
