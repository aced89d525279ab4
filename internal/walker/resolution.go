package walker

import (
	"strings"

	"github.com/nick-boey/sharpitect/internal/model"
)

// ResolutionIndex is grown by the Project Analyser with every node declared
// so far in the solution, projects taken in solution order (the symbol map "growing between Declaration and
// Reference passes", spec.md §4.4) and handed to the Reference Walker. It
// is the concrete shape this adapter's best-effort resolution policy takes
// (spec.md §4.2 "Resolution policy"): since the frontend has no true type
// checker, references are matched by declared name rather than by a
// compiler-verified symbol, with the enclosing container preferred on
// ambiguity and a unique-name fallback otherwise. This is the accepted
// tradeoff of a tree-sitter-only frontend, documented in DESIGN.md.
type ResolutionIndex struct {
	KindByID      map[string]model.NodeKind
	typeByName    map[string][]string // simple type name -> candidate type ids
	memberByName  map[string][]string // simple member name -> candidate member ids
}

// NewResolutionIndex creates an empty index; Add and AddAll fold declared
// nodes into it.
func NewResolutionIndex() *ResolutionIndex {
	return &ResolutionIndex{
		KindByID:     make(map[string]model.NodeKind),
		typeByName:   make(map[string][]string),
		memberByName: make(map[string][]string),
	}
}

// Add folds one declared node into the index.
func (idx *ResolutionIndex) Add(n model.DeclarationNode) {
	idx.KindByID[n.ID] = n.Kind
	switch n.Kind {
	case model.KindClass, model.KindStruct, model.KindInterface, model.KindRecord,
		model.KindEnum, model.KindDelegate:
		idx.typeByName[n.Name] = append(idx.typeByName[n.Name], n.ID)
	case model.KindMethod, model.KindConstructor, model.KindProperty, model.KindField,
		model.KindEvent, model.KindIndexer:
		idx.memberByName[n.Name] = append(idx.memberByName[n.Name], n.ID)
	}
}

// AddAll folds a batch of nodes.
func (idx *ResolutionIndex) AddAll(nodes []model.DeclarationNode) {
	for _, n := range nodes {
		idx.Add(n)
	}
}

// Remove drops nodes previously added by Add, used by the Incremental
// Update Service's delete phase so a re-declared or now-removed symbol
// cannot shadow the real current declaration (spec.md §4.8 step 2).
func (idx *ResolutionIndex) Remove(nodes []model.DeclarationNode) {
	for _, n := range nodes {
		delete(idx.KindByID, n.ID)
		idx.typeByName[n.Name] = removeID(idx.typeByName[n.Name], n.ID)
		idx.memberByName[n.Name] = removeID(idx.memberByName[n.Name], n.ID)
	}
}

func removeID(ids []string, target string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

// Kind reports a known id's kind.
func (idx *ResolutionIndex) Kind(id string) (model.NodeKind, bool) {
	k, ok := idx.KindByID[id]
	return k, ok
}

// ResolveType finds the workspace type declared under a simple name,
// returning ok=false when the name is unknown or ambiguous.
func (idx *ResolutionIndex) ResolveType(name string) (string, bool) {
	name = stripGenericArity(name)
	cands := idx.typeByName[name]
	if len(cands) == 1 {
		return cands[0], true
	}
	return "", false
}

// ResolveMember finds a member declared under a simple name, preferring one
// directly nested under preferContainer (e.g. the enclosing type, or a type
// resolved from the expression's left-hand side); falls back to a
// process-wide unique match when there is exactly one candidate overall.
func (idx *ResolutionIndex) ResolveMember(name, preferContainer string) (string, bool) {
	cands := idx.memberByName[name]
	if preferContainer != "" {
		prefix := preferContainer + "."
		for _, c := range cands {
			if strings.HasPrefix(c, prefix) && strings.Count(c[len(prefix):], ".") == 0 {
				return c, true
			}
		}
	}
	if len(cands) == 1 {
		return cands[0], true
	}
	return "", false
}

func stripGenericArity(name string) string {
	if i := strings.IndexByte(name, '<'); i >= 0 {
		return name[:i]
	}
	return name
}
