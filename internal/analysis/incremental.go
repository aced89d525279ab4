package analysis

import (
	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/logging"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/walker"
)

// FileAnalysisResult is the Incremental File Analyser's output (spec.md §4.7).
type FileAnalysisResult struct {
	Nodes          []model.DeclarationNode
	Edges          []model.RelationshipEdge
	SymbolMappings *model.SymbolMap
}

// AnalyzeFile re-parses doc and runs Declaration -> Reference -> Comment
// walks on it alone, reusing the solution-wide resolution index and symbol
// map so references into other files still resolve. A parse failure yields
// an empty result rather than an error — "compilation errors elsewhere must
// not prevent extraction of valid declarations from the target document"
// (spec.md §4.7); the same best-effort rule applies to the target document
// itself, since the watcher may fire mid-edit against invalid syntax.
func AnalyzeFile(doc *frontend.Document, symbols *model.SymbolMap, knownIDs *model.NodeIDSet, resIdx *walker.ResolutionIndex, visitLocals bool) *FileAnalysisResult {
	result := &FileAnalysisResult{SymbolMappings: model.NewSymbolMap()}

	if err := frontend.CompileDocument(doc); err != nil {
		logging.LogError("incremental analysis: document did not compile", err, "file", doc.RelPath)
		return result
	}
	if doc.ParseErr != nil {
		logging.LogError("incremental analysis: document parsed with errors", doc.ParseErr, "file", doc.RelPath)
	}
	if doc.Tree == nil {
		return result
	}

	decl := walker.WalkDeclarations(doc, visitLocals)
	result.Nodes = append(result.Nodes, decl.Nodes...)
	result.Edges = append(result.Edges, decl.ContainmentEdges...)
	result.SymbolMappings.Merge(decl.SymbolToNodeID)
	symbols.Merge(decl.SymbolToNodeID)
	for _, n := range decl.Nodes {
		knownIDs.Add(n.ID)
		resIdx.Add(n)
	}

	ref := walker.WalkReferences(doc, resIdx)
	result.Edges = append(result.Edges, ref.Edges...)

	cmt := walker.WalkComments(doc)
	result.Nodes = append(result.Nodes, cmt.Nodes...)
	result.Edges = append(result.Edges, cmt.ContainmentEdges...)

	return result
}
