// Package analysis implements the Project and Solution Analysers (spec.md
// §4.4–§4.5): the orchestration layer that drives the Frontend Adapter and
// the three Walkers and hands their output to the Graph Repository. It is
// grounded on the teacher's internal/ingestion.Orchestrator — a phased
// pipeline reporting structured logrus fields at each stage, with
// independent per-entity stores fanned out via errgroup.
package analysis

import (
	"context"

	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/logging"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/walker"
)

// ProjectResult is the Project Analyser's consolidated output.
type ProjectResult struct {
	Nodes   []model.DeclarationNode
	Edges   []model.RelationshipEdge
	Symbols *model.SymbolMap
}

// AnalyzeProject drives the Declaration -> Reference -> Comment walks over
// every document in proj, threading a resolution index built from the
// project's own declarations between the Declaration and Reference passes
// (spec.md §4.4: "the symbol map growing between Declaration and Reference
// passes"). symbols and knownIDs are the solution-wide accumulators, grown
// in place; symbols is also returned as ProjectResult.Symbols for the
// caller's convenience.
//
// resIdx carries forward resolution state from projects already analysed
// earlier in solution order, so a later project's references into an
// earlier project's types resolve; this adapter has no true cross-project
// symbol table, so that resolution remains best-effort (see ResolutionIndex
// in internal/walker).
func AnalyzeProject(ctx context.Context, proj *frontend.Project, symbols *model.SymbolMap, knownIDs *model.NodeIDSet, resIdx *walker.ResolutionIndex, visitLocals bool) (*ProjectResult, error) {
	result := &ProjectResult{Symbols: symbols}

	compilation, err := frontend.Compile(ctx, proj)
	if err != nil || compilation == nil {
		logging.LogError("project analysis skipped: frontend could not compile", err, "project", proj.Name)
		return result, nil
	}

	docs := make([]*frontend.Document, 0, len(proj.Documents))
	for _, doc := range proj.Documents {
		if doc.RelPath == "" {
			continue
		}
		docs = append(docs, doc)
	}

	// Declaration pass over every document first, so the resolution index
	// sees the whole project's symbols before any Reference pass runs.
	for _, doc := range docs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		decl := walker.WalkDeclarations(doc, visitLocals)
		result.Nodes = append(result.Nodes, decl.Nodes...)
		result.Edges = append(result.Edges, decl.ContainmentEdges...)
		symbols.Merge(decl.SymbolToNodeID)
		for _, n := range decl.Nodes {
			knownIDs.Add(n.ID)
			resIdx.Add(n)
		}
	}

	for _, doc := range docs {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		ref := walker.WalkReferences(doc, resIdx)
		result.Edges = append(result.Edges, ref.Edges...)

		cmt := walker.WalkComments(doc)
		result.Nodes = append(result.Nodes, cmt.Nodes...)
		result.Edges = append(result.Edges, cmt.ContainmentEdges...)
	}

	logging.Debug("project analysed", "project", proj.Name, "documents", len(docs), "nodes", len(result.Nodes), "edges", len(result.Edges))
	return result, nil
}
