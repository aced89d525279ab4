// Package update implements the Incremental Update Service (spec.md §4.8):
// the most delicate component, keeping the in-memory graph, the dependency
// tracker, and the repository mutually consistent under a stream of file
// changes. Grounded on the teacher's internal/ingestion.Orchestrator for
// its phased-pipeline shape, generalised into an explicit state machine
// since this component, unlike the teacher's one-shot ingest, runs for the
// lifetime of a watch session.
package update

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nick-boey/sharpitect/internal/analysis"
	"github.com/nick-boey/sharpitect/internal/config"
	"github.com/nick-boey/sharpitect/internal/dependency"
	"github.com/nick-boey/sharpitect/internal/frontend"
	"github.com/nick-boey/sharpitect/internal/logging"
	"github.com/nick-boey/sharpitect/internal/model"
	"github.com/nick-boey/sharpitect/internal/pathutil"
	"github.com/nick-boey/sharpitect/internal/storage"
	"github.com/nick-boey/sharpitect/internal/walker"
	"github.com/nick-boey/sharpitect/internal/watcher"
)

// State is one of the Incremental Update Service's lifecycle states.
type State int

const (
	Stopped State = iota
	Starting
	Watching
	Updating
	Stopping
)

func (s State) String() string {
	switch s {
	case Starting:
		return "Starting"
	case Watching:
		return "Watching"
	case Updating:
		return "Updating"
	case Stopping:
		return "Stopping"
	default:
		return "Stopped"
	}
}

// Completed is the event emitted after every processed batch (spec.md §4.8
// step 5).
type Completed struct {
	UpdatedFiles []string
	NodesAdded   int
	NodesRemoved int
	EdgesAdded   int
	EdgesRemoved int
	Duration     time.Duration
}

// Service is the Incremental Update Service.
type Service struct {
	cfg  *config.Config
	repo *storage.Repository

	mu       sync.Mutex
	state    State
	ws       *frontend.Workspace
	tracker  *dependency.Tracker
	symbols  *model.SymbolMap
	knownIDs *model.NodeIDSet
	resIdx   *walker.ResolutionIndex

	docs map[string]*frontend.Document // relPath -> document, across every project

	w       *watcher.Watcher
	batches chan []watcher.Change
	cancel  context.CancelFunc

	// OnCompleted, when set, is called after every processed batch.
	OnCompleted func(Completed)
}

// New wraps an already-open workspace (as produced by the Solution
// Analyser's watch variant) in an Update Service.
func New(cfg *config.Config, repo *storage.Repository, ws *frontend.Workspace, tracker *dependency.Tracker, symbols *model.SymbolMap, knownIDs *model.NodeIDSet, resIdx *walker.ResolutionIndex) *Service {
	docs := make(map[string]*frontend.Document)
	for _, proj := range ws.Projects {
		for _, doc := range proj.Documents {
			docs[doc.RelPath] = doc
		}
	}
	return &Service{
		cfg:      cfg,
		repo:     repo,
		ws:       ws,
		tracker:  tracker,
		symbols:  symbols,
		knownIDs: knownIDs,
		resIdx:   resIdx,
		docs:     docs,
	}
}

// State reports the service's current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start transitions Stopped -> Starting -> Watching and begins watching the
// workspace root.
func (s *Service) Start() error {
	s.mu.Lock()
	if s.state != Stopped {
		s.mu.Unlock()
		return nil
	}
	s.state = Starting
	s.mu.Unlock()

	s.batches = make(chan []watcher.Change, 64)
	s.w = watcher.New(s.cfg.Watch.Extension, s.cfg.Watch.ExcludeDirs, time.Duration(s.cfg.Watch.DebounceMS)*time.Millisecond, func(batch []watcher.Change) {
		s.batches <- batch
	})
	if err := s.w.Start(s.ws.RootDir); err != nil {
		s.mu.Lock()
		s.state = Stopped
		s.mu.Unlock()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.cancel = cancel
	s.state = Watching
	s.mu.Unlock()

	go s.worker(ctx)
	return nil
}

// Stop cancels any in-flight batch at the next phase boundary and stops
// watching. Partial writes from a cancelled batch are safe: every batch is
// idempotent with respect to its input set.
func (s *Service) Stop() {
	s.mu.Lock()
	if s.state == Stopped || s.state == Stopping {
		s.mu.Unlock()
		return
	}
	s.state = Stopping
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if s.w != nil {
		s.w.Stop()
		s.w.Dispose()
	}
	close(s.batches)

	s.mu.Lock()
	s.state = Stopped
	s.mu.Unlock()
}

func (s *Service) worker(ctx context.Context) {
	for batch := range s.batches {
		if ctx.Err() != nil {
			return
		}
		s.mu.Lock()
		s.state = Updating
		s.mu.Unlock()

		completed := s.processBatch(ctx, batch)

		s.mu.Lock()
		if s.state == Updating {
			s.state = Watching
		}
		s.mu.Unlock()

		if s.OnCompleted != nil {
			s.OnCompleted(completed)
		}
	}
}

// processBatch implements the delete-analyse-cascade algorithm of spec.md
// §4.8. Batches are processed strictly in arrival order by the single
// worker goroutine that calls this method.
func (s *Service) processBatch(ctx context.Context, batch []watcher.Change) Completed {
	start := time.Now()
	result := Completed{}

	touched := make([]string, 0, len(batch))
	kindByFile := make(map[string]watcher.ChangeKind, len(batch))
	for _, c := range batch {
		touched = append(touched, c.FilePath)
		kindByFile[c.FilePath] = c.Kind
	}

	// Step 1: snapshot prior nodes/edges per touched file.
	oldNodes := make(map[string][]model.DeclarationNode, len(touched))
	for _, f := range touched {
		nodes, err := s.repo.GetNodesByFile(ctx, f)
		if err != nil {
			logging.LogError("update: failed to snapshot prior nodes", err, "file", f)
			continue
		}
		oldNodes[f] = nodes
	}

	// Step 2: delete phase.
	for _, f := range touched {
		if err := s.repo.DeleteEdgesBySourceFile(ctx, f); err != nil {
			logging.LogError("update: delete edges by source file failed", err, "file", f)
		}
		if err := s.repo.DeleteNodesByFile(ctx, f); err != nil {
			logging.LogError("update: delete nodes by file failed", err, "file", f)
		}
		removed := oldNodes[f]
		result.NodesRemoved += len(removed)
		for _, n := range removed {
			s.knownIDs.Remove(n.ID)
		}
		s.resIdx.Remove(removed)
		s.tracker.RemoveReferencesFromFile(f)

		// This adapter's watcher reports a rename as Deleted for the old
		// path and Created for the new one (fsnotify exposes no
		// cross-platform rename correlation — see DESIGN.md), so it never
		// emits Renamed; a Renamed entry is still treated like Deleted: the
		// path no longer names a live file.
		if doc, ok := s.docs[f]; ok {
			doc.Close()
			if kindByFile[f] == watcher.Deleted || kindByFile[f] == watcher.Renamed {
				delete(s.docs, f)
				removeDocFromProject(doc)
			}
		}
	}

	if ctx.Err() != nil {
		return result
	}

	// Step 3: analyse phase for non-deleted entries.
	var newOrChangedIDs []string
	analysedInBatch := make(map[string]bool, len(touched))
	for _, f := range touched {
		analysedInBatch[f] = true
		if kindByFile[f] == watcher.Deleted || kindByFile[f] == watcher.Renamed {
			continue
		}
		added, added2 := s.analyseFile(ctx, f)
		result.NodesAdded += added
		result.EdgesAdded += added2
		newOrChangedIDs = append(newOrChangedIDs, s.fileNodeIDs(ctx, f)...)
	}

	// Step 4: cascade phase.
	if s.cfg.Analysis.CascadeEnabled && ctx.Err() == nil {
		affected := s.tracker.GetDependentFilesForNodes(newOrChangedIDs)
		affected = append(affected, s.tracker.GetDependentFilesForNodes(allRemovedIDs(oldNodes))...)
		for _, f := range dedupeExcluding(affected, analysedInBatch) {
			added, added2 := s.analyseFile(ctx, f)
			result.NodesAdded += added
			result.EdgesAdded += added2
			touched = append(touched, f)
		}
	}

	result.UpdatedFiles = touched
	result.Duration = time.Since(start)
	logging.Info("incremental update completed", "files", len(result.UpdatedFiles),
		"nodesAdded", result.NodesAdded, "nodesRemoved", result.NodesRemoved, "durationMs", result.Duration.Milliseconds())
	return result
}

// analyseFile re-runs the Incremental File Analyser against f and persists
// the result, returning the node/edge counts added.
func (s *Service) analyseFile(ctx context.Context, relPath string) (nodesAdded, edgesAdded int) {
	doc, ok := s.docs[relPath]
	if !ok {
		doc = s.newDocument(relPath)
		if doc == nil {
			logging.Warn("update: no project owns changed file", "file", relPath)
			return 0, 0
		}
		s.docs[relPath] = doc
	}

	result := analysis.AnalyzeFile(doc, s.symbols, s.knownIDs, s.resIdx, s.cfg.Analysis.VisitLocals)
	if err := s.repo.UpsertNodes(ctx, result.Nodes); err != nil {
		logging.LogError("update: upsert nodes failed", err, "file", relPath)
	}
	if err := s.repo.UpsertEdges(ctx, result.Edges); err != nil {
		logging.LogError("update: upsert edges failed", err, "file", relPath)
	}

	pairs := make(map[string][]string)
	for _, e := range result.Edges {
		if e.Kind == model.EdgeContains || e.SourceFilePath == nil {
			continue
		}
		pairs[*e.SourceFilePath] = append(pairs[*e.SourceFilePath], e.TargetID)
	}
	s.tracker.RecordAll(pairs)

	return len(result.Nodes), len(result.Edges)
}

func (s *Service) fileNodeIDs(ctx context.Context, relPath string) []string {
	nodes, err := s.repo.GetNodesByFile(ctx, relPath)
	if err != nil {
		return nil
	}
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// newDocument locates the project owning a newly created file and
// registers a Document for it.
func (s *Service) newDocument(relPath string) *frontend.Document {
	absPath := filepath.Join(s.ws.RootDir, filepath.FromSlash(relPath))
	var owner *frontend.Project
	for _, proj := range s.ws.Projects {
		projDirSlash := pathutil.ToSlash(proj.Dir) + "/"
		if !strings.HasPrefix(pathutil.ToSlash(absPath), projDirSlash) {
			continue
		}
		if owner == nil || len(proj.Dir) > len(owner.Dir) {
			owner = proj
		}
	}
	if owner == nil {
		return nil
	}
	doc := &frontend.Document{Project: owner, AbsPath: absPath, RelPath: relPath}
	owner.Documents = append(owner.Documents, doc)
	return doc
}

func removeDocFromProject(doc *frontend.Document) {
	proj := doc.Project
	if proj == nil {
		return
	}
	for i, d := range proj.Documents {
		if d == doc {
			proj.Documents = append(proj.Documents[:i], proj.Documents[i+1:]...)
			return
		}
	}
}

func allRemovedIDs(oldNodes map[string][]model.DeclarationNode) []string {
	var all []string
	for _, nodes := range oldNodes {
		for _, n := range nodes {
			all = append(all, n.ID)
		}
	}
	return all
}

func dedupeExcluding(files []string, exclude map[string]bool) []string {
	seen := make(map[string]bool, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if exclude[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
