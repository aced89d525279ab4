// Package dependency implements the Dependency Index (spec.md §3.4): an
// in-memory reverse index kept consistent alongside the graph during watch
// mode, so the Incremental Update Service can find which files must be
// re-analysed when a node they depend on changes. Grounded on the teacher's
// internal/ingestion.FileIdentityMapper, which keeps a similar pair of
// forward/reverse maps consistent under mutation with one guarding mutex.
package dependency

import "sync"

// Tracker maintains the two directions of the Dependency Index.
type Tracker struct {
	mu        sync.RWMutex
	byNode    map[string]map[string]struct{} // nodeId -> files referencing it
	byFile    map[string]map[string]struct{} // file -> nodeIds it references
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		byNode: make(map[string]map[string]struct{}),
		byFile: make(map[string]map[string]struct{}),
	}
}

// Record notes that file produces an edge targeting nodeID.
func (t *Tracker) Record(file, nodeID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.addLocked(file, nodeID)
}

// RecordAll notes file -> nodeID for every pair, used after a batch analysis.
func (t *Tracker) RecordAll(pairs map[string][]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for file, ids := range pairs {
		for _, id := range ids {
			t.addLocked(file, id)
		}
	}
}

func (t *Tracker) addLocked(file, nodeID string) {
	if t.byNode[nodeID] == nil {
		t.byNode[nodeID] = make(map[string]struct{})
	}
	t.byNode[nodeID][file] = struct{}{}
	if t.byFile[file] == nil {
		t.byFile[file] = make(map[string]struct{})
	}
	t.byFile[file][nodeID] = struct{}{}
}

// RemoveReferencesFromFile removes file from every node's referring-file set
// and drops entries that become empty, keeping both directions consistent
// (spec.md §3.4 invariant).
func (t *Tracker) RemoveReferencesFromFile(file string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids, ok := t.byFile[file]
	if !ok {
		return
	}
	for id := range ids {
		files := t.byNode[id]
		delete(files, file)
		if len(files) == 0 {
			delete(t.byNode, id)
		}
	}
	delete(t.byFile, file)
}

// GetDependentFilesForNodes returns the union of files referencing any of
// nodeIDs, used by the cascade phase (spec.md §4.8 step 4).
func (t *Tracker) GetDependentFilesForNodes(nodeIDs []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, id := range nodeIDs {
		for f := range t.byNode[id] {
			seen[f] = struct{}{}
		}
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	return files
}

// FilesReferencedBy returns the nodeIds file currently references, used to
// snapshot OldEdges-derived targets before a re-analysis replaces them.
func (t *Tracker) FilesReferencedBy(file string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := t.byFile[file]
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	return out
}

// Reset clears the tracker, used when rebuilding it from a freshly-loaded
// graph (spec.md §3.4: maintained "alongside the graph during watch mode").
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.byNode = make(map[string]map[string]struct{})
	t.byFile = make(map[string]map[string]struct{})
}
