// Package storage implements the Graph Repository (spec.md §4.9): an
// embedded single-file SQL store for nodes and edges, grounded on the
// teacher's internal/storage/sqlite.go (same sqlx + go-sqlite3 pairing,
// same WAL/foreign-keys pragmas), with the teacher's generic schema
// replaced by the spec's nodes/edges tables.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
	"github.com/nick-boey/sharpitect/internal/logging"
	"github.com/nick-boey/sharpitect/internal/model"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Repository is the Graph Repository's embedded-SQL implementation.
type Repository struct {
	db *sqlx.DB
}

// Open connects to (and, if absent, creates) the SQLite database at path,
// enabling foreign keys and WAL mode as the teacher's SQLiteStore does.
func Open(path string) (*Repository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, sharperrors.StorageError(err, "create database directory")
		}
	}
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, sharperrors.StorageError(err, "connect to sqlite database")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, sharperrors.StorageError(err, "enable foreign keys")
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, sharperrors.StorageError(err, "enable WAL mode")
	}
	r := &Repository{db: db}
	if err := r.initSchema(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) initSchema() error {
	if _, err := r.db.Exec(schema); err != nil {
		return sharperrors.StorageError(err, "initialize schema")
	}
	return nil
}

// Close releases the underlying database handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Clear removes every node and edge (spec.md §4.5 step 2: "Initialise and
// clear the repository").
func (r *Repository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return sharperrors.StorageError(err, "clear edges")
	}
	if _, err := r.db.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return sharperrors.StorageError(err, "clear nodes")
	}
	return nil
}

// UpsertNode writes a single node.
func (r *Repository) UpsertNode(ctx context.Context, n model.DeclarationNode) error {
	return r.UpsertNodes(ctx, []model.DeclarationNode{n})
}

// UpsertNodes batch-writes nodes inside one transaction (spec.md §4.9
// "Batch writes run in one transaction").
func (r *Repository) UpsertNodes(ctx context.Context, nodes []model.DeclarationNode) error {
	if len(nodes) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return sharperrors.StorageError(err, "begin node upsert transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`
		INSERT INTO nodes (id, name, kind, file_path, start_line, start_column, end_line, end_column, arch_level, arch_description, metadata)
		VALUES (:id, :name, :kind, :file_path, :start_line, :start_column, :end_line, :end_column, :arch_level, :arch_description, :metadata)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name, kind=excluded.kind, file_path=excluded.file_path,
			start_line=excluded.start_line, start_column=excluded.start_column,
			end_line=excluded.end_line, end_column=excluded.end_column,
			arch_level=excluded.arch_level, arch_description=excluded.arch_description,
			metadata=excluded.metadata`)
	if err != nil {
		return sharperrors.StorageError(err, "prepare node upsert")
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.ExecContext(ctx, n); err != nil {
			return sharperrors.StorageError(err, fmt.Sprintf("upsert node %s", n.ID))
		}
	}
	if err := tx.Commit(); err != nil {
		return sharperrors.StorageError(err, "commit node upsert transaction")
	}
	return nil
}

// UpsertEdge writes a single edge.
func (r *Repository) UpsertEdge(ctx context.Context, e model.RelationshipEdge) error {
	return r.UpsertEdges(ctx, []model.RelationshipEdge{e})
}

// UpsertEdges batch-writes edges inside one transaction.
func (r *Repository) UpsertEdges(ctx context.Context, edges []model.RelationshipEdge) error {
	if len(edges) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return sharperrors.StorageError(err, "begin edge upsert transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamed(`
		INSERT INTO edges (id, source_id, target_id, kind, source_file_path, source_line, metadata)
		VALUES (:id, :source_id, :target_id, :kind, :source_file_path, :source_line, :metadata)
		ON CONFLICT(id) DO UPDATE SET
			source_id=excluded.source_id, target_id=excluded.target_id, kind=excluded.kind,
			source_file_path=excluded.source_file_path, source_line=excluded.source_line,
			metadata=excluded.metadata`)
	if err != nil {
		return sharperrors.StorageError(err, "prepare edge upsert")
	}
	defer stmt.Close()

	for _, e := range edges {
		if _, err := stmt.ExecContext(ctx, e); err != nil {
			logging.Warn("skipping edge with unresolved endpoint", "edge", e.ID, "error", err.Error())
			continue
		}
	}
	if err := tx.Commit(); err != nil {
		return sharperrors.StorageError(err, "commit edge upsert transaction")
	}
	return nil
}

// GetNode returns a node by id, or (nil, nil) if absent (spec.md §7: "the
// Navigation Service never throws on empty results").
func (r *Repository) GetNode(ctx context.Context, id string) (*model.DeclarationNode, error) {
	var n model.DeclarationNode
	err := r.db.GetContext(ctx, &n, "SELECT * FROM nodes WHERE id = ?", id)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, sharperrors.StorageError(err, "get node")
	}
	return &n, nil
}

// GetNodesByKind lists nodes of a given kind, optionally limited.
func (r *Repository) GetNodesByKind(ctx context.Context, kind model.NodeKind, limit int) ([]model.DeclarationNode, error) {
	q := "SELECT * FROM nodes WHERE kind = ?"
	args := []any{kind}
	q, args = withLimit(q, args, limit)
	var nodes []model.DeclarationNode
	if err := r.db.SelectContext(ctx, &nodes, q, args...); err != nil {
		return nil, sharperrors.StorageError(err, "get nodes by kind")
	}
	return nodes, nil
}

// GetNodesByFile lists every node declared in filePath.
func (r *Repository) GetNodesByFile(ctx context.Context, filePath string) ([]model.DeclarationNode, error) {
	var nodes []model.DeclarationNode
	if err := r.db.SelectContext(ctx, &nodes, "SELECT * FROM nodes WHERE file_path = ? ORDER BY start_line", filePath); err != nil {
		return nil, sharperrors.StorageError(err, "get nodes by file")
	}
	return nodes, nil
}

// searchNodesByNameQuery builds the base query and args shared by
// SearchNodesByName and CountSearchNodesByName.
func searchNodesByNameQuery(pattern string, caseSensitive bool, kindFilter *model.NodeKind) (string, []any) {
	op := "LIKE"
	if caseSensitive {
		op = "GLOB"
		pattern = strings.NewReplacer("%", "*", "_", "?").Replace(pattern)
	}
	q := fmt.Sprintf("SELECT * FROM nodes WHERE name %s ?", op)
	args := []any{pattern}
	if kindFilter != nil {
		q += " AND kind = ?"
		args = append(args, *kindFilter)
	}
	return q, args
}

// SearchNodesByName lists nodes whose name matches a SQL LIKE pattern,
// optionally case-sensitively (SQLite's default LIKE is case-insensitive
// for ASCII; case-sensitive search uses GLOB instead).
func (r *Repository) SearchNodesByName(ctx context.Context, pattern string, caseSensitive bool, kindFilter *model.NodeKind, limit int) ([]model.DeclarationNode, int, error) {
	q, args := searchNodesByNameQuery(pattern, caseSensitive, kindFilter)

	var total int
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM (%s)", q)
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, sharperrors.StorageError(err, "count search results")
	}

	q += " ORDER BY file_path, start_line"
	q, args = withLimit(q, args, limit)
	var nodes []model.DeclarationNode
	if err := r.db.SelectContext(ctx, &nodes, q, args...); err != nil {
		return nil, 0, sharperrors.StorageError(err, "search nodes")
	}
	return nodes, total, nil
}

// CountSearchNodesByName returns only the match count for a search, without
// fetching any rows (navigation.Service.Search's limit==0 "just tell me if
// anything matches" case).
func (r *Repository) CountSearchNodesByName(ctx context.Context, pattern string, caseSensitive bool, kindFilter *model.NodeKind) (int, error) {
	q, args := searchNodesByNameQuery(pattern, caseSensitive, kindFilter)
	var total int
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM (%s)", q)
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return 0, sharperrors.StorageError(err, "count search results")
	}
	return total, nil
}

// GetOutgoingEdges returns edges whose source is id.
func (r *Repository) GetOutgoingEdges(ctx context.Context, id string, kindFilter *model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	return r.edgesBy(ctx, "source_id", id, kindFilter, limit)
}

// GetIncomingEdges returns edges whose target is id.
func (r *Repository) GetIncomingEdges(ctx context.Context, id string, kindFilter *model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	return r.edgesBy(ctx, "target_id", id, kindFilter, limit)
}

func (r *Repository) edgesBy(ctx context.Context, column, id string, kindFilter *model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	q := fmt.Sprintf("SELECT * FROM edges WHERE %s = ?", column)
	args := []any{id}
	if kindFilter != nil {
		q += " AND kind = ?"
		args = append(args, *kindFilter)
	}
	q, args = withLimit(q, args, limit)
	var edges []model.RelationshipEdge
	if err := r.db.SelectContext(ctx, &edges, q, args...); err != nil {
		return nil, sharperrors.StorageError(err, "get edges")
	}
	return edges, nil
}

// GetEdgesByKind lists every edge of a given kind.
func (r *Repository) GetEdgesByKind(ctx context.Context, kind model.EdgeKind, limit int) ([]model.RelationshipEdge, error) {
	q, args := withLimit("SELECT * FROM edges WHERE kind = ?", []any{kind}, limit)
	var edges []model.RelationshipEdge
	if err := r.db.SelectContext(ctx, &edges, q, args...); err != nil {
		return nil, sharperrors.StorageError(err, "get edges by kind")
	}
	return edges, nil
}

// GetEdgesBySourceFile lists edges produced by a given file, used by the
// Incremental Update Service's delete phase (spec.md §4.8 step 1).
func (r *Repository) GetEdgesBySourceFile(ctx context.Context, filePath string) ([]model.RelationshipEdge, error) {
	var edges []model.RelationshipEdge
	if err := r.db.SelectContext(ctx, &edges, "SELECT * FROM edges WHERE source_file_path = ?", filePath); err != nil {
		return nil, sharperrors.StorageError(err, "get edges by source file")
	}
	return edges, nil
}

// DeleteNode removes a node (cascade-deleting incident edges).
func (r *Repository) DeleteNode(ctx context.Context, id string) error {
	return r.DeleteNodes(ctx, []string{id})
}

// DeleteNodes removes a batch of nodes in one transaction.
func (r *Repository) DeleteNodes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return sharperrors.StorageError(err, "begin node delete transaction")
	}
	defer tx.Rollback()
	q, args, err := sqlx.In("DELETE FROM nodes WHERE id IN (?)", ids)
	if err != nil {
		return sharperrors.StorageError(err, "build node delete query")
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(q), args...); err != nil {
		return sharperrors.StorageError(err, "delete nodes")
	}
	if err := tx.Commit(); err != nil {
		return sharperrors.StorageError(err, "commit node delete transaction")
	}
	return nil
}

// DeleteNodesByFile removes every node declared in filePath.
func (r *Repository) DeleteNodesByFile(ctx context.Context, filePath string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM nodes WHERE file_path = ?", filePath); err != nil {
		return sharperrors.StorageError(err, "delete nodes by file")
	}
	return nil
}

// DeleteEdgesBySourceFile removes every edge produced by filePath, used
// ahead of re-analysis so stale edges from a changed file never linger
// (spec.md §4.8 step 2).
func (r *Repository) DeleteEdgesBySourceFile(ctx context.Context, filePath string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM edges WHERE source_file_path = ?", filePath); err != nil {
		return sharperrors.StorageError(err, "delete edges by source file")
	}
	return nil
}

// CountNodes returns the total node count.
func (r *Repository) CountNodes(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM nodes"); err != nil {
		return 0, sharperrors.StorageError(err, "count nodes")
	}
	return n, nil
}

// CountEdges returns the total edge count.
func (r *Repository) CountEdges(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM edges"); err != nil {
		return 0, sharperrors.StorageError(err, "count edges")
	}
	return n, nil
}

// LoadFullGraph returns every node and edge in the repository. Nothing in
// this repository calls it: serve rebuilds the Dependency Index by
// re-analysing the solution on start.
func (r *Repository) LoadFullGraph(ctx context.Context) ([]model.DeclarationNode, []model.RelationshipEdge, error) {
	var nodes []model.DeclarationNode
	if err := r.db.SelectContext(ctx, &nodes, "SELECT * FROM nodes"); err != nil {
		return nil, nil, sharperrors.StorageError(err, "load nodes")
	}
	var edges []model.RelationshipEdge
	if err := r.db.SelectContext(ctx, &edges, "SELECT * FROM edges"); err != nil {
		return nil, nil, sharperrors.StorageError(err, "load edges")
	}
	return nodes, edges, nil
}

func withLimit(q string, args []any, limit int) (string, []any) {
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	return q, args
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
