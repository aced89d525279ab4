package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-boey/sharpitect/internal/navigation"
	"github.com/nick-boey/sharpitect/internal/storage"
)

// resolvedDBPath returns the --db flag value, falling back to the loaded
// config's database path (spec.md §6's normative default).
func resolvedDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.Database.Path
}

// openNavigation opens the repository at the resolved db path and wraps it
// in a Navigation Service. The workspace root used for GetCode's source
// reads is the grandparent of the db path when it sits under a .sharpitect
// directory (the layout analyze always produces), falling back to the
// directory that holds the db file.
func openNavigation() (*navigation.Service, *storage.Repository, error) {
	path := resolvedDBPath()
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("database not found at %s (run `sharpitect analyze` first)", path)
	}
	repo, err := storage.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return navigation.New(repo, workspaceRoot(path)), repo, nil
}

func workspaceRoot(dbPath string) string {
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return "."
	}
	dir := filepath.Dir(abs)
	if filepath.Base(dir) == ".sharpitect" {
		return filepath.Dir(dir)
	}
	return filepath.Dir(abs)
}

// printResult renders v as indented JSON, or as a bare line for plain
// strings when format is "text".
func printResult(v interface{}, format string) error {
	if format == "text" {
		if s, ok := v.(string); ok {
			fmt.Println(s)
			return nil
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// exitNotFound prints a not-found message and exits 1, matching spec.md §6's
// "exit code 1 if not found" contract for every id-addressed subcommand.
func exitNotFound(id string) {
	fmt.Fprintf(os.Stderr, "not found: %s\n", id)
	os.Exit(1)
}
