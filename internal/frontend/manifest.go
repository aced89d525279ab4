package frontend

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nick-boey/sharpitect/internal/pathutil"
)

// solutionManifest and projectManifest model a lightweight JSON stand-in for
// a solution/project file format (spec.md Glossary: "a named collection of
// projects, typically defined by a manifest file"). spec.md deliberately
// leaves the target language's native manifest format out of scope — the
// core never parses one directly, only the shape this adapter exposes.
type solutionManifest struct {
	Name     string   `json:"name"`
	Projects []string `json:"projects"` // paths relative to the solution file, one per project manifest
}

type projectManifest struct {
	Name       string   `json:"name"`
	References []string `json:"references"` // other project names in the same solution
}

const (
	solutionManifestExt = ".sln.json"
	projectManifestExt  = ".csproj.json"
)

// FindManifest locates a solution manifest starting from path: path itself
// if it is not a directory (its name is not checked), or the unique
// *.sln.json file directly under path if path is a directory.
func FindManifest(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("frontend: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return path, nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("frontend: read dir %s: %w", path, err)
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" && hasSuffix(e.Name(), solutionManifestExt) {
			found = append(found, filepath.Join(path, e.Name()))
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("frontend: no %s manifest found under %s", solutionManifestExt, path)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("frontend: multiple solution manifests found under %s: %v", path, found)
	}
}

func hasSuffix(name, suffix string) bool {
	if len(name) < len(suffix) {
		return false
	}
	return name[len(name)-len(suffix):] == suffix
}

// OpenWorkspace reads a solution manifest and every project manifest it
// references, discovering each project's documents by walking its directory
// for files with extension, skipping excludeDirs segments (spec.md §4.5
// step 3, §4.6). It does not parse document contents; call Compile per
// project for that.
func OpenWorkspace(manifestPath, extension string, excludeDirs []string) (*Workspace, []Diagnostic, error) {
	root := filepath.Dir(manifestPath)
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("frontend: open workspace manifest %s: %w", manifestPath, err)
	}
	var sln solutionManifest
	if err := json.Unmarshal(raw, &sln); err != nil {
		return nil, nil, fmt.Errorf("frontend: parse workspace manifest %s: %w", manifestPath, err)
	}
	if sln.Name == "" {
		sln.Name = stripManifestExt(filepath.Base(manifestPath))
	}

	ws := &Workspace{
		Name:         sln.Name,
		ManifestPath: pathutil.ToRelative(root, manifestPath),
		RootDir:      root,
	}

	var diagnostics []Diagnostic
	for _, projRel := range sln.Projects {
		projManifestPath := filepath.Join(root, projRel)
		proj, err := openProject(projManifestPath, root, extension, excludeDirs)
		if err != nil {
			diagnostics = append(diagnostics, Diagnostic{
				Project: projRel,
				Message: err.Error(),
			})
			continue
		}
		ws.Projects = append(ws.Projects, proj)
	}
	return ws, diagnostics, nil
}

func openProject(manifestPath, workspaceRoot, extension string, excludeDirs []string) (*Project, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("open project manifest %s: %w", manifestPath, err)
	}
	var pm projectManifest
	if err := json.Unmarshal(raw, &pm); err != nil {
		return nil, fmt.Errorf("parse project manifest %s: %w", manifestPath, err)
	}
	if pm.Name == "" {
		pm.Name = stripManifestExt(filepath.Base(manifestPath))
	}

	dir := filepath.Dir(manifestPath)
	proj := &Project{Name: pm.Name, Dir: dir, References: pm.References}

	err = filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := pathutil.ToRelative(workspaceRoot, p)
		if d.IsDir() {
			if pathutil.IsExcludedDir(rel, excludeDirs) && p != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if !pathutil.HasExtension(p, extension) {
			return nil
		}
		if pathutil.IsExcludedDir(rel, excludeDirs) {
			return nil
		}
		proj.Documents = append(proj.Documents, &Document{
			Project: proj,
			AbsPath: p,
			RelPath: rel,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk project dir %s: %w", dir, err)
	}
	return proj, nil
}

func stripManifestExt(name string) string {
	for _, ext := range []string{solutionManifestExt, projectManifestExt} {
		if hasSuffix(name, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
