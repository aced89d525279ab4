package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
}

func TestFindManifest_DirectFilePath(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "Acme.sln.json")
	writeFile(t, manifest, `{"name":"Acme","projects":[]}`)

	found, err := FindManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, manifest, found)
}

func TestFindManifest_UniqueManifestInDirectory(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "Acme.sln.json")
	writeFile(t, manifest, `{"name":"Acme","projects":[]}`)

	found, err := FindManifest(dir)
	require.NoError(t, err)
	assert.Equal(t, manifest, found)
}

func TestFindManifest_NoManifestFound(t *testing.T) {
	dir := t.TempDir()
	_, err := FindManifest(dir)
	assert.Error(t, err)
}

func TestFindManifest_AmbiguousManifests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.sln.json"), `{}`)
	writeFile(t, filepath.Join(dir, "B.sln.json"), `{}`)

	_, err := FindManifest(dir)
	assert.Error(t, err)
}

func TestOpenWorkspace_DiscoversProjectsAndDocuments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Acme.sln.json"), `{"name":"Acme","projects":["App/App.csproj.json"]}`)
	writeFile(t, filepath.Join(dir, "App", "App.csproj.json"), `{"name":"App","references":[]}`)
	writeFile(t, filepath.Join(dir, "App", "Foo.cs"), `class Foo {}`)
	writeFile(t, filepath.Join(dir, "App", "bin", "Generated.cs"), `class Generated {}`)

	ws, diags, err := OpenWorkspace(filepath.Join(dir, "Acme.sln.json"), ".cs", []string{"bin", "obj"})
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.Len(t, ws.Projects, 1)
	assert.Equal(t, "App", ws.Projects[0].Name)
	require.Len(t, ws.Projects[0].Documents, 1, "bin/ output should be excluded")
	assert.Equal(t, "App/Foo.cs", ws.Projects[0].Documents[0].RelPath)
}

func TestOpenWorkspace_MissingProjectManifestBecomesDiagnostic(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Acme.sln.json"), `{"name":"Acme","projects":["Missing/Missing.csproj.json"]}`)

	ws, diags, err := OpenWorkspace(filepath.Join(dir, "Acme.sln.json"), ".cs", nil)
	require.NoError(t, err)
	assert.Empty(t, ws.Projects)
	require.Len(t, diags, 1)
	assert.Equal(t, "Missing/Missing.csproj.json", diags[0].Project)
}

func TestOpenWorkspace_DefaultsNameFromFileWhenUnset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Acme.sln.json"), `{"projects":[]}`)

	ws, _, err := OpenWorkspace(filepath.Join(dir, "Acme.sln.json"), ".cs", nil)
	require.NoError(t, err)
	assert.Equal(t, "Acme", ws.Name)
}

func TestWorkspace_CloseReleasesDocuments(t *testing.T) {
	ws := &Workspace{
		Projects: []*Project{
			{Documents: []*Document{{}}},
		},
	}
	ws.Close()
	assert.Nil(t, ws.Projects[0].Documents[0].Tree)
}

func TestAttribute_NamedArg(t *testing.T) {
	a := Attribute{Name: "Component", NamedArgs: map[string]string{"Description": "handles orders"}}

	v, ok := a.NamedArg("Description")
	require.True(t, ok)
	assert.Equal(t, "handles orders", v)

	_, ok = a.NamedArg("Missing")
	assert.False(t, ok)
}
