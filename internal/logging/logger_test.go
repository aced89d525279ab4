package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sharperrors "github.com/nick-boey/sharpitect/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLastJSONLine(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &record))
	return record
}

func TestLogger_LogError_StructuredErrorFlattensTypeSeverityAndContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sharpitect.log")
	l, err := New(Config{Level: DEBUG, OutputFile: path, JSONFormat: true})
	require.NoError(t, err)
	defer l.Close()

	se := sharperrors.CompilationUnavailableError(assert.AnError, "App")
	l.LogError("incremental analysis failed", se, "file", "Foo.cs")

	record := readLastJSONLine(t, path)
	assert.Equal(t, "incremental analysis failed", record["msg"])
	assert.Equal(t, "COMPILATION_UNAVAILABLE", record["error_type"])
	assert.Equal(t, "MEDIUM", record["severity"])
	assert.Equal(t, "App", record["ctx_project"])
	assert.Equal(t, "Foo.cs", record["file"])
	assert.Equal(t, "WARN", record["level"])
}

func TestLogger_LogError_CriticalSeverityLogsAtError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sharpitect.log")
	l, err := New(Config{Level: DEBUG, OutputFile: path, JSONFormat: true})
	require.NoError(t, err)
	defer l.Close()

	se := sharperrors.StorageError(assert.AnError, "upsert nodes failed")
	l.LogError("update: upsert nodes failed", se)

	record := readLastJSONLine(t, path)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "STORAGE", record["error_type"])
}

func TestLogger_LogError_PlainErrorFallsBackToErrorField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sharpitect.log")
	l, err := New(Config{Level: DEBUG, OutputFile: path, JSONFormat: true})
	require.NoError(t, err)
	defer l.Close()

	l.LogError("mcpserver: failed to marshal tool result", assert.AnError)

	record := readLastJSONLine(t, path)
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, assert.AnError.Error(), record["error"])
	assert.NotContains(t, record, "error_type")
}

func TestLogger_LogError_NilErrorDoesNotPanic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sharpitect.log")
	l, err := New(Config{Level: DEBUG, OutputFile: path, JSONFormat: true})
	require.NoError(t, err)
	defer l.Close()

	assert.NotPanics(t, func() {
		l.LogError("no error here", nil, "file", "Foo.cs")
	})
}

func TestDefaultConfig(t *testing.T) {
	prod := DefaultConfig(false)
	assert.Equal(t, INFO, prod.Level)
	assert.True(t, prod.JSONFormat)
	assert.False(t, prod.AddSource)

	debug := DefaultConfig(true)
	assert.Equal(t, DEBUG, debug.Level)
	assert.False(t, debug.JSONFormat)
	assert.True(t, debug.AddSource)
}
