package jsoncopy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sourceJSON = `{
  "version": "1.2.3",
  "name": "sample-source",
  "dependencies": {"one": "1.2.3", "two": "3.4.5"}
}`

const targetJSON = `{
  "version": "0.0.1",
  "dependencies": {"one": "0.0.0", "four": "3.4.5"},
  "devDependencies": {"typescript": "4.0.0"}
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyKeysKeepsTargetOrder(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "source.json", sourceJSON)
	dst := writeFile(t, dir, "target.json", targetJSON)

	results, err := CopyKeys(src, []string{dst}, []string{"version", "name", "dependencies"}, 4)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Created)
	assert.Equal(t, []string{"version", "name", "dependencies"}, results[0].Copied)

	want := `{
    "version": "1.2.3",
    "dependencies": {
        "one": "1.2.3",
        "two": "3.4.5"
    },
    "devDependencies": {
        "typescript": "4.0.0"
    },
    "name": "sample-source"
}
`
	assert.Equal(t, want, readFile(t, dst))
}

func TestCopyKeysToSeveralTargets(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "source.json", sourceJSON)
	one := writeFile(t, dir, "one.json", targetJSON)
	two := writeFile(t, dir, "two.json", targetJSON)

	_, err := CopyKeys(src, []string{one, two}, []string{"version"}, 2)
	require.NoError(t, err)

	assert.Equal(t, readFile(t, one), readFile(t, two))
	assert.Contains(t, readFile(t, two), `"version": "1.2.3"`)
}

func TestCopyKeysMissingTargetStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "source.json", sourceJSON)
	dst := filepath.Join(dir, "new.json")

	results, err := CopyKeys(src, []string{dst}, []string{"name"}, 0)
	require.NoError(t, err)
	assert.True(t, results[0].Created)
	assert.Equal(t, "{\"name\":\"sample-source\"}\n", readFile(t, dst))
}

func TestCopyKeysRemovesKeysAbsentInSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "source.json", sourceJSON)
	dst := writeFile(t, dir, "target.json", targetJSON)

	results, err := CopyKeys(src, []string{dst}, []string{"devDependencies"}, 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"devDependencies"}, results[0].Removed)
	assert.NotContains(t, readFile(t, dst), "devDependencies")
}

func TestCopyKeysRequiresSource(t *testing.T) {
	dir := t.TempDir()
	dst := writeFile(t, dir, "target.json", targetJSON)

	_, err := CopyKeys(filepath.Join(dir, "missing.json"), []string{dst}, []string{"name"}, 4)
	assert.ErrorContains(t, err, "missing.json")
	assert.Equal(t, targetJSON, readFile(t, dst))
}
