package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/workspace-tools/src/consolidate"
	"github.com/sofmeright/workspace-tools/src/manifest"
	"github.com/sofmeright/workspace-tools/src/npm"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	t.Setenv("GITLAB_CI", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

type recordingRunner struct {
	dirs  []string
	calls [][]string
}

func (r *recordingRunner) Run(_ context.Context, dir, name string, args []string) error {
	r.dirs = append(r.dirs, dir)
	r.calls = append(r.calls, append([]string{name}, args...))
	return nil
}

func TestConsolidateApplyAndReport(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "package.json", `{"name": "root", "version": "1.0.0", "workspaces": ["packages/a", "packages/b"]}`)
	writeFile(t, dir, "packages/a/package.json", `{"name": "a", "dependencies": {"lodash": "^4.17.0"}}`)
	writeFile(t, dir, "packages/b/package.json", `{"name": "b", "dependencies": {"lodash": "^4.0.0"}}`)
	planFile := filepath.Join(dir, "plan.json")

	runner := &recordingRunner{}
	orig := newRunner
	newRunner = func(io.Writer, io.Writer) npm.Runner { return runner }
	t.Cleanup(func() { newRunner = orig })

	out, err := execute(t, "consolidate", "-w", root, "--apply", "--output", planFile)
	require.NoError(t, err)

	assert.Contains(t, out, "Conflicts (1)")
	assert.Contains(t, out, "npm install --workspaces lodash@^4.17.0")
	assert.Equal(t, [][]string{{"npm", "install", "--workspaces", "lodash@^4.17.0"}}, runner.calls)
	assert.Equal(t, []string{dir}, runner.dirs)

	data, err := os.ReadFile(planFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"applied": true`)
}

func TestWorkspaceVersionSyncsPackages(t *testing.T) {
	dir := t.TempDir()
	root := writeFile(t, dir, "package.json", `{"name": "root", "version": "2.0.0", "workspaces": ["packages/a", "packages/b"]}`)
	a := writeFile(t, dir, "packages/a/package.json", `{"name": "a", "version": "1.0.0", "scripts": {"build": "tsc"}, "dependencies": {"b": "^1.0.0"}}`)
	writeFile(t, dir, "packages/b/package.json", `{"name": "b", "version": "1.0.0"}`)

	out, err := execute(t, "workspace-version", "-w", root, "-j", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated (")

	data, err := os.ReadFile(a)
	require.NoError(t, err)
	want := `{
  "name": "a",
  "version": "2.0.0",
  "scripts": {
    "build": "tsc"
  },
  "dependencies": {
    "b": "^2.0.0"
  }
}
`
	assert.Equal(t, want, string(data))
}

func TestCopyJSONRequiresTargets(t *testing.T) {
	_, err := execute(t, "copy-json", "-s", "package.json", "-k", "version")
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestParsePins(t *testing.T) {
	pins, err := parsePins([]string{"lodash=4.17.21", "@scope/pkg = 1.0.0"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"lodash": "4.17.21", "@scope/pkg": "1.0.0"}, pins)

	for _, bad := range []string{"lodash", "=1.0.0", "lodash="} {
		_, err := parsePins([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, exitOK, ExitCode(nil))
	assert.Equal(t, exitIO, ExitCode(exitErr(&manifest.LoadError{Path: "package.json", Err: os.ErrNotExist})))
	assert.Equal(t, exitIO, ExitCode(exitErr(fmt.Errorf("wrapped: %w", &manifest.ParseError{Path: "x", Err: errors.New("bad")}))))
	assert.Equal(t, exitExec, ExitCode(exitErr(&npm.CommandExecutionError{Index: 1, Err: errors.New("exit status 1")})))
	assert.Equal(t, exitUsage, ExitCode(exitErr(manifest.ErrNoWorkspaces)))
	assert.Equal(t, exitUsage, ExitCode(errors.New("plain")))
}

func TestPromptStrategy(t *testing.T) {
	req := consolidate.Request{
		Name:       "lodash",
		Candidates: []consolidate.Candidate{{Version: "^4.17.0", Usages: 2}, {Version: "^4.0.0", Usages: 1}},
		Index:      1,
		Total:      3,
	}

	var out bytes.Buffer
	p := newPromptStrategy(strings.NewReader("2\n\n9\n4.17.21\n"), &out, false)

	v, err := p.Select(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "^4.0.0", v)
	assert.Contains(t, out.String(), "[1/3] lodash")

	for _, want := range []string{"", "", "4.17.21"} {
		v, err = p.Select(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err = p.Select(context.Background(), req)
	assert.Error(t, err)
}
