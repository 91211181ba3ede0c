// Package report writes the machine-readable record of a consolidation run
// for CI jobs to pick up.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sofmeright/workspace-tools/src/consolidate"
	"github.com/sofmeright/workspace-tools/src/npm"
	"github.com/sofmeright/workspace-tools/src/version"
)

// SchemaVersion is bumped whenever a field is renamed or removed.
const SchemaVersion = 1

// Report is the top-level document. Field names are frozen.
type Report struct {
	SchemaVersion int          `json:"schemaVersion" yaml:"schemaVersion"`
	GeneratedAt   string       `json:"generatedAt" yaml:"generatedAt"`
	ToolVersion   string       `json:"toolVersion" yaml:"toolVersion"`
	Root          string       `json:"root" yaml:"root"`
	HoistDev      bool         `json:"hoistDev" yaml:"hoistDev"`
	Applied       bool         `json:"applied" yaml:"applied"`
	Conflicts     []Conflict   `json:"conflicts" yaml:"conflicts"`
	Resolved      []Resolution `json:"resolved" yaml:"resolved"`
	Plans         []Plan       `json:"plans" yaml:"plans"`
}

// Conflict is one dependency declared at more than one version.
type Conflict struct {
	Name       string      `json:"name" yaml:"name"`
	Candidates []Candidate `json:"candidates" yaml:"candidates"`
}

// Candidate is one declared version and how many manifests use it.
type Candidate struct {
	Version string `json:"version" yaml:"version"`
	Usages  int    `json:"usages" yaml:"usages"`
}

// Resolution is the version chosen for one dependency.
type Resolution struct {
	Name       string   `json:"name" yaml:"name"`
	Version    string   `json:"version" yaml:"version"`
	Workspaces []string `json:"workspaces" yaml:"workspaces"`
}

// Plan is one install or uninstall command.
type Plan struct {
	Phase        string   `json:"phase" yaml:"phase"`
	Scope        string   `json:"scope" yaml:"scope"`
	Kind         string   `json:"kind,omitempty" yaml:"kind,omitempty"`
	Uninstall    bool     `json:"uninstall" yaml:"uninstall"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Command      string   `json:"command" yaml:"command"`
}

// Options describes the run being recorded.
type Options struct {
	Root     string
	HoistDev bool
	Applied  bool
	Binary   string // package manager used for command lines
}

// New builds a Report from a consolidation result.
func New(res *consolidate.Result, opts Options) *Report {
	r := &Report{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		ToolVersion:   version.Version,
		Root:          opts.Root,
		HoistDev:      opts.HoistDev,
		Applied:       opts.Applied,
		Conflicts:     make([]Conflict, 0),
		Resolved:      make([]Resolution, 0),
		Plans:         make([]Plan, 0),
	}

	for _, dep := range res.InScope {
		c := Conflict{Name: dep.Name}
		for _, v := range consolidate.SortCandidates(dep.Versions) {
			c.Candidates = append(c.Candidates, Candidate{Version: v.Version, Usages: len(v.Usages)})
		}
		r.Conflicts = append(r.Conflicts, c)
	}

	for _, rv := range res.Resolved {
		entry := Resolution{Name: rv.Name, Version: rv.Version, Workspaces: make([]string, 0, len(rv.Usages))}
		// One package can declare the dependency in several sections.
		seen := make(map[string]bool, len(rv.Usages))
		for _, u := range rv.Usages {
			ws := u.Entry.WorkspacePath
			if u.Entry.IsRoot() {
				ws = "."
			}
			if seen[ws] {
				continue
			}
			seen[ws] = true
			entry.Workspaces = append(entry.Workspaces, ws)
		}
		r.Resolved = append(r.Resolved, entry)
	}

	for _, p := range res.Plans {
		r.Plans = append(r.Plans, Plan{
			Phase:        p.Phase.String(),
			Scope:        p.Scope.String(),
			Kind:         string(p.Kind),
			Uninstall:    p.Uninstall,
			Dependencies: p.Dependencies,
			Command:      npm.CommandLine(opts.Binary, p),
		})
	}

	return r
}

// Write encodes the report to path, as YAML when the file ends in .yml or
// .yaml and as indented JSON otherwise. Parent directories are created.
func Write(path string, r *Report) error {
	data, err := Encode(path, r)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Encode returns r in the format implied by path's extension.
func Encode(path string, r *Report) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
}
