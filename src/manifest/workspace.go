package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Entry is a manifest together with where it lives in the workspace.
type Entry struct {
	ManifestPath string
	// WorkspacePath is the member path as declared in the root manifest,
	// empty for the root itself.
	WorkspacePath string
	Manifest      *Manifest
}

// IsRoot reports whether the entry is the workspace root.
func (e *Entry) IsRoot() bool { return e.WorkspacePath == "" }

// Workspace is a loaded root manifest and its members.
type Workspace struct {
	Root     *Entry
	Children []*Entry
}

// All returns the root followed by the children in declaration order.
func (w *Workspace) All() []*Entry {
	all := make([]*Entry, 0, len(w.Children)+1)
	all = append(all, w.Root)
	return append(all, w.Children...)
}

// LoadOptions tunes LoadWorkspace.
type LoadOptions struct {
	ManifestFile string // default DefaultFile
	Concurrency  int    // default 4
}

// Load reads and parses one manifest.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := Parse(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	log.WithField("path", path).Debug("loaded manifest")
	return m, nil
}

// LoadWorkspace loads the root manifest at rootPath and every member it
// declares. Members resolve to <dir(rootPath)>/<member>/<ManifestFile>.
// Members load concurrently; the result keeps declaration order.
func LoadWorkspace(ctx context.Context, rootPath string, opts LoadOptions) (*Workspace, error) {
	if opts.ManifestFile == "" {
		opts.ManifestFile = DefaultFile
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 4
	}

	root, err := Load(rootPath)
	if err != nil {
		return nil, err
	}
	if len(root.Workspaces) == 0 {
		return nil, fmt.Errorf("%s: %w", rootPath, ErrNoWorkspaces)
	}

	baseDir := filepath.Dir(rootPath)
	children := make([]*Entry, len(root.Workspaces))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, member := range root.Workspaces {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(baseDir, member, opts.ManifestFile)
			m, err := Load(path)
			if err != nil {
				return err
			}
			if m.Name == "" {
				return &ParseError{Path: path, Err: ErrMissingName}
			}
			children[i] = &Entry{ManifestPath: path, WorkspacePath: member, Manifest: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Workspace{
		Root:     &Entry{ManifestPath: rootPath, Manifest: root},
		Children: children,
	}, nil
}

// Save writes the entry's manifest with indent spaces of indentation.
func Save(e *Entry, indent int) error {
	doc, err := e.Manifest.Document()
	if err != nil {
		return &SaveError{Path: e.ManifestPath, Err: err}
	}
	if err := doc.WriteFile(e.ManifestPath, indent); err != nil {
		return &SaveError{Path: e.ManifestPath, Err: err}
	}
	log.WithField("path", e.ManifestPath).Debug("saved manifest")
	return nil
}

// SaveAll writes every entry, up to concurrency at a time. Writes that
// succeeded are kept when others fail; all failures are returned joined.
func SaveAll(ctx context.Context, entries []*Entry, indent, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, e := range entries {
		g.Go(func() error {
			err := ctx.Err()
			if err == nil {
				err = Save(e, indent)
			}
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
