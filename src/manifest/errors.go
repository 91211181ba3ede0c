package manifest

import (
	"errors"
	"fmt"
)

// ErrNoWorkspaces is returned when the root manifest declares no members.
var ErrNoWorkspaces = errors.New("no child workspaces found")

// ErrMissingName is returned for a workspace member without a package name.
// Only the root may omit it.
var ErrMissingName = errors.New("missing package name")

// LoadError reports a manifest that could not be read.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("loading %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// ParseError reports a manifest whose content is malformed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing %s: %v", e.Path, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// SaveError reports a manifest that could not be written.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("saving %s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// DuplicateNameError reports two manifests declaring the same package name.
type DuplicateNameError struct {
	Name          string
	FirstPath     string
	DuplicatePath string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("the package name %q is duplicated in %s and %s", e.Name, e.FirstPath, e.DuplicatePath)
}
