package consolidate

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// DefaultMaxAttempts bounds how often a Strategy is asked for one dependency.
const DefaultMaxAttempts = 3

// Resolved is the version a dependency converges on plus every declaration
// that has to be reinstalled to get there.
type Resolved struct {
	Name    string
	Version string
	Usages  []Usage
}

// SelectionError reports a dependency for which no version was chosen.
type SelectionError struct {
	Dependency string
	Attempts   int
	Err        error
}

func (e *SelectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("selecting version for %q: %v", e.Dependency, e.Err)
	}
	return fmt.Sprintf("no version selected for %q after %d attempt(s)", e.Dependency, e.Attempts)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// SelectOptions tunes Select.
type SelectOptions struct {
	MaxAttempts int // default DefaultMaxAttempts
	Index       int
	Total       int
}

// Select resolves one in-scope dependency. A single declared version is
// taken as is; otherwise the strategy chooses among the candidates, highest
// first. The result carries the usages of every declared version, since
// all of them move to the chosen one.
func Select(ctx context.Context, dep DependencyVersions, strategy Strategy, opts SelectOptions) (Resolved, error) {
	switch len(dep.Versions) {
	case 0:
		return Resolved{}, &SelectionError{Dependency: dep.Name, Err: fmt.Errorf("no declared versions")}
	case 1:
		return resolvedFrom(dep, dep.Versions[0].Version), nil
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	sorted := SortCandidates(dep.Versions)
	candidates := make([]Candidate, len(sorted))
	for i, v := range sorted {
		candidates[i] = Candidate{Version: v.Version, Usages: len(v.Usages)}
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Resolved{}, &SelectionError{Dependency: dep.Name, Attempts: attempt - 1, Err: err}
		}

		version, err := strategy.Select(ctx, Request{
			Name:       dep.Name,
			Candidates: candidates,
			Index:      opts.Index,
			Total:      opts.Total,
			Attempt:    attempt,
		})
		if err != nil {
			return Resolved{}, &SelectionError{Dependency: dep.Name, Attempts: attempt, Err: err}
		}
		if version != "" {
			log.WithFields(log.Fields{"dependency": dep.Name, "version": version}).Debug("version selected")
			return resolvedFrom(dep, version), nil
		}
		log.WithFields(log.Fields{"dependency": dep.Name, "attempt": attempt}).Warn("no version selected")
	}

	return Resolved{}, &SelectionError{Dependency: dep.Name, Attempts: maxAttempts}
}

func resolvedFrom(dep DependencyVersions, version string) Resolved {
	r := Resolved{Name: dep.Name, Version: version}
	for _, v := range dep.Versions {
		r.Usages = append(r.Usages, v.Usages...)
	}
	return r
}
