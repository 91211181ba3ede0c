package consolidate

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/sofmeright/workspace-tools/src/manifest"
)

// Options configures a consolidation run.
type Options struct {
	HoistDev    bool
	Strategy    Strategy // default Highest
	MaxAttempts int
}

// Result is everything a run derived, in pipeline order.
type Result struct {
	Dependencies []DependencyVersions // every declared dependency
	InScope      []DependencyVersions // the ones being consolidated
	Resolved     []Resolved
	Plans        []InstallPlan
}

// Run aggregates the workspace, resolves each in-scope dependency one at a
// time and plans the install commands. It fails on the first dependency
// for which no version could be selected; nothing is written either way.
func Run(ctx context.Context, ws *manifest.Workspace, opts Options) (*Result, error) {
	strategy := opts.Strategy
	if strategy == nil {
		strategy = Highest
	}

	res := &Result{Dependencies: Aggregate(ws.All())}
	res.InScope = Filter(res.Dependencies, opts.HoistDev)

	log.WithFields(log.Fields{
		"dependencies": len(res.Dependencies),
		"in_scope":     len(res.InScope),
	}).Debug("aggregated workspace dependencies")

	for i, dep := range res.InScope {
		r, err := Select(ctx, dep, strategy, SelectOptions{
			MaxAttempts: opts.MaxAttempts,
			Index:       i + 1,
			Total:       len(res.InScope),
		})
		if err != nil {
			return res, err
		}
		res.Resolved = append(res.Resolved, r)
	}

	res.Plans = Plan(res.Resolved, opts.HoistDev, ws.Root.Manifest)
	return res, nil
}
