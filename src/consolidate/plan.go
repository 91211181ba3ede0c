package consolidate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sofmeright/workspace-tools/src/manifest"
)

// Phase orders install plans. Plans must run in non-decreasing phase order.
type Phase int

const (
	// PhaseRoot installs resolved versions declared by the root manifest.
	PhaseRoot Phase = iota + 1
	// PhaseHoist installs dev dependencies at the root, then uninstalls
	// them from every workspace.
	PhaseHoist
	// PhaseWorkspace installs resolved versions into member workspaces.
	PhaseWorkspace
)

func (p Phase) String() string {
	switch p {
	case PhaseRoot:
		return "root"
	case PhaseHoist:
		return "hoist"
	case PhaseWorkspace:
		return "workspace"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Scope is where a plan runs: the root (zero value), every workspace, or an
// explicit sorted list of workspace paths.
type Scope struct {
	All        bool
	Workspaces []string
}

// RootScope targets the workspace root only.
func RootScope() Scope { return Scope{} }

// AllScope targets every workspace.
func AllScope() Scope { return Scope{All: true} }

// WorkspaceScope targets the given workspace paths.
func WorkspaceScope(paths ...string) Scope { return Scope{Workspaces: paths} }

// IsRoot reports whether the scope is the root only.
func (s Scope) IsRoot() bool { return !s.All && len(s.Workspaces) == 0 }

func (s Scope) String() string {
	switch {
	case s.All:
		return "all"
	case s.IsRoot():
		return "root"
	default:
		return strings.Join(s.Workspaces, ",")
	}
}

// InstallPlan is one package-manager invocation.
type InstallPlan struct {
	Phase Phase
	Scope Scope
	// Kind selects the save flag; empty leaves the section to npm.
	Kind         manifest.Kind
	Uninstall    bool
	Dependencies []string // "name@version", or bare names when uninstalling
}

// allKey cannot collide with a comma-joined list of workspace paths.
const allKey = "\x00all"

// Plan derives the install commands that move every declaration in
// resolved onto its chosen version. Root and hoist plans come first, then
// one plan per distinct set of target workspaces, in the order those sets
// are first met walking resolved.
//
// With hoistDev, dev declarations are installed once at the root and
// removed from all workspaces instead of being reinstalled in place.
// root supplies the workspace member list that turns a full target set
// into the all-workspaces scope; it may be nil.
func Plan(resolved []Resolved, hoistDev bool, root *manifest.Manifest) []InstallPlan {
	plans := rootPlans(resolved, hoistDev)
	return append(plans, workspacePlans(resolved, hoistDev, root)...)
}

func rootPlans(resolved []Resolved, hoistDev bool) []InstallPlan {
	var rootDeps, devDeps, devNames uniqueList

	for _, r := range resolved {
		spec := pinned(r.Name, r.Version)
		for _, u := range r.Usages {
			if u.Entry.IsRoot() {
				rootDeps.add(spec)
			}
			if u.Kind == manifest.KindDev {
				devDeps.add(spec)
				devNames.add(r.Name)
			}
		}
	}

	var plans []InstallPlan
	if len(rootDeps) > 0 {
		plans = append(plans, InstallPlan{Phase: PhaseRoot, Scope: RootScope(), Dependencies: rootDeps})
	}
	if hoistDev && len(devDeps) > 0 {
		plans = append(plans,
			InstallPlan{Phase: PhaseHoist, Scope: RootScope(), Kind: manifest.KindDev, Dependencies: devDeps},
			InstallPlan{Phase: PhaseHoist, Scope: AllScope(), Uninstall: true, Dependencies: devNames},
		)
	}
	return plans
}

func workspacePlans(resolved []Resolved, hoistDev bool, root *manifest.Manifest) []InstallPlan {
	var members []string
	if root != nil {
		members = sortedUnique(root.Workspaces)
	}

	var order []string
	groups := map[string]*InstallPlan{}

	for _, r := range resolved {
		var targets []string
		for _, u := range r.Usages {
			if u.Entry.IsRoot() || (hoistDev && u.Kind == manifest.KindDev) {
				continue
			}
			targets = append(targets, u.Entry.WorkspacePath)
		}
		if len(targets) == 0 {
			continue
		}
		targets = sortedUnique(targets)

		key, scope := strings.Join(targets, ","), WorkspaceScope(targets...)
		if len(members) > 0 && slices.Equal(targets, members) {
			key, scope = allKey, AllScope()
		}

		g, ok := groups[key]
		if !ok {
			g = &InstallPlan{Phase: PhaseWorkspace, Scope: scope}
			groups[key] = g
			order = append(order, key)
		}
		deps := uniqueList(g.Dependencies)
		deps.add(pinned(r.Name, r.Version))
		g.Dependencies = deps
	}

	plans := make([]InstallPlan, 0, len(order))
	for _, key := range order {
		plans = append(plans, *groups[key])
	}
	return plans
}

// ValidateOrder checks that plans follow the phase protocol: phases never
// decrease, and the hoist uninstall only runs after the hoist install.
func ValidateOrder(plans []InstallPlan) error {
	var last Phase
	hoisted := false
	for i, p := range plans {
		if p.Phase < last {
			return fmt.Errorf("plan %d (%s) runs after a %s plan", i+1, p.Phase, last)
		}
		last = p.Phase
		if p.Phase != PhaseHoist {
			continue
		}
		if !p.Uninstall {
			hoisted = true
		} else if !hoisted {
			return fmt.Errorf("plan %d uninstalls dev dependencies before they are installed at the root", i+1)
		}
	}
	return nil
}

func pinned(name, version string) string { return name + "@" + version }

type uniqueList []string

func (l *uniqueList) add(s string) {
	for _, existing := range *l {
		if existing == s {
			return
		}
	}
	*l = append(*l, s)
}

func sortedUnique(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}
