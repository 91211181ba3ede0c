// Package consolidate brings every package of a workspace onto a single
// version per external dependency. It folds the manifests into a
// dependency → version → declarations map, keeps the dependencies that are
// in conflict (or hoistable), resolves one version for each through a
// Strategy, and plans the minimal set of npm install/uninstall commands.
//
// Nothing here performs I/O; manifests come in loaded and plans go out as
// data for the npm package to execute.
package consolidate

import (
	"github.com/sofmeright/workspace-tools/src/manifest"
)

// Usage is one declaration of a dependency: which package, which section.
type Usage struct {
	Entry *manifest.Entry
	Kind  manifest.Kind
}

// VersionUsages lists the declarations of a dependency at one exact range.
type VersionUsages struct {
	Version string
	Usages  []Usage
}

// DependencyVersions is every range a dependency is declared at.
type DependencyVersions struct {
	Name     string
	Versions []VersionUsages
}

// UsageCount returns the number of declarations across all versions.
func (d DependencyVersions) UsageCount() int {
	n := 0
	for _, v := range d.Versions {
		n += len(v.Usages)
	}
	return n
}

// Aggregate folds the entries into one DependencyVersions per dependency
// name. Dependencies and versions appear in the order first seen, walking
// entries in order and each entry's sections as prod, dev, peer.
//
// The same name and range declared in two sections of one package yields
// two usages.
func Aggregate(entries []*manifest.Entry) []DependencyVersions {
	var out []DependencyVersions
	byName := map[string]int{}
	byVersion := map[string]map[string]int{}

	for _, e := range entries {
		for _, kind := range manifest.Kinds {
			deps := e.Manifest.Section(kind)
			for _, name := range deps.Names() {
				rng, _ := deps.Get(name)

				di, ok := byName[name]
				if !ok {
					di = len(out)
					byName[name] = di
					byVersion[name] = map[string]int{}
					out = append(out, DependencyVersions{Name: name})
				}

				vi, ok := byVersion[name][rng]
				if !ok {
					vi = len(out[di].Versions)
					byVersion[name][rng] = vi
					out[di].Versions = append(out[di].Versions, VersionUsages{Version: rng})
				}

				vu := &out[di].Versions[vi]
				vu.Usages = append(vu.Usages, Usage{Entry: e, Kind: kind})
			}
		}
	}

	return out
}
