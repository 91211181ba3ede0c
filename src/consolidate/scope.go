package consolidate

import "github.com/sofmeright/workspace-tools/src/manifest"

// InScope reports whether a dependency needs consolidating. Two or more
// declared versions always do. A single version only does when dev
// dependencies are being hoisted and at least one declaration is dev.
func InScope(versions []VersionUsages, hoistDev bool) bool {
	switch len(versions) {
	case 0:
		return false
	case 1:
		if !hoistDev {
			return false
		}
		for _, u := range versions[0].Usages {
			if u.Kind == manifest.KindDev {
				return true
			}
		}
		return false
	default:
		return true
	}
}

// Filter returns the in-scope dependencies, keeping their order.
func Filter(deps []DependencyVersions, hoistDev bool) []DependencyVersions {
	var out []DependencyVersions
	for _, d := range deps {
		if InScope(d.Versions, hoistDev) {
			out = append(out, d)
		}
	}
	return out
}
