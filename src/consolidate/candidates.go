package consolidate

import (
	"regexp"
	"sort"
	"strconv"

	masterminds "github.com/Masterminds/semver/v3"
)

// coercePattern finds the first version-looking run in a range,
// e.g. "^4.17.0" → 4.17.0, ">=1.2 <2" → 1.2.
var coercePattern = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// coerceVersion turns a version range into the version it is anchored on.
// Returns nil when the range holds no version (tags, URLs, "*").
func coerceVersion(rng string) *masterminds.Version {
	m := coercePattern.FindStringSubmatch(rng)
	if m == nil {
		return nil
	}
	parts := [3]uint64{}
	for i := 1; i <= 3; i++ {
		if m[i] == "" {
			continue
		}
		n, err := strconv.ParseUint(m[i], 10, 64)
		if err != nil {
			return nil
		}
		parts[i-1] = n
	}
	return masterminds.New(parts[0], parts[1], parts[2], "", "")
}

// compareRanges orders two ranges by their coerced versions. Ranges that
// cannot be coerced compare equal to everything.
func compareRanges(a, b string) int {
	va, vb := coerceVersion(a), coerceVersion(b)
	if va == nil || vb == nil {
		return 0
	}
	return va.Compare(vb)
}

// SortCandidates orders versions highest first. The sort is stable, so
// versions that cannot be compared keep their relative order.
func SortCandidates(versions []VersionUsages) []VersionUsages {
	out := append([]VersionUsages(nil), versions...)
	sort.SliceStable(out, func(i, j int) bool {
		return compareRanges(out[i].Version, out[j].Version) > 0
	})
	return out
}
