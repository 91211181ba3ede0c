package consolidate

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Candidate is one selectable version with its number of declarations.
type Candidate struct {
	Version string
	Usages  int
}

// Request asks a Strategy to pick a version for one dependency.
// Candidates are ordered highest version first.
type Request struct {
	Name       string
	Candidates []Candidate
	Index      int // 1-based position among dependencies being resolved
	Total      int
	Attempt    int // 1-based
}

// Strategy decides which version a conflicting dependency converges on.
// Returning "" means no selection was made; Select asks again until its
// attempt limit is reached.
type Strategy interface {
	Select(ctx context.Context, req Request) (string, error)
}

// StrategyFunc adapts a function to Strategy.
type StrategyFunc func(ctx context.Context, req Request) (string, error)

// Select implements Strategy.
func (f StrategyFunc) Select(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Highest picks the highest candidate version.
var Highest Strategy = StrategyFunc(func(_ context.Context, req Request) (string, error) {
	if len(req.Candidates) == 0 {
		return "", nil
	}
	return req.Candidates[0].Version, nil
})

// Lowest picks the lowest candidate version.
var Lowest Strategy = StrategyFunc(func(_ context.Context, req Request) (string, error) {
	if len(req.Candidates) == 0 {
		return "", nil
	}
	return req.Candidates[len(req.Candidates)-1].Version, nil
})

// MostUsed picks the version declared by the most packages, preferring the
// higher version on a tie.
var MostUsed Strategy = StrategyFunc(func(_ context.Context, req Request) (string, error) {
	best := -1
	for i, c := range req.Candidates {
		if best < 0 || c.Usages > req.Candidates[best].Usages {
			best = i
		}
	}
	if best < 0 {
		return "", nil
	}
	return req.Candidates[best].Version, nil
})

// Pinned returns the pinned version for dependencies listed in pins and
// defers to fallback for the rest. A pin does not have to be one of the
// candidates. A nil fallback makes no selection.
func Pinned(pins map[string]string, fallback Strategy) Strategy {
	return StrategyFunc(func(ctx context.Context, req Request) (string, error) {
		if v, ok := pins[req.Name]; ok && v != "" {
			return v, nil
		}
		if fallback == nil {
			return "", nil
		}
		return fallback.Select(ctx, req)
	})
}

var namedStrategies = map[string]Strategy{
	"highest":   Highest,
	"lowest":    Lowest,
	"most-used": MostUsed,
}

// StrategyNames lists the names accepted by StrategyByName.
func StrategyNames() []string {
	names := make([]string, 0, len(namedStrategies))
	for n := range namedStrategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// StrategyByName looks up a built-in strategy.
func StrategyByName(name string) (Strategy, error) {
	s, ok := namedStrategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown version strategy %q (valid: %s)", name, strings.Join(StrategyNames(), ", "))
	}
	return s, nil
}
