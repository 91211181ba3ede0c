package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdateSiblingVersionsKeepsRangePrefix(t *testing.T) {
	lib := &Manifest{Name: "lib", Version: "2.0.0"}
	caret := &Manifest{Name: "caret", Version: "1.0.0", Dependencies: NewDependencies("lib", "^1.0.0")}
	tilde := &Manifest{Name: "tilde", Version: "1.0.0", DevDependencies: NewDependencies("lib", "~1.0.0")}
	exact := &Manifest{Name: "exact", Version: "1.0.0", PeerDependencies: NewDependencies("lib", "1.0.0")}
	other := &Manifest{Name: "other", Version: "1.0.0", Dependencies: NewDependencies("lib", ">=1.0.0", "lodash", "^4.0.0")}

	out, changes := UpdateSiblingVersions([]*Manifest{lib, caret, tilde, exact, other})

	get := func(d *Dependencies, name string) string {
		v, _ := d.Get(name)
		return v
	}
	assert.Equal(t, "^2.0.0", get(out[1].Dependencies, "lib"))
	assert.Equal(t, "~2.0.0", get(out[2].DevDependencies, "lib"))
	assert.Equal(t, "2.0.0", get(out[3].PeerDependencies, "lib"))
	assert.Equal(t, "2.0.0", get(out[4].Dependencies, "lib"))
	assert.Equal(t, "^4.0.0", get(out[4].Dependencies, "lodash"))

	assert.Len(t, changes, 4)
	assert.Equal(t, Change{Package: "tilde", Kind: KindDev, Dependency: "lib", From: "~1.0.0", To: "~2.0.0"}, changes[1])

	// inputs untouched
	assert.Equal(t, "^1.0.0", get(caret.Dependencies, "lib"))
}

func TestUpdateSiblingVersionsIsIdempotent(t *testing.T) {
	pkgs := []*Manifest{
		{Name: "a", Version: "3.1.0", Dependencies: NewDependencies("b", "^1.0.0")},
		{Name: "b", Version: "1.2.0", DevDependencies: NewDependencies("a", "3.0.0")},
	}

	first, changes := UpdateSiblingVersions(pkgs)
	assert.Len(t, changes, 2)

	second, changes := UpdateSiblingVersions(first)
	assert.Empty(t, changes)
	assert.Equal(t, first[0].Dependencies.Names(), second[0].Dependencies.Names())
}

func TestAlignVersions(t *testing.T) {
	root := &Manifest{Name: "root", Version: "2.0.0"}
	children := []*Manifest{
		{Name: "a", Version: "1.0.0"},
		{Name: "b", Version: "2.0.0"},
	}

	out, changes := AlignVersions(root, children)

	assert.Equal(t, "2.0.0", out[0].Version)
	assert.Equal(t, "2.0.0", out[1].Version)
	assert.Equal(t, "1.0.0", children[0].Version)
	assert.Equal(t, []Change{{Package: "a", From: "1.0.0", To: "2.0.0"}}, changes)
}
