package manifest

// Change records one field rewritten by AlignVersions or
// UpdateSiblingVersions. Kind and Dependency are empty for a package
// version change.
type Change struct {
	Package    string
	Kind       Kind
	Dependency string
	From       string
	To         string
}

// AlignVersions returns copies of children whose version is set to the
// root's. Children already at that version are copied unchanged.
func AlignVersions(root *Manifest, children []*Manifest) ([]*Manifest, []Change) {
	out := make([]*Manifest, len(children))
	var changes []Change

	for i, child := range children {
		c := child.Clone()
		if c.Version != root.Version {
			changes = append(changes, Change{Package: c.Name, From: c.Version, To: root.Version})
			c.Version = root.Version
		}
		out[i] = c
	}
	return out, changes
}

// UpdateSiblingVersions returns copies of pkgs in which every dependency
// on another package of the set points at that package's current version.
// A leading ^ or ~ on the old range is kept; any other range becomes the
// exact version. Running it on its own output changes nothing.
func UpdateSiblingVersions(pkgs []*Manifest) ([]*Manifest, []Change) {
	versions := make(map[string]string, len(pkgs))
	for _, p := range pkgs {
		if p.Name != "" {
			versions[p.Name] = p.Version
		}
	}

	out := make([]*Manifest, len(pkgs))
	var changes []Change

	for i, p := range pkgs {
		c := p.Clone()
		for _, kind := range Kinds {
			deps := c.Section(kind)
			for _, name := range deps.Names() {
				target, ok := versions[name]
				if !ok {
					continue
				}
				old, _ := deps.Get(name)
				next := siblingRange(old, target)
				if next == old {
					continue
				}
				deps.Set(name, next)
				changes = append(changes, Change{Package: c.Name, Kind: kind, Dependency: name, From: old, To: next})
			}
		}
		out[i] = c
	}
	return out, changes
}

func siblingRange(old, version string) string {
	if old != "" && (old[0] == '^' || old[0] == '~') {
		return old[:1] + version
	}
	return version
}
