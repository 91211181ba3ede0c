package manifest

import (
	"fmt"

	"github.com/sofmeright/workspace-tools/src/jsondoc"
)

// Kind identifies the manifest section a dependency is declared in.
type Kind string

const (
	KindProd Kind = "prod"
	KindDev  Kind = "dev"
	KindPeer Kind = "peer"
)

// Kinds lists the dependency sections in fold order.
var Kinds = []Kind{KindProd, KindDev, KindPeer}

// Key returns the package.json key for the section.
func (k Kind) Key() string {
	switch k {
	case KindDev:
		return "devDependencies"
	case KindPeer:
		return "peerDependencies"
	default:
		return "dependencies"
	}
}

func (k Kind) String() string { return string(k) }

// Dependencies is a dependency section: dependency name to version range,
// in declaration order.
type Dependencies struct {
	names  []string
	ranges map[string]string
}

// NewDependencies builds a section from alternating name, range arguments.
func NewDependencies(pairs ...string) *Dependencies {
	if len(pairs)%2 != 0 {
		panic("manifest: NewDependencies needs name/range pairs")
	}
	d := &Dependencies{ranges: make(map[string]string, len(pairs)/2)}
	for i := 0; i < len(pairs); i += 2 {
		d.Set(pairs[i], pairs[i+1])
	}
	return d
}

// Len returns the number of declared dependencies. Safe on nil.
func (d *Dependencies) Len() int {
	if d == nil {
		return 0
	}
	return len(d.names)
}

// Names returns dependency names in declaration order. Safe on nil.
func (d *Dependencies) Names() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.names...)
}

// Get returns the range declared for name. Safe on nil.
func (d *Dependencies) Get(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	r, ok := d.ranges[name]
	return r, ok
}

// Set declares or replaces the range for name, keeping its position.
func (d *Dependencies) Set(name, rng string) {
	if d.ranges == nil {
		d.ranges = map[string]string{}
	}
	if _, ok := d.ranges[name]; !ok {
		d.names = append(d.names, name)
	}
	d.ranges[name] = rng
}

// Clone returns a deep copy. Returns nil for a nil section.
func (d *Dependencies) Clone() *Dependencies {
	if d == nil {
		return nil
	}
	c := &Dependencies{
		names:  append([]string(nil), d.names...),
		ranges: make(map[string]string, len(d.ranges)),
	}
	for k, v := range d.ranges {
		c.ranges[k] = v
	}
	return c
}

// UnmarshalJSON decodes a section, dropping null ranges.
func (d *Dependencies) UnmarshalJSON(data []byte) error {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return err
	}
	*d = Dependencies{ranges: map[string]string{}}
	for _, name := range doc.Keys() {
		var rng *string
		if _, err := doc.Decode(name, &rng); err != nil {
			return fmt.Errorf("dependency range: %w", err)
		}
		if rng == nil {
			continue
		}
		d.Set(name, *rng)
	}
	return nil
}

// MarshalJSON encodes the section in declaration order.
func (d *Dependencies) MarshalJSON() ([]byte, error) {
	doc := jsondoc.New()
	if d != nil {
		for _, name := range d.names {
			if err := doc.Set(name, d.ranges[name]); err != nil {
				return nil, err
			}
		}
	}
	return doc.MarshalJSON()
}
