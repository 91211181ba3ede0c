// Package manifest models package.json documents inside an npm workspace:
// loading the root and its members, saving them back without disturbing
// unrelated keys, and the pure version rewrites run by workspace-version.
package manifest

import (
	"encoding/json"
	"fmt"

	"github.com/sofmeright/workspace-tools/src/jsondoc"
)

// DefaultFile is the manifest filename looked up inside each workspace member.
const DefaultFile = "package.json"

// Manifest is the subset of package.json the tools read and rewrite. All
// other keys ride along untouched in doc.
type Manifest struct {
	Name             string
	Version          string
	Dependencies     *Dependencies
	DevDependencies  *Dependencies
	PeerDependencies *Dependencies
	Workspaces       []string

	doc *jsondoc.Document
}

// workspacesObject is the yarn form of the workspaces key.
type workspacesObject struct {
	Packages []string `json:"packages"`
}

// Parse decodes a manifest. Returns an error describing the first malformed
// field; callers wrap it in a ParseError with the file path.
func Parse(data []byte) (*Manifest, error) {
	doc, err := jsondoc.Parse(data)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

func fromDocument(doc *jsondoc.Document) (*Manifest, error) {
	m := &Manifest{doc: doc}

	if _, err := doc.Decode("name", &m.Name); err != nil {
		return nil, err
	}
	if _, err := doc.Decode("version", &m.Version); err != nil {
		return nil, err
	}

	for _, kind := range Kinds {
		var deps *Dependencies
		if _, err := doc.Decode(kind.Key(), &deps); err != nil {
			return nil, err
		}
		m.setSection(kind, deps)
	}

	if raw, ok := doc.Raw("workspaces"); ok {
		ws, err := decodeWorkspaces(raw)
		if err != nil {
			return nil, err
		}
		m.Workspaces = ws
	}

	return m, nil
}

func decodeWorkspaces(raw json.RawMessage) ([]string, error) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var obj workspacesObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("key \"workspaces\": expected an array or an object with \"packages\"")
	}
	return obj.Packages, nil
}

// Section returns the dependency section for kind, nil when absent.
func (m *Manifest) Section(kind Kind) *Dependencies {
	switch kind {
	case KindDev:
		return m.DevDependencies
	case KindPeer:
		return m.PeerDependencies
	default:
		return m.Dependencies
	}
}

func (m *Manifest) setSection(kind Kind, deps *Dependencies) {
	switch kind {
	case KindDev:
		m.DevDependencies = deps
	case KindPeer:
		m.PeerDependencies = deps
	default:
		m.Dependencies = deps
	}
}

// Clone returns a deep copy that shares nothing with m.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{
		Name:             m.Name,
		Version:          m.Version,
		Dependencies:     m.Dependencies.Clone(),
		DevDependencies:  m.DevDependencies.Clone(),
		PeerDependencies: m.PeerDependencies.Clone(),
		Workspaces:       append([]string(nil), m.Workspaces...),
	}
	if m.doc != nil {
		c.doc = m.doc.Clone()
	}
	return c
}

// Document renders the manifest over the document it was loaded from.
// Keys keep their original position; sections added since loading are
// appended. The workspaces key is never rewritten.
func (m *Manifest) Document() (*jsondoc.Document, error) {
	doc := jsondoc.New()
	if m.doc != nil {
		doc = m.doc.Clone()
	}

	if m.Name != "" || doc.Has("name") {
		if err := doc.Set("name", m.Name); err != nil {
			return nil, err
		}
	}
	if m.Version != "" || doc.Has("version") {
		if err := doc.Set("version", m.Version); err != nil {
			return nil, err
		}
	}
	for _, kind := range Kinds {
		deps := m.Section(kind)
		if deps == nil {
			continue
		}
		if err := doc.Set(kind.Key(), deps); err != nil {
			return nil, err
		}
	}
	if !doc.Has("workspaces") && len(m.Workspaces) > 0 {
		if err := doc.Set("workspaces", m.Workspaces); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// MarshalJSON implements json.Marshaler.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	doc, err := m.Document()
	if err != nil {
		return nil, err
	}
	return doc.MarshalJSON()
}
