package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReadsSectionsInOrder(t *testing.T) {
	m, err := Parse([]byte(`{
		"name": "a",
		"version": "1.0.0",
		"dependencies": {"zod": "^3.0.0", "lodash": "^4.17.0"},
		"devDependencies": {"jest": "29.0.0", "gone": null},
		"scripts": {"test": "jest"}
	}`))
	require.NoError(t, err)

	assert.Equal(t, "a", m.Name)
	assert.Equal(t, "1.0.0", m.Version)
	assert.Equal(t, []string{"zod", "lodash"}, m.Dependencies.Names())
	assert.Equal(t, []string{"jest"}, m.DevDependencies.Names())
	assert.Nil(t, m.PeerDependencies)
	assert.Equal(t, 0, m.PeerDependencies.Len())
}

func TestParseWorkspacesForms(t *testing.T) {
	m, err := Parse([]byte(`{"name":"root","workspaces":["packages/a","packages/b"]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/a", "packages/b"}, m.Workspaces)

	m, err = Parse([]byte(`{"name":"root","workspaces":{"packages":["packages/a"],"nohoist":["x"]}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"packages/a"}, m.Workspaces)

	_, err = Parse([]byte(`{"name":"root","workspaces":"packages/*"}`))
	assert.Error(t, err)
}

func TestParseRejectsMalformedManifests(t *testing.T) {
	cases := map[string]string{
		"not an object":  `[]`,
		"numeric name":   `{"name":1}`,
		"array section":  `{"name":"a","dependencies":["x"]}`,
		"numeric range":  `{"name":"a","dependencies":{"x":1}}`,
		"truncated json": `{"name":"a"`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}

func TestParseAcceptsNamelessPrivateRoot(t *testing.T) {
	m, err := Parse([]byte(`{"private":true,"workspaces":["packages/a"]}`))
	require.NoError(t, err)
	assert.Empty(t, m.Name)
	assert.Equal(t, []string{"packages/a"}, m.Workspaces)

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"private":true,"workspaces":["packages/a"]}`, string(out))
}

func TestDocumentPreservesUnknownKeys(t *testing.T) {
	m, err := Parse([]byte(`{"name":"a","private":true,"version":"1.0.0","dependencies":{"b":"^1.0.0"},"license":"MIT"}`))
	require.NoError(t, err)

	m.Version = "2.0.0"
	m.Dependencies.Set("b", "^2.0.0")
	m.DevDependencies = NewDependencies("jest", "29.0.0")

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"name":"a","private":true,"version":"2.0.0","dependencies":{"b":"^2.0.0"},"license":"MIT","devDependencies":{"jest":"29.0.0"}}`,
		string(out))
}

func TestCloneDoesNotAlias(t *testing.T) {
	m, err := Parse([]byte(`{"name":"a","version":"1.0.0","dependencies":{"b":"1.0.0"}}`))
	require.NoError(t, err)

	c := m.Clone()
	c.Dependencies.Set("b", "2.0.0")
	c.Version = "2.0.0"

	got, _ := m.Dependencies.Get("b")
	assert.Equal(t, "1.0.0", got)
	assert.Equal(t, "1.0.0", m.Version)
}

func TestVerifyUnique(t *testing.T) {
	entries := []*Entry{
		{ManifestPath: "package.json", Manifest: &Manifest{Name: "root"}},
		{ManifestPath: "packages/a/package.json", WorkspacePath: "packages/a", Manifest: &Manifest{Name: "a"}},
		{ManifestPath: "packages/b/package.json", WorkspacePath: "packages/b", Manifest: &Manifest{Name: "a"}},
	}

	err := VerifyUnique(entries)
	require.Error(t, err)

	var dup *DuplicateNameError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "a", dup.Name)
	assert.Equal(t, "packages/a/package.json", dup.FirstPath)
	assert.Equal(t, "packages/b/package.json", dup.DuplicatePath)
	assert.Contains(t, err.Error(), "packages/a/package.json")
	assert.Contains(t, err.Error(), "packages/b/package.json")

	assert.NoError(t, VerifyUnique(entries[:2]))

	nameless := []*Entry{
		{ManifestPath: "package.json", Manifest: &Manifest{}},
		{ManifestPath: "other/package.json", Manifest: &Manifest{}},
		{ManifestPath: "packages/a/package.json", WorkspacePath: "packages/a", Manifest: &Manifest{Name: "a"}},
	}
	assert.NoError(t, VerifyUnique(nameless))
}
