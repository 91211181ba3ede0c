package consolidate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sofmeright/workspace-tools/src/manifest"
)

func TestPlanGroupsIdenticalTargetSets(t *testing.T) {
	root := rootEntry("packages/a", "packages/b", "packages/c")
	a := childEntry("packages/a", "a")
	b := childEntry("packages/b", "b")
	c := childEntry("packages/c", "c")

	resolved := []Resolved{
		{Name: "lodash", Version: "4.17.21", Usages: []Usage{{Entry: b, Kind: manifest.KindProd}, {Entry: a, Kind: manifest.KindProd}}},
		{Name: "react", Version: "18.2.0", Usages: []Usage{{Entry: c, Kind: manifest.KindProd}}},
		{Name: "zod", Version: "3.22.0", Usages: []Usage{{Entry: a, Kind: manifest.KindPeer}, {Entry: b, Kind: manifest.KindProd}}},
		{Name: "lodash-es", Version: "4.17.21", Usages: []Usage{{Entry: a, Kind: manifest.KindProd}, {Entry: a, Kind: manifest.KindPeer}}},
	}

	plans := Plan(resolved, false, root.Manifest)

	assert.Equal(t, []InstallPlan{
		{Phase: PhaseWorkspace, Scope: WorkspaceScope("packages/a", "packages/b"), Dependencies: []string{"lodash@4.17.21", "zod@3.22.0"}},
		{Phase: PhaseWorkspace, Scope: WorkspaceScope("packages/c"), Dependencies: []string{"react@18.2.0"}},
		{Phase: PhaseWorkspace, Scope: WorkspaceScope("packages/a"), Dependencies: []string{"lodash-es@4.17.21"}},
	}, plans)
}

func TestPlanUsesAllScopeForEveryMember(t *testing.T) {
	root := rootEntry("packages/b", "packages/a")
	a := childEntry("packages/a", "a")
	b := childEntry("packages/b", "b")

	resolved := []Resolved{{Name: "lodash", Version: "4.17.0", Usages: []Usage{{Entry: a}, {Entry: b}}}}

	plans := Plan(resolved, false, root.Manifest)
	assert.Equal(t, []InstallPlan{{Phase: PhaseWorkspace, Scope: AllScope(), Dependencies: []string{"lodash@4.17.0"}}}, plans)

	plans = Plan(resolved, false, nil)
	assert.Equal(t, WorkspaceScope("packages/a", "packages/b"), plans[0].Scope)
}

func TestPlanRootDeclarations(t *testing.T) {
	root := rootEntry("packages/a")
	a := childEntry("packages/a", "a")

	resolved := []Resolved{
		{Name: "typescript", Version: "5.4.0", Usages: []Usage{{Entry: root, Kind: manifest.KindDev}, {Entry: root, Kind: manifest.KindPeer}}},
		{Name: "lodash", Version: "4.17.0", Usages: []Usage{{Entry: root, Kind: manifest.KindProd}, {Entry: a, Kind: manifest.KindProd}}},
	}

	plans := Plan(resolved, false, root.Manifest)

	assert.Equal(t, []InstallPlan{
		{Phase: PhaseRoot, Scope: RootScope(), Dependencies: []string{"typescript@5.4.0", "lodash@4.17.0"}},
		{Phase: PhaseWorkspace, Scope: AllScope(), Dependencies: []string{"lodash@4.17.0"}},
	}, plans)
}

func TestPlanHoistsDevDependencies(t *testing.T) {
	root := rootEntry("packages/a", "packages/b")
	a := childEntry("packages/a", "a")
	b := childEntry("packages/b", "b")

	resolved := []Resolved{
		{Name: "jest", Version: "29.0.0", Usages: []Usage{{Entry: a, Kind: manifest.KindDev}, {Entry: b, Kind: manifest.KindDev}}},
		{Name: "zod", Version: "3.0.0", Usages: []Usage{{Entry: a, Kind: manifest.KindDev}, {Entry: b, Kind: manifest.KindProd}}},
	}

	plans := Plan(resolved, true, root.Manifest)

	assert.Equal(t, []InstallPlan{
		{Phase: PhaseHoist, Scope: RootScope(), Kind: manifest.KindDev, Dependencies: []string{"jest@29.0.0", "zod@3.0.0"}},
		{Phase: PhaseHoist, Scope: AllScope(), Uninstall: true, Dependencies: []string{"jest", "zod"}},
		{Phase: PhaseWorkspace, Scope: WorkspaceScope("packages/b"), Dependencies: []string{"zod@3.0.0"}},
	}, plans)
	assert.NoError(t, ValidateOrder(plans))

	// without hoisting dev usages are reinstalled where they are declared
	plans = Plan(resolved, false, root.Manifest)
	assert.Equal(t, []InstallPlan{
		{Phase: PhaseWorkspace, Scope: AllScope(), Dependencies: []string{"jest@29.0.0", "zod@3.0.0"}},
	}, plans)
}

func TestValidateOrder(t *testing.T) {
	install := InstallPlan{Phase: PhaseHoist, Kind: manifest.KindDev}
	uninstall := InstallPlan{Phase: PhaseHoist, Scope: AllScope(), Uninstall: true}
	root := InstallPlan{Phase: PhaseRoot}
	ws := InstallPlan{Phase: PhaseWorkspace}

	assert.NoError(t, ValidateOrder(nil))
	assert.NoError(t, ValidateOrder([]InstallPlan{root, install, uninstall, ws}))
	assert.Error(t, ValidateOrder([]InstallPlan{ws, root}))
	assert.Error(t, ValidateOrder([]InstallPlan{uninstall, install}))
	assert.Error(t, ValidateOrder([]InstallPlan{install, ws, uninstall}))
}

func TestScopeString(t *testing.T) {
	assert.Equal(t, "root", RootScope().String())
	assert.Equal(t, "all", AllScope().String())
	assert.Equal(t, "packages/a,packages/b", WorkspaceScope("packages/a", "packages/b").String())
	assert.True(t, RootScope().IsRoot())
	assert.False(t, AllScope().IsRoot())
}
