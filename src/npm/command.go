// Package npm turns install plans into npm invocations and runs them.
package npm

import (
	"strings"

	"github.com/sofmeright/workspace-tools/src/consolidate"
	"github.com/sofmeright/workspace-tools/src/manifest"
)

// DefaultBinary is the package manager executable.
const DefaultBinary = "npm"

// Args returns the npm arguments for a plan, without the binary.
func Args(plan consolidate.InstallPlan) []string {
	args := []string{"install"}
	if plan.Uninstall {
		args[0] = "uninstall"
	}

	switch plan.Kind {
	case manifest.KindDev:
		args = append(args, "-D")
	case manifest.KindPeer:
		args = append(args, "--save-peer")
	case manifest.KindProd:
		args = append(args, "-P")
	}

	switch {
	case plan.Scope.All:
		args = append(args, "--workspaces")
	case !plan.Scope.IsRoot():
		for _, ws := range plan.Scope.Workspaces {
			args = append(args, "-w", ws)
		}
	}

	return append(args, plan.Dependencies...)
}

// CommandLine renders the plan as a shell command for display.
func CommandLine(binary string, plan consolidate.InstallPlan) string {
	if binary == "" {
		binary = DefaultBinary
	}
	parts := append([]string{binary}, Args(plan)...)
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'<>|&;$`*?()[]{}\\") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
