package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/workspace-tools/src/manifest"
	"github.com/sofmeright/workspace-tools/src/output"
)

var (
	wvWorkspace   string
	wvIndependent bool
	wvIndent      int
)

var workspaceVersionCmd = &cobra.Command{
	Use:   "workspace-version",
	Short: "Sync package versions and sibling dependency ranges",
	Long: `Set every workspace package to the root version (unless --independent),
check that package names are unique, then point every dependency on a
sibling package at that sibling's version. ^ and ~ prefixes are kept.`,
	Args: cobra.NoArgs,
	RunE: runWorkspaceVersion,
}

func init() {
	workspaceVersionCmd.Flags().StringVarP(&wvWorkspace, "workspace-package", "w", manifest.DefaultFile, "root package.json of the workspace")
	workspaceVersionCmd.Flags().BoolVarP(&wvIndependent, "independent", "i", false, "leave package versions alone, only update sibling ranges")
	workspaceVersionCmd.Flags().IntVarP(&wvIndent, "json-indent", "j", 0, "spaces to indent written files by (default from config)")

	rootCmd.AddCommand(workspaceVersionCmd)
}

func runWorkspaceVersion(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	color := output.UseColor()

	independent := cfg.Version.Independent
	if cmd.Flags().Changed("independent") {
		independent = wvIndependent
	}
	indent := cfg.JSONIndent
	if cmd.Flags().Changed("json-indent") {
		indent = wvIndent
	}
	if indent < 0 {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--json-indent: must be >= 0, got %d", indent)}
	}

	start := time.Now()
	ws, err := manifest.LoadWorkspace(ctx, wvWorkspace, manifest.LoadOptions{
		ManifestFile: cfg.ManifestFile,
		Concurrency:  cfg.Concurrency,
	})
	if err != nil {
		return exitErr(err)
	}

	entries := ws.All()
	pkgs := make([]*manifest.Manifest, len(entries))
	for i, e := range entries {
		pkgs[i] = e.Manifest
	}

	var changes []manifest.Change
	if !independent {
		children, aligned := manifest.AlignVersions(pkgs[0], pkgs[1:])
		pkgs = append(pkgs[:1:1], children...)
		changes = append(changes, aligned...)
	}

	if err := manifest.VerifyUnique(entries); err != nil {
		return exitErr(err)
	}

	pkgs, siblings := manifest.UpdateSiblingVersions(pkgs)
	changes = append(changes, siblings...)

	updated := make([]*manifest.Entry, len(entries))
	for i, e := range entries {
		updated[i] = &manifest.Entry{ManifestPath: e.ManifestPath, WorkspacePath: e.WorkspacePath, Manifest: pkgs[i]}
	}
	saveErr := manifest.SaveAll(ctx, updated, indent, cfg.Concurrency)

	sec := output.NewSection(w, "Versions", time.Since(start), color)
	sec.Row("%-16s%s", "root", ws.Root.Manifest.Version)
	sec.Row("%-16s%d", "packages", len(entries))
	if independent {
		sec.Row("%-16s%s", "mode", "independent")
	}
	output.SectionChanges(sec, "Updated", changeRows(changes), color)
	if len(changes) == 0 {
		sec.Row("%s", output.Dimmed("already in sync", color))
	}
	if saveErr != nil {
		output.RowStatus(sec, "save", saveErr.Error(), output.StatusFailed, color)
	} else {
		output.RowStatus(sec, "save", "", output.StatusSuccess, color)
	}
	sec.Close()

	return exitErr(saveErr)
}

func changeRows(changes []manifest.Change) []output.ChangeRow {
	rows := make([]output.ChangeRow, len(changes))
	for i, c := range changes {
		rows[i] = output.ChangeRow{
			Package:    c.Package,
			Kind:       string(c.Kind),
			Dependency: c.Dependency,
			From:       c.From,
			To:         c.To,
		}
	}
	return rows
}
