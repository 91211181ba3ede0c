package cmd

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/workspace-tools/src/consolidate"
	"github.com/sofmeright/workspace-tools/src/manifest"
	"github.com/sofmeright/workspace-tools/src/npm"
	"github.com/sofmeright/workspace-tools/src/output"
	"github.com/sofmeright/workspace-tools/src/report"
)

var (
	consWorkspace   string
	consHoistDev    bool
	consStrategy    string
	consPins        []string
	consMaxAttempts int
	consInteractive bool
	consApply       bool
	consOutput      string
)

// newRunner builds the runner used by --apply.
var newRunner = func(stdout, stderr io.Writer) npm.Runner {
	return npm.ExecRunner{Stdout: stdout, Stderr: stderr}
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate",
	Short: "Bring every workspace onto one version per dependency",
	Long: `Find dependencies declared at more than one version across the workspace,
choose one version for each and plan the npm commands that install it.

Planning is dry: nothing is installed unless --apply is given.
Use --output to write the plan as JSON (or YAML for .yml/.yaml).`,
	Args: cobra.NoArgs,
	RunE: runConsolidate,
}

func init() {
	consolidateCmd.Flags().StringVarP(&consWorkspace, "workspace-package", "w", manifest.DefaultFile, "root package.json of the workspace")
	consolidateCmd.Flags().BoolVarP(&consHoistDev, "hoist-dev", "d", false, "move dev dependencies to the root package")
	consolidateCmd.Flags().StringVar(&consStrategy, "strategy", "", "version strategy: "+strings.Join(consolidate.StrategyNames(), ", "))
	consolidateCmd.Flags().StringArrayVar(&consPins, "pin", nil, "pin a dependency version, name=version (repeatable)")
	consolidateCmd.Flags().IntVar(&consMaxAttempts, "max-attempts", 0, "selection attempts per dependency")
	consolidateCmd.Flags().BoolVarP(&consInteractive, "interactive", "I", false, "choose each version on the terminal")
	consolidateCmd.Flags().BoolVar(&consApply, "apply", false, "run the planned commands")
	consolidateCmd.Flags().StringVar(&consOutput, "output", "", "write the plan to this file")

	rootCmd.AddCommand(consolidateCmd)
}

func runConsolidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	color := output.UseColor()
	flags := cmd.Flags()

	opts := consolidate.Options{
		HoistDev:    cfg.Consolidate.HoistDev,
		MaxAttempts: cfg.Consolidate.MaxAttempts,
	}
	if flags.Changed("hoist-dev") {
		opts.HoistDev = consHoistDev
	}
	if flags.Changed("max-attempts") {
		opts.MaxAttempts = consMaxAttempts
	}

	strategy, err := buildStrategy(cmd, color)
	if err != nil {
		return &ExitError{Code: exitUsage, Err: err}
	}
	opts.Strategy = strategy

	output.CIHeader(w)

	// Load
	start := time.Now()
	output.SectionStart(w, "wt_load", "Load")
	ws, err := manifest.LoadWorkspace(ctx, consWorkspace, manifest.LoadOptions{
		ManifestFile: cfg.ManifestFile,
		Concurrency:  cfg.Concurrency,
	})
	output.SectionEnd(w, "wt_load")
	if err != nil {
		return exitErr(err)
	}

	// Resolve
	res, runErr := consolidate.Run(ctx, ws, opts)
	if res == nil {
		return exitErr(runErr)
	}

	sec := output.NewSection(w, "Workspace", time.Since(start), color)
	sec.Row("%-16s%s", "root", consWorkspace)
	sec.Row("%-16s%d", "packages", len(ws.All()))
	sec.Row("%-16s%d", "dependencies", len(res.Dependencies))
	sec.Row("%-16s%d", "in scope", len(res.InScope))
	output.SectionConflicts(sec, conflictRows(res), color)
	if runErr != nil {
		output.RowStatus(sec, "resolve", runErr.Error(), output.StatusFailed, color)
	}
	sec.Close()

	if runErr != nil {
		return exitErr(runErr)
	}

	binary := cfg.Consolidate.NPM

	planSec := output.NewSection(w, "Plan", 0, color)
	if len(res.Plans) == 0 {
		planSec.Row("%s", output.Dimmed("nothing to consolidate", color))
	}
	output.SectionCommands(planSec, "Plan", commandRows(binary, res.Plans), color)

	if consOutput != "" {
		rep := report.New(res, report.Options{
			Root:     consWorkspace,
			HoistDev: opts.HoistDev,
			Applied:  consApply,
			Binary:   binary,
		})
		if err := report.Write(consOutput, rep); err != nil {
			planSec.Close()
			return &ExitError{Code: exitIO, Err: err}
		}
		abs, _ := filepath.Abs(consOutput)
		planSec.Separator()
		planSec.Row("artifact  %s", abs)
	}
	planSec.Close()

	if !consApply || len(res.Plans) == 0 {
		return nil
	}

	return applyPlans(cmd, res.Plans, binary, color)
}

func applyPlans(cmd *cobra.Command, plans []consolidate.InstallPlan, binary string, color bool) error {
	w := cmd.OutOrStdout()
	start := time.Now()

	var ran []output.CommandRow
	output.SectionStartCollapsed(w, "wt_apply", "Apply")
	err := npm.Apply(cmd.Context(), newRunner(w, cmd.ErrOrStderr()), npm.Options{
		Binary: binary,
		Dir:    filepath.Dir(consWorkspace),
		OnCommand: func(index int, command string) {
			fmt.Fprintf(w, "  → %s\n", command)
			ran = append(ran, output.CommandRow{Phase: plans[index-1].Phase.String(), Command: command})
		},
	}, plans)
	output.SectionEnd(w, "wt_apply")

	sec := output.NewSection(w, "Apply", time.Since(start), color)
	output.SectionCommands(sec, "Ran", ran, color)
	if err != nil {
		output.RowStatus(sec, "apply", err.Error(), output.StatusFailed, color)
	} else {
		output.RowStatus(sec, "apply", fmt.Sprintf("%d command(s)", len(ran)), output.StatusSuccess, color)
	}
	sec.Close()

	return exitErr(err)
}

// buildStrategy combines the configured strategy, pins and --interactive.
// Pins win over everything; config pins are overridden by --pin.
func buildStrategy(cmd *cobra.Command, color bool) (consolidate.Strategy, error) {
	name := cfg.Consolidate.Strategy
	if cmd.Flags().Changed("strategy") {
		name = consStrategy
	}

	var base consolidate.Strategy
	if consInteractive {
		base = newPromptStrategy(os.Stdin, cmd.OutOrStdout(), color)
	} else {
		s, err := consolidate.StrategyByName(name)
		if err != nil {
			return nil, err
		}
		base = s
	}

	pins := maps.Clone(cfg.Consolidate.Pins)
	if pins == nil {
		pins = map[string]string{}
	}
	flagPins, err := parsePins(consPins)
	if err != nil {
		return nil, err
	}
	maps.Copy(pins, flagPins)

	if len(pins) == 0 {
		return base, nil
	}
	return consolidate.Pinned(pins, base), nil
}

// parsePins parses name=version pairs. Scoped names such as
// @scope/pkg=1.0.0 split on the last '='.
func parsePins(values []string) (map[string]string, error) {
	pins := make(map[string]string, len(values))
	for _, v := range values {
		i := strings.LastIndex(v, "=")
		if i <= 0 || i == len(v)-1 {
			return nil, fmt.Errorf("invalid --pin %q: expected name=version", v)
		}
		pins[strings.TrimSpace(v[:i])] = strings.TrimSpace(v[i+1:])
	}
	return pins, nil
}

func conflictRows(res *consolidate.Result) []output.ConflictRow {
	chosen := make(map[string]string, len(res.Resolved))
	for _, r := range res.Resolved {
		chosen[r.Name] = r.Version
	}

	rows := make([]output.ConflictRow, 0, len(res.InScope))
	for _, dep := range res.InScope {
		row := output.ConflictRow{Name: dep.Name, Chosen: chosen[dep.Name]}
		for _, v := range consolidate.SortCandidates(dep.Versions) {
			row.Candidates = append(row.Candidates, output.CandidateRow{Version: v.Version, Usages: len(v.Usages)})
		}
		rows = append(rows, row)
	}
	return rows
}

func commandRows(binary string, plans []consolidate.InstallPlan) []output.CommandRow {
	rows := make([]output.CommandRow, len(plans))
	for i, p := range plans {
		rows[i] = output.CommandRow{Phase: p.Phase.String(), Command: npm.CommandLine(binary, p)}
	}
	return rows
}
