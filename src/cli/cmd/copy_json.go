package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sofmeright/workspace-tools/src/jsoncopy"
	"github.com/sofmeright/workspace-tools/src/output"
)

var (
	cjSource  string
	cjTargets []string
	cjKeys    []string
	cjIndent  int
)

var copyJSONCmd = &cobra.Command{
	Use:   "copy-json [source]",
	Short: "Copy top-level keys from one JSON file to others",
	Long: `Copy the given top-level keys from the source JSON file into every target.
Keys the source lacks are removed from the targets. Targets that don't
exist are created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCopyJSON,
}

func init() {
	copyJSONCmd.Flags().StringVarP(&cjSource, "source-file", "s", jsoncopy.DefaultSource, "the JSON file to copy from")
	copyJSONCmd.Flags().StringArrayVarP(&cjTargets, "target-file", "t", nil, "a JSON file to copy to (repeatable)")
	copyJSONCmd.Flags().StringSliceVarP(&cjKeys, "keys", "k", nil, "keys to copy, e.g. version,name,dependencies")
	copyJSONCmd.Flags().IntVarP(&cjIndent, "json-indent", "i", 0, "spaces to indent written files by (default from config)")

	rootCmd.AddCommand(copyJSONCmd)
}

func runCopyJSON(cmd *cobra.Command, args []string) error {
	source := cjSource
	if len(args) > 0 {
		source = args[0]
	}
	if len(cjTargets) == 0 {
		return &ExitError{Code: exitUsage, Err: errors.New("at least one --target-file is required")}
	}
	if len(cjKeys) == 0 {
		return &ExitError{Code: exitUsage, Err: errors.New("at least one --keys entry is required")}
	}

	indent := cfg.JSONIndent
	if cmd.Flags().Changed("json-indent") {
		indent = cjIndent
	}
	if indent < 0 {
		return &ExitError{Code: exitUsage, Err: fmt.Errorf("--json-indent: must be >= 0, got %d", indent)}
	}

	start := time.Now()
	results, err := jsoncopy.CopyKeys(source, cjTargets, cjKeys, indent)

	color := output.UseColor()
	sec := output.NewSection(cmd.OutOrStdout(), "Copy", time.Since(start), color)
	sec.Row("%-16s%s", "source", source)
	sec.Row("%-16s%s", "keys", strings.Join(cjKeys, ", "))
	for _, r := range results {
		detail := fmt.Sprintf("%d copied", len(r.Copied))
		if len(r.Removed) > 0 {
			detail += fmt.Sprintf(", %d removed", len(r.Removed))
		}
		if r.Created {
			detail += ", created"
		}
		output.RowStatus(sec, r.Path, detail, output.StatusSuccess, color)
	}
	if err != nil {
		output.RowStatus(sec, "copy", err.Error(), output.StatusFailed, color)
	}
	sec.Close()

	if err != nil {
		return &ExitError{Code: exitIO, Err: err}
	}
	return nil
}
