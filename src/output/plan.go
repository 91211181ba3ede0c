package output

import (
	"fmt"
	"strings"
)

// MaxChanges caps the rows SectionChanges prints before summarizing.
const MaxChanges = 40

// CandidateRow is the view model for one candidate version of a conflict.
type CandidateRow struct {
	Version string
	Usages  int
}

// ConflictRow is the view model for one dependency declared at several versions.
type ConflictRow struct {
	Name       string
	Candidates []CandidateRow // in display order
	Chosen     string         // empty when no version was selected
}

// CommandRow is the view model for one planned package manager command.
type CommandRow struct {
	Phase   string
	Command string
}

// ChangeRow is the view model for one rewritten manifest field.
type ChangeRow struct {
	Package    string
	Kind       string // empty for the package's own version
	Dependency string
	From       string
	To         string
}

// SectionConflicts renders the "Conflicts (N)" block with the chosen version marked.
func SectionConflicts(sec *Section, rows []ConflictRow, color bool) {
	if len(rows) == 0 {
		return
	}

	sec.Row("")
	sec.Row("%s", bold(color, fmt.Sprintf("Conflicts (%d)", len(rows))))

	for _, r := range rows {
		sec.Row("  %s", r.Name)
		for _, c := range r.Candidates {
			mark := " "
			if c.Version == r.Chosen {
				mark = StatusIcon(StatusSuccess, color)
			}
			sec.Row("    %s %-24s %s", mark, c.Version, Dimmed(usageLabel(c.Usages), color))
		}
	}

	sec.Row("")
}

// SectionCommands renders the "Plan (N)" or "Applied (N)" block, one command per row.
func SectionCommands(sec *Section, header string, rows []CommandRow, color bool) {
	if len(rows) == 0 {
		return
	}

	sec.Row("")
	sec.Row("%s", bold(color, fmt.Sprintf("%s (%d)", header, len(rows))))

	for i, r := range rows {
		sec.Row("  %2d  %-10s %s", i+1, Dimmed(r.Phase, color), r.Command)
	}

	sec.Row("")
}

// SectionChanges renders the "Updated (N)" block grouped by package
// (truncates at MaxChanges).
func SectionChanges(sec *Section, header string, rows []ChangeRow, color bool) {
	if len(rows) == 0 {
		return
	}

	sec.Row("")
	sec.Row("%s", bold(color, fmt.Sprintf("%s (%d)", header, len(rows))))

	show := len(rows)
	if show > MaxChanges {
		show = MaxChanges
	}

	last := ""
	for i := 0; i < show; i++ {
		r := rows[i]
		if r.Package != last {
			sec.Row("  %s", r.Package)
			last = r.Package
		}

		what := "version"
		if r.Dependency != "" {
			what = KindTag(r.Kind, color) + " " + r.Dependency
		}
		sec.Row("    %s  %s → %s", what, strings.TrimSpace(r.From), strings.TrimSpace(r.To))
	}

	if len(rows) > MaxChanges {
		sec.Row("%s", Dimmed(fmt.Sprintf("  … and %d more", len(rows)-MaxChanges), color))
	}

	sec.Row("")
}

func usageLabel(n int) string {
	if n == 1 {
		return "1 usage"
	}
	return fmt.Sprintf("%d usages", n)
}
