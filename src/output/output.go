package output

import (
	"fmt"
	"os"
)

// Colors for terminal output.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// UseColor returns true if colored output should be used.
// Respects NO_COLOR env, TERM=dumb, and terminal detection.
func UseColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTerminal() || IsCI()
}

// RowStatus writes a row with label, detail, and a status icon.
func RowStatus(sec *Section, label, detail, status string, color bool) {
	icon := StatusIcon(status, color)
	if detail != "" {
		sec.Row("%-16s%s %s", label, detail, icon)
	} else {
		sec.Row("%-16s%s", label, icon)
	}
}

// KindTag returns a short dependency-kind label, optionally colored.
func KindTag(kind string, color bool) string {
	switch kind {
	case "dev":
		return colorize(color, "dev ", colorYellow)
	case "peer":
		return colorize(color, "peer", colorCyan)
	case "", "prod":
		return colorize(color, "prod", colorGreen)
	default:
		return fmt.Sprintf("%-4s", kind)
	}
}

func bold(color bool, s string) string {
	return colorize(color, s, colorBold)
}

func colorize(color bool, text, code string) string {
	if !color {
		return text
	}
	return code + text + colorReset
}
