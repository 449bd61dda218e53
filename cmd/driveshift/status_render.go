package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"driveshift/internal/plan"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

// renderStatusLine formats one doctor check result, colorized by outcome when
// the output is a terminal.
func renderStatusLine(label, name, message string, colorize bool) string {
	line := fmt.Sprintf("  %-12s [%s] %s", name+":", label, message)
	if !colorize {
		return line
	}
	switch label {
	case "OK":
		return ansiGreen + line + ansiReset
	case "WARN":
		return ansiYellow + line + ansiReset
	case "ERROR":
		return ansiRed + line + ansiReset
	default:
		return line
	}
}

// renderFinding formats one validation finding, colorized by severity when the
// output is a terminal.
func renderFinding(f plan.Finding, colorize bool) string {
	line := fmt.Sprintf("  %s", f.String())
	if !colorize {
		return line
	}
	switch f.Severity {
	case plan.SeverityError:
		return ansiRed + line + ansiReset
	case plan.SeverityWarning:
		return ansiYellow + line + ansiReset
	default:
		return line
	}
}

func printFindings(out io.Writer, findings []plan.Finding) {
	colorize := shouldColorize(out)
	for _, f := range findings {
		fmt.Fprintln(out, renderFinding(f, colorize))
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
