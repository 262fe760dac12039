package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/drape-io/confmod/internal/command"
	"github.com/fatih/color"
)

// Format represents the output format.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatQuiet  Format = "quiet"
	FormatJSON   Format = "json"
)

// ParseFormat returns the format named s, defaulting to pretty.
func ParseFormat(s string) Format {
	switch Format(s) {
	case FormatJSON:
		return FormatJSON
	case FormatQuiet:
		return FormatQuiet
	case FormatPretty:
		return FormatPretty
	}
	return FormatPretty
}

// Print prints the report to stdout in the specified format.
func Print(report *command.Report, format Format) {
	Fprint(os.Stdout, report, format)
}

// Fprint prints the report to w in the specified format.
func Fprint(w io.Writer, report *command.Report, format Format) {
	switch format {
	case FormatJSON:
		printJSON(w, report)
	case FormatQuiet:
		printQuiet(w, report)
	case FormatPretty:
		printPretty(w, report)
	default:
		printPretty(w, report)
	}
}

// printPretty prints the report in a pretty colored format.
func printPretty(w io.Writer, report *command.Report) {
	if report.Command == "list" {
		for _, e := range report.Entries {
			fmt.Fprintln(w, e.Name)
		}
		return
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()

	if report.DryRun {
		fmt.Fprintf(w, "%s %s\n\n", yellow("Dry run:"), report.Command)
	}

	for _, e := range report.Entries {
		switch e.Status {
		case command.StatusRenamed:
			fmt.Fprintf(w, "%s %s -> %s\n", green("✅"), e.From, cyan(e.To))
		case command.StatusUpdated:
			fmt.Fprintf(w, "%s %s\n", green("✅"), e.Name)
		case command.StatusExported, command.StatusMoved:
			fmt.Fprintf(w, "%s %s\n", green("✅"), e.Name)
			fmt.Fprintf(w, "   -> %s\n", cyan(e.To))
		case command.StatusUnchanged:
			fmt.Fprintf(w, "   %s (unchanged)\n", e.Name)
		case command.StatusSkipped:
			fmt.Fprintf(w, "%s %s (skipped)\n", yellow("⚠️ "), e.Name)
		case command.StatusFailed:
			fmt.Fprintf(w, "%s %s\n", red("❌"), e.Name)
		case command.StatusListed:
			fmt.Fprintln(w, e.Name)
		}

		if e.Detail != "" {
			fmt.Fprintf(w, "   %s\n", e.Detail)
		}
		if e.Error != nil {
			fmt.Fprintf(w, "   %s %s\n", red("Error:"), e.Error)
		}
	}

	if len(report.Entries) > 0 {
		fmt.Fprintln(w)
	}

	changed := report.Pending()
	fmt.Fprintf(w, "Summary: %s changed", green(strconv.Itoa(changed)))
	if n := report.Count(command.StatusUnchanged); n > 0 {
		fmt.Fprintf(w, ", %s unchanged", strconv.Itoa(n))
	}
	if n := report.Count(command.StatusSkipped); n > 0 {
		fmt.Fprintf(w, ", %s skipped", yellow(strconv.Itoa(n)))
	}
	if n := report.Count(command.StatusFailed); n > 0 {
		fmt.Fprintf(w, ", %s failed", red(strconv.Itoa(n)))
	}
	if report.Aborted {
		fmt.Fprintf(w, " (%s)", yellow("aborted, nothing written"))
	}
	fmt.Fprintln(w)
}

// printQuiet prints only skipped and failed entries in a compact format.
func printQuiet(w io.Writer, report *command.Report) {
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	for _, e := range report.Entries {
		switch e.Status {
		case command.StatusSkipped:
			fmt.Fprintf(w, "%s %s (skipped)\n", yellow("⚠️ "), e.Name)
		case command.StatusFailed:
			fmt.Fprintf(w, "%s %s\n", red("❌"), e.Name)
		case command.StatusListed, command.StatusRenamed, command.StatusUpdated,
			command.StatusUnchanged, command.StatusExported, command.StatusMoved:
			continue
		}

		if e.Detail != "" {
			fmt.Fprintf(w, "   %s\n", e.Detail)
		}
		if e.Error != nil {
			fmt.Fprintf(w, "   %s %s\n", red("Error:"), e.Error)
		}
	}
}

// printJSON prints the report in JSON format.
func printJSON(w io.Writer, report *command.Report) {
	type JSONEntry struct {
		Name   string `json:"name"`
		Status string `json:"status"`
		From   string `json:"from,omitempty"`
		To     string `json:"to,omitempty"`
		Detail string `json:"detail,omitempty"`
		Error  string `json:"error,omitempty"`
	}

	type JSONOutput struct {
		Command string      `json:"command"`
		DryRun  bool        `json:"dryRun"`
		Aborted bool        `json:"aborted"`
		Entries []JSONEntry `json:"entries"`
		Summary struct {
			Total     int `json:"total"`
			Changed   int `json:"changed"`
			Unchanged int `json:"unchanged"`
			Skipped   int `json:"skipped"`
			Failed    int `json:"failed"`
		} `json:"summary"`
	}

	output := JSONOutput{
		Command: report.Command,
		DryRun:  report.DryRun,
		Aborted: report.Aborted,
		Entries: make([]JSONEntry, 0, len(report.Entries)),
	}

	for _, e := range report.Entries {
		entry := JSONEntry{
			Name:   e.Name,
			Status: string(e.Status),
			From:   e.From,
			To:     e.To,
			Detail: e.Detail,
		}
		if e.Error != nil {
			entry.Error = e.Error.Error()
		}
		output.Entries = append(output.Entries, entry)
	}

	output.Summary.Total = len(report.Entries)
	output.Summary.Changed = report.Pending()
	output.Summary.Unchanged = report.Count(command.StatusUnchanged)
	output.Summary.Skipped = report.Count(command.StatusSkipped)
	output.Summary.Failed = report.Count(command.StatusFailed)

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(output); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
	}
}

// ShouldExitWithError determines if confmod should exit with error code 1.
func ShouldExitWithError(report *command.Report) bool {
	return report.Count(command.StatusFailed) > 0
}
