package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/drape-io/confmod/internal/command"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func sampleReport() *command.Report {
	return &command.Report{
		Command: "move-module-config",
		Entries: []command.Entry{
			{
				Name:   "node.type.page",
				Status: command.StatusMoved,
				From:   "/sync/node.type.page.yml",
				To:     "/mod/config/install/node.type.page.yml",
			},
			{
				Name:   "node.type.article",
				Status: command.StatusSkipped,
				Detail: "source file '/sync/node.type.article.yml' does not exist",
			},
		},
	}
}

func TestFprint(t *testing.T) {
	t.Run("pretty format", func(t *testing.T) {
		var buf bytes.Buffer
		Fprint(&buf, sampleReport(), FormatPretty)
		output := buf.String()

		if !strings.Contains(output, "node.type.page") {
			t.Error("expected output to contain 'node.type.page'")
		}
		if !strings.Contains(output, "(skipped)") {
			t.Error("expected output to mark the skipped entry")
		}
		if !strings.Contains(output, "Summary: 1 changed, 1 skipped") {
			t.Errorf("unexpected summary in:\n%s", output)
		}
	})

	t.Run("pretty list prints bare names", func(t *testing.T) {
		report := &command.Report{
			Command: "list",
			Entries: []command.Entry{
				{Name: "a.b", Status: command.StatusListed},
				{Name: "c.d", Status: command.StatusListed},
			},
		}
		var buf bytes.Buffer
		Fprint(&buf, report, FormatPretty)

		if buf.String() != "a.b\nc.d\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("pretty dry run and abort", func(t *testing.T) {
		report := sampleReport()
		report.DryRun = true
		report.Aborted = true
		var buf bytes.Buffer
		Fprint(&buf, report, FormatPretty)
		output := buf.String()

		if !strings.HasPrefix(output, "Dry run: move-module-config") {
			t.Errorf("expected dry run header, got:\n%s", output)
		}
		if !strings.Contains(output, "aborted") {
			t.Error("expected abort note")
		}
	})

	t.Run("quiet format shows only problems", func(t *testing.T) {
		var buf bytes.Buffer
		Fprint(&buf, sampleReport(), FormatQuiet)
		output := buf.String()

		if strings.Contains(output, "node.type.page") {
			t.Error("expected quiet output to hide moved entries")
		}
		if !strings.Contains(output, "node.type.article") {
			t.Error("expected quiet output to show skipped entries")
		}
	})

	t.Run("json format", func(t *testing.T) {
		report := sampleReport()
		report.Entries = append(report.Entries, command.Entry{
			Name:   "system.site",
			Status: command.StatusFailed,
			Error:  errors.New("disk full"),
		})

		var buf bytes.Buffer
		Fprint(&buf, report, FormatJSON)

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["command"] != "move-module-config" {
			t.Errorf("unexpected command %v", result["command"])
		}
		entries, ok := result["entries"].([]any)
		if !ok || len(entries) != 3 {
			t.Fatalf("expected 3 entries, got %v", result["entries"])
		}
		last := entries[2].(map[string]any)
		if last["error"] != "disk full" {
			t.Errorf("expected error to be encoded, got %v", last["error"])
		}

		summary := result["summary"].(map[string]any)
		if summary["total"] != float64(3) || summary["changed"] != float64(1) || summary["failed"] != float64(1) {
			t.Errorf("unexpected summary %v", summary)
		}
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"quiet", FormatQuiet},
		{"pretty", FormatPretty},
		{"", FormatPretty},
		{"xml", FormatPretty},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestShouldExitWithError(t *testing.T) {
	if ShouldExitWithError(sampleReport()) {
		t.Error("expected skipped entries not to fail the run")
	}

	failed := &command.Report{Entries: []command.Entry{{Name: "x", Status: command.StatusFailed}}}
	if !ShouldExitWithError(failed) {
		t.Error("expected failed entries to fail the run")
	}
}
