package report

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultReportFile is the report filename written into the
	// installation root after every run.
	DefaultReportFile = "TEST_REPORT.md"

	// DefaultManualDoc is the conventional manual-testing document the
	// report is appended to when it exists.
	DefaultManualDoc = "MANUAL_TESTING.md"
)

// Writer persists rendered reports into the installation root.
type Writer struct {
	root       string
	reportFile string
	manualDoc  string
}

// NewWriter creates a writer for the given installation root. Empty
// filenames fall back to the conventional defaults.
func NewWriter(root, reportFile, manualDoc string) *Writer {
	if reportFile == "" {
		reportFile = DefaultReportFile
	}
	if manualDoc == "" {
		manualDoc = DefaultManualDoc
	}
	return &Writer{root: root, reportFile: reportFile, manualDoc: manualDoc}
}

// Write renders the report, replaces the report file, and appends to
// the manual-testing document when one exists. The manual doc is only
// ever appended to, never truncated.
func (w *Writer) Write(r *Report) (string, error) {
	rendered := Render(r)

	path := filepath.Join(w.root, w.reportFile)
	if err := os.WriteFile(path, []byte(rendered), 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	if err := w.appendManual(rendered); err != nil {
		return path, err
	}
	return path, nil
}

func (w *Writer) appendManual(rendered string) error {
	path := filepath.Join(w.root, w.manualDoc)
	if _, err := os.Stat(path); err != nil {
		// No manual doc, nothing to append to.
		return nil
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open manual testing doc: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n---\n\n%s", rendered); err != nil {
		return fmt.Errorf("failed to append to manual testing doc: %w", err)
	}
	return nil
}
