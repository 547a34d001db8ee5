package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"spendwise/internal/aggregate"
)

// DefaultFileName is where the report lands when no path is configured.
const DefaultFileName = "financial_summary.json"

// JSONFile writes the report as indented JSON. The file is replaced
// atomically so readers never observe a partial document.
type JSONFile struct {
	Path string
}

func NewJSONFile(path string) *JSONFile {
	if path == "" {
		path = DefaultFileName
	}
	return &JSONFile{Path: path}
}

func (f *JSONFile) Name() string { return "file" }

func (f *JSONFile) Write(ctx context.Context, report aggregate.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.Path); err != nil {
		return fmt.Errorf("replace %s: %w", f.Path, err)
	}
	return nil
}
