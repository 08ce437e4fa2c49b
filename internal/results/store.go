// Package results persists resolution outcomes to disk: single-run
// result files and aggregate batch reports.
//
// Design principles:
//   - SRP: this package only serializes and writes results. It knows
//     nothing about how a resolution was produced.
//   - DIP: callers depend on the Store interface, not on FileStore.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/HendryAvila/spt-forge/internal/engine"
)

const (
	// ReportFile is the default filename for batch reports.
	ReportFile = "policy_test_results.json"
	// resultFilePrefix prefixes single-run result filenames.
	resultFilePrefix = "policy_result_"
)

// Store defines the persistence interface for resolution results.
// Abstracted for testability (DIP).
type Store interface {
	SaveResult(dir string, result *engine.ResolutionResult) (string, error)
	WriteReport(path string, results []*engine.ResolutionResult) error
}

// FileStore implements Store using the local filesystem.
type FileStore struct {
	// now is injectable so tests can pin timestamps.
	now func() time.Time
}

// NewFileStore creates a filesystem-backed result store.
func NewFileStore() *FileStore {
	return &FileStore{now: time.Now}
}

// Report is the aggregate shape written for a batch run.
type Report struct {
	TestRun ReportMeta                 `json:"test_run"`
	Results []*engine.ResolutionResult `json:"results"`
}

// ReportMeta describes when a batch ran and how large it was.
type ReportMeta struct {
	Timestamp       string `json:"timestamp"`
	TotalTestCases  int    `json:"total_test_cases"`
	PoliciesPerCase int    `json:"policies_per_case"`
}

// SaveResult writes a single resolution result into dir as
// policy_result_<timestamp>.json and returns the written path.
func (fs *FileStore) SaveResult(dir string, result *engine.ResolutionResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating results directory: %w", err)
	}

	name := fmt.Sprintf("%s%s.json", resultFilePrefix, fs.now().UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing result file: %w", err)
	}
	return path, nil
}

// WriteReport writes the aggregate report for a batch of results to path.
func (fs *FileStore) WriteReport(path string, results []*engine.ResolutionResult) error {
	if results == nil {
		results = []*engine.ResolutionResult{}
	}
	report := Report{
		TestRun: ReportMeta{
			Timestamp:       fs.now().UTC().Format(time.RFC3339),
			TotalTestCases:  len(results),
			PoliciesPerCase: 10,
		},
		Results: results,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}
