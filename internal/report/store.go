package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tamilqa/tamilqa/internal/runner"
)

const (
	defaultRunDirName = ".tamilqa"
	reportDir         = "reports"
	reportExtension   = ".json"
)

// Report is the persisted record of one run.
type Report struct {
	RunID      string         `json:"run_id"`
	Catalog    string         `json:"catalog"`
	TargetURL  string         `json:"target_url"`
	Browser    string         `json:"browser"`
	Settle     string         `json:"settle"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Summary    runner.Summary `json:"summary"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.New().String()
}

// Path is the report file of runID under runDir.
func Path(runDir, runID string) string {
	return filepath.Join(runDir, reportDir, runID+reportExtension)
}

// Write stores r under its run ID and returns the file path.
func Write(ctx context.Context, r Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.RunID == "" {
		return "", errors.New("run ID is required")
	}
	if _, err := uuid.Parse(r.RunID); err != nil {
		return "", fmt.Errorf("invalid run ID %q: %w", r.RunID, err)
	}

	runDir, err := BaseDir()
	if err != nil {
		return "", err
	}
	if err := EnsureDir(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	path := Path(runDir, r.RunID)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("failed to finalize report %s: %w", path, err)
	}
	return path, nil
}

// Read loads a report. A unique prefix of the run ID is enough.
func Read(ctx context.Context, runID string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if runID == "" {
		return nil, errors.New("run ID is required")
	}
	if strings.ContainsAny(runID, `/\`) || strings.Contains(runID, "..") {
		return nil, fmt.Errorf("invalid run ID %q", runID)
	}

	runDir, err := BaseDir()
	if err != nil {
		return nil, err
	}

	path := Path(runDir, runID)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		path, err = resolvePrefix(runDir, runID)
		if err != nil {
			return nil, err
		}
	}
	return readFile(path)
}

// List returns every stored report, newest first.
func List(ctx context.Context) ([]Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	runDir, err := BaseDir()
	if err != nil {
		return nil, err
	}

	paths, err := filepath.Glob(filepath.Join(runDir, reportDir, "*"+reportExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, 0, len(paths))
	for _, path := range paths {
		r, err := readFile(path)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	sort.Slice(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})
	return reports, nil
}

// Remove deletes the report of runID. Unlike Read it needs the full ID.
func Remove(ctx context.Context, runID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if runID == "" {
		return errors.New("run ID is required")
	}
	if _, err := uuid.Parse(runID); err != nil {
		return fmt.Errorf("invalid run ID %q: %w", runID, err)
	}

	runDir, err := BaseDir()
	if err != nil {
		return err
	}

	path := Path(runDir, runID)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("report %s not found", runID)
		}
		return fmt.Errorf("failed to remove report %s: %w", path, err)
	}
	return nil
}

// EnsureDir creates the reports directory under BaseDir.
func EnsureDir() error {
	runDir, err := BaseDir()
	if err != nil {
		return err
	}
	target := filepath.Join(runDir, reportDir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return fmt.Errorf("failed to create report directory %s: %w", target, err)
	}
	return nil
}

// BaseDir is $TAMILQA_RUN_DIR, or .tamilqa under the working directory.
func BaseDir() (string, error) {
	if dir := os.Getenv("TAMILQA_RUN_DIR"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("failed to resolve TAMILQA_RUN_DIR %s: %w", dir, err)
		}
		return abs, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return filepath.Join(cwd, defaultRunDirName), nil
}

func readFile(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}
	if r.RunID == "" {
		return nil, fmt.Errorf("report %s missing run_id", path)
	}
	return &r, nil
}

func resolvePrefix(runDir, prefix string) (string, error) {
	paths, err := filepath.Glob(filepath.Join(runDir, reportDir, "*"+reportExtension))
	if err != nil {
		return "", fmt.Errorf("failed to list reports: %w", err)
	}
	var matches []string
	for _, p := range paths {
		if strings.HasPrefix(filepath.Base(p), prefix) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("report %s not found", prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("run ID prefix %s is ambiguous: %d reports match", prefix, len(matches))
	}
}
