package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-jobapply-automation/internal/models"
)

type runReport struct {
	Summary      models.RunSummary    `json:"summary"`
	Applications []models.Application `json:"applications"`
}

// SaveReport writes applications-<date>-<run id>.json into dir. Runs that
// attempted nothing are not written and return an empty path.
func SaveReport(dir string, summary models.RunSummary, attempts []models.Application) (string, error) {
	if len(attempts) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("applications-%s-%s.json", summary.StartedAt.Format("2006-01-02"), summary.RunID)
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(runReport{Summary: summary, Applications: attempts}, "", " ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return path, nil
}
