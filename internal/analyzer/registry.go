package analyzer

import (
	"encoding/json"
	"fmt"
	"os"

	"darkwebmonitor/internal/domain"
)

// Registry holds the monitored terms plus per-term priority and category
// assignments. It is loaded once at startup and never mutated by the
// pipeline.
type Registry struct {
	Keywords        []string                   `json:"keywords"`
	Domains         []string                   `json:"domains"`
	CompanyNames    []string                   `json:"company_names"`
	PriorityTargets map[string]domain.Priority `json:"priority_targets"`
	Categories      map[string]string          `json:"categories"`
}

// LoadRegistry reads the targets JSON file. A malformed or missing file is a
// startup error: the pipeline cannot run without a registry.
func LoadRegistry(path string) (*Registry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var reg Registry
	if err := json.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("parse targets file %s: %w", path, err)
	}

	if reg.PriorityTargets == nil {
		reg.PriorityTargets = map[string]domain.Priority{}
	}
	if reg.Categories == nil {
		reg.Categories = map[string]string{}
	}

	return &reg, nil
}
