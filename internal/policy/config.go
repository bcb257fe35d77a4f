package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"darkwebmonitor/internal/domain"
)

// Threshold is the admission policy for one priority band.
type Threshold struct {
	ConfidenceScore float64  `yaml:"confidence_score"`
	SeverityLevels  []string `yaml:"severity_levels"`
}

// CategoryRule tunes alerting for one target category.
type CategoryRule struct {
	AlertAll      bool     `yaml:"alert_all"`
	ExtraKeywords []string `yaml:"extra_keywords"`
	FocusKeywords []string `yaml:"focus_keywords"`
}

// WorkingHours describes the operator's attended window. The resulting flag
// is informational only and never gates dispatch.
type WorkingHours struct {
	Enabled       bool   `yaml:"enabled"`
	Start         string `yaml:"start"`
	End           string `yaml:"end"`
	WeekendAlerts bool   `yaml:"weekend_alerts"`
}

// Config is the per-target priority/category policy loaded from YAML.
type Config struct {
	AlertThresholds   map[string]Threshold    `yaml:"alert_thresholds"`
	CategoryRules     map[string]CategoryRule `yaml:"category_rules"`
	SourceReliability map[string]float64      `yaml:"source_reliability"`
	WorkingHours      WorkingHours            `yaml:"working_hours"`
}

// LoadConfig reads the policy YAML file. Like the target registry, a
// malformed policy file aborts startup.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse policy file %s: %w", path, err)
	}

	return &cfg, nil
}

const (
	defaultMinConfidence = 85.0
	defaultReliability   = 0.5
)

// threshold resolves the policy for a priority band, falling back to
// DEFAULT and then to built-in defaults (confidence 85, HIGH/MEDIUM only).
func (c *Config) threshold(priority domain.Priority) Threshold {
	thresholds := c.AlertThresholds

	var th Threshold
	var found bool
	if priority != "" {
		th, found = thresholds[string(priority)+"_PRIORITY"]
	}
	if !found {
		th, found = thresholds["DEFAULT"]
	}
	if !found {
		th = Threshold{}
	}

	if th.ConfidenceScore == 0 {
		th.ConfidenceScore = defaultMinConfidence
	}
	if len(th.SeverityLevels) == 0 {
		th.SeverityLevels = []string{string(domain.SeverityHigh), string(domain.SeverityMedium)}
	}
	return th
}
