package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkwebmonitor/internal/analyzer"
	"darkwebmonitor/internal/domain"
)

func testFilter(cfg *Config, reg *analyzer.Registry, now time.Time) *Filter {
	if now.IsZero() {
		now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC) // a Tuesday
	}
	return NewFilter(cfg, reg, func() time.Time { return now })
}

func baseAlert(severity domain.Severity) *domain.Alert {
	return &domain.Alert{
		Mention: domain.Mention{
			Source:  "Ahmia",
			RawText: "content mentioning sony.co.jp",
			URL:     "http://example.onion/x",
		},
		MatchedTerm:     "sony.co.jp",
		Category:        "Domain",
		ConfidenceScore: 100.0,
		Severity:        severity,
	}
}

func TestDefaultPolicySuppressesLowSeverity(t *testing.T) {
	t.Parallel()

	f := testFilter(&Config{}, &analyzer.Registry{}, time.Time{})

	assert.Nil(t, f.Apply(baseAlert(domain.SeverityLow)))
	assert.NotNil(t, f.Apply(baseAlert(domain.SeverityMedium)))
	assert.NotNil(t, f.Apply(baseAlert(domain.SeverityHigh)))
}

func TestThresholdByPriority(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AlertThresholds: map[string]Threshold{
			"HIGH_PRIORITY": {ConfidenceScore: 80, SeverityLevels: []string{"HIGH", "MEDIUM", "LOW"}},
			"DEFAULT":       {ConfidenceScore: 85, SeverityLevels: []string{"HIGH", "MEDIUM"}},
		},
	}
	reg := &analyzer.Registry{
		PriorityTargets: map[string]domain.Priority{"sony.co.jp": domain.PriorityHigh},
	}
	f := testFilter(cfg, reg, time.Time{})

	// LOW severity passes under the relaxed HIGH_PRIORITY policy.
	alert := f.Apply(baseAlert(domain.SeverityLow))
	require.NotNil(t, alert)
	assert.Equal(t, "HIGH", alert.TargetPriority)
	require.NotNil(t, alert.Enhanced)
	assert.True(t, alert.Enhanced.PriorityBoost)

	// An unknown term falls back to DEFAULT, which rejects LOW.
	other := baseAlert(domain.SeverityLow)
	other.MatchedTerm = "unrelated-term"
	assert.Nil(t, f.Apply(other))
}

func TestThresholdConfidenceGate(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AlertThresholds: map[string]Threshold{
			"DEFAULT": {ConfidenceScore: 95, SeverityLevels: []string{"HIGH"}},
		},
	}
	f := testFilter(cfg, &analyzer.Registry{}, time.Time{})

	alert := baseAlert(domain.SeverityHigh)
	alert.ConfidenceScore = 90
	assert.Nil(t, f.Apply(alert))
}

func TestPriorityLookupFallsBackToSubstring(t *testing.T) {
	t.Parallel()

	reg := &analyzer.Registry{
		PriorityTargets: map[string]domain.Priority{"sony": domain.PriorityHigh},
	}
	f := testFilter(&Config{}, reg, time.Time{})

	alert := f.Apply(baseAlert(domain.SeverityHigh))
	require.NotNil(t, alert)
	assert.Equal(t, "HIGH", alert.TargetPriority)
}

func TestCategoryAlertAllForcesHigh(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		CategoryRules: map[string]CategoryRule{
			"critical_infrastructure": {AlertAll: true},
		},
	}
	reg := &analyzer.Registry{
		Categories: map[string]string{"sony.co.jp": "critical_infrastructure"},
	}
	f := testFilter(cfg, reg, time.Time{})

	alert := f.Apply(baseAlert(domain.SeverityMedium))
	require.NotNil(t, alert)
	assert.Equal(t, domain.SeverityHigh, alert.Severity)
	assert.True(t, alert.CategoryOverride)
	assert.Equal(t, "critical_infrastructure", alert.TargetCategory)
	require.NotNil(t, alert.Enhanced)
	assert.True(t, alert.Enhanced.CategoryAlert)
}

func TestFocusKeywordPromotesOneTier(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AlertThresholds: map[string]Threshold{
			"DEFAULT": {SeverityLevels: []string{"HIGH", "MEDIUM", "LOW"}},
		},
		CategoryRules: map[string]CategoryRule{
			"finance": {FocusKeywords: []string{"ransom"}},
		},
		SourceReliability: map[string]float64{"Ahmia": 0.9},
	}
	reg := &analyzer.Registry{
		Categories: map[string]string{"sony.co.jp": "finance"},
	}
	f := testFilter(cfg, reg, time.Time{})

	alert := baseAlert(domain.SeverityLow)
	alert.RawText = "ransom demand mentioning sony.co.jp"
	got := f.Apply(alert)
	require.NotNil(t, got)
	assert.Equal(t, domain.SeverityMedium, got.Severity)

	// HIGH is never promoted further.
	high := baseAlert(domain.SeverityHigh)
	high.RawText = "ransom demand mentioning sony.co.jp"
	got = f.Apply(high)
	require.NotNil(t, got)
	assert.Equal(t, domain.SeverityHigh, got.Severity)
}

func TestReliabilityDowngradeExactlyOneTier(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AlertThresholds: map[string]Threshold{
			"DEFAULT": {SeverityLevels: []string{"HIGH", "MEDIUM", "LOW"}},
		},
		SourceReliability: map[string]float64{"Pastebin": 0.3},
	}
	f := testFilter(cfg, &analyzer.Registry{}, time.Time{})

	alert := baseAlert(domain.SeverityMedium)
	alert.Source = "Pastebin-scrape"
	got := f.Apply(alert)
	require.NotNil(t, got)
	assert.Equal(t, domain.SeverityLow, got.Severity)
	assert.True(t, got.ReliabilityAdjusted)
	assert.Equal(t, 0.3, got.SourceReliability)

	// The downgrade never cascades: LOW stays LOW, not INFO.
	low := baseAlert(domain.SeverityLow)
	low.Source = "Pastebin-scrape"
	got = f.Apply(low)
	require.NotNil(t, got)
	assert.Equal(t, domain.SeverityLow, got.Severity)
	assert.False(t, got.ReliabilityAdjusted)
}

func TestUnknownSourceDefaultsReliability(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		AlertThresholds: map[string]Threshold{
			"DEFAULT": {SeverityLevels: []string{"HIGH", "MEDIUM", "LOW"}},
		},
	}
	f := testFilter(cfg, &analyzer.Registry{}, time.Time{})

	// Default 0.5 is below 0.7, so MEDIUM from an unknown source drops.
	got := f.Apply(baseAlert(domain.SeverityMedium))
	require.NotNil(t, got)
	assert.Equal(t, domain.SeverityLow, got.Severity)
	assert.Equal(t, 0.5, got.SourceReliability)
}

func TestDefaultsWhenUnmatched(t *testing.T) {
	t.Parallel()

	f := testFilter(&Config{}, &analyzer.Registry{}, time.Time{})

	got := f.Apply(baseAlert(domain.SeverityHigh))
	require.NotNil(t, got)
	assert.Equal(t, "DEFAULT", got.TargetPriority)
	assert.Equal(t, "General", got.TargetCategory)
}

func TestWorkingHoursFlagIsInformational(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		WorkingHours: WorkingHours{Enabled: true, Start: "09:00", End: "18:00"},
	}

	// Saturday, outside the attended window: the flag is false but the
	// alert still goes through.
	saturday := time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)
	f := testFilter(cfg, &analyzer.Registry{}, saturday)
	got := f.Apply(baseAlert(domain.SeverityHigh))
	require.NotNil(t, got)
	require.NotNil(t, got.Enhanced)
	assert.False(t, got.Enhanced.WorkingHours)

	// Tuesday inside the window.
	tuesday := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f = testFilter(cfg, &analyzer.Registry{}, tuesday)
	got = f.Apply(baseAlert(domain.SeverityHigh))
	require.NotNil(t, got)
	assert.True(t, got.Enhanced.WorkingHours)
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "alert_config.yaml")
	raw := `
alert_thresholds:
  HIGH_PRIORITY:
    confidence_score: 80
    severity_levels: [HIGH, MEDIUM, LOW]
  DEFAULT:
    confidence_score: 85
    severity_levels: [HIGH, MEDIUM]
category_rules:
  finance:
    alert_all: true
    focus_keywords: [ransom]
source_reliability:
  Ahmia: 0.9
working_hours:
  enabled: true
  start: "09:00"
  end: "18:00"
  weekend_alerts: false
`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 80.0, cfg.AlertThresholds["HIGH_PRIORITY"].ConfidenceScore)
	assert.True(t, cfg.CategoryRules["finance"].AlertAll)
	assert.Equal(t, 0.9, cfg.SourceReliability["Ahmia"])
	assert.True(t, cfg.WorkingHours.Enabled)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("alert_thresholds: ["), 0o644))
	_, err = LoadConfig(path)
	assert.Error(t, err)
}
