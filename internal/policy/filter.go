// Package policy implements the optional priority filter stage: per-target
// threshold policies, category rules, and source reliability adjustments on
// top of the base analyzer.
package policy

import (
	"strconv"
	"strings"
	"time"

	"darkwebmonitor/internal/analyzer"
	"darkwebmonitor/internal/domain"
)

// Filter applies the configured priority/category policy to candidate
// alerts. The base pipeline without a Filter is a valid terminal stage;
// composition replaces the original's subclassing.
type Filter struct {
	cfg      *Config
	registry *analyzer.Registry
	now      func() time.Time
}

// NewFilter binds the policy config to the target registry. now may be nil,
// defaulting to time.Now.
func NewFilter(cfg *Config, reg *analyzer.Registry, now func() time.Time) *Filter {
	if now == nil {
		now = time.Now
	}
	return &Filter{cfg: cfg, registry: reg, now: now}
}

// Apply returns the decorated alert, or nil when the threshold policy for
// the matched target's priority rejects it. Suppression is a normal outcome,
// not an error.
func (f *Filter) Apply(alert *domain.Alert) *domain.Alert {
	if alert == nil {
		return nil
	}

	priority, hasPriority := f.targetPriority(alert.MatchedTerm)
	if !f.passesThreshold(alert, priority) {
		return nil
	}

	category, hasCategory := f.targetCategory(alert.MatchedTerm)
	if hasCategory {
		f.applyCategoryRules(alert, category)
	}
	f.adjustBySourceReliability(alert)

	alert.TargetPriority = "DEFAULT"
	if hasPriority {
		alert.TargetPriority = string(priority)
	}
	alert.TargetCategory = "General"
	if hasCategory {
		alert.TargetCategory = category
	}

	_, hasRule := f.cfg.CategoryRules[category]
	alert.Enhanced = &domain.EnhancedMetadata{
		PriorityBoost:     priority == domain.PriorityHigh,
		CategoryAlert:     hasCategory && hasRule,
		SourceReliability: f.sourceReliability(alert.Source),
		WorkingHours:      f.isWorkingHours(),
	}

	return alert
}

// targetPriority resolves the matched term's priority: exact lookup first,
// then substring containment in either direction.
func (f *Filter) targetPriority(term string) (domain.Priority, bool) {
	targets := f.registry.PriorityTargets
	if p, ok := targets[term]; ok {
		return p, true
	}

	lower := strings.ToLower(term)
	for target, p := range targets {
		lt := strings.ToLower(target)
		if strings.Contains(lower, lt) || strings.Contains(lt, lower) {
			return p, true
		}
	}
	return "", false
}

func (f *Filter) targetCategory(term string) (string, bool) {
	categories := f.registry.Categories
	if c, ok := categories[term]; ok {
		return c, true
	}

	lower := strings.ToLower(term)
	for target, c := range categories {
		lt := strings.ToLower(target)
		if strings.Contains(lower, lt) || strings.Contains(lt, lower) {
			return c, true
		}
	}
	return "", false
}

func (f *Filter) passesThreshold(alert *domain.Alert, priority domain.Priority) bool {
	th := f.cfg.threshold(priority)

	if alert.ConfidenceScore < th.ConfidenceScore {
		return false
	}
	for _, allowed := range th.SeverityLevels {
		if string(alert.Severity) == allowed {
			return true
		}
	}
	return false
}

// applyCategoryRules forces HIGH for alert_all categories and promotes the
// severity exactly one tier when any focus/extra keyword appears in the raw
// text.
func (f *Filter) applyCategoryRules(alert *domain.Alert, category string) {
	rule, ok := f.cfg.CategoryRules[category]
	if !ok {
		return
	}

	if rule.AlertAll {
		alert.Severity = domain.SeverityHigh
		alert.CategoryOverride = true
	}

	text := strings.ToLower(alert.RawText)
	for _, kw := range append(append([]string{}, rule.ExtraKeywords...), rule.FocusKeywords...) {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			alert.Severity = alert.Severity.Promote()
			break
		}
	}
}

// adjustBySourceReliability downgrades MEDIUM to LOW once for sources below
// 0.7 reliability; the downgrade never cascades to INFO.
func (f *Filter) adjustBySourceReliability(alert *domain.Alert) {
	reliability := f.sourceReliability(alert.BaseSource())

	if reliability < 0.7 && alert.Severity == domain.SeverityMedium {
		alert.Severity = domain.SeverityLow
		alert.ReliabilityAdjusted = true
	}
	alert.SourceReliability = reliability
}

// sourceReliability resolves a source's score: exact lookup, then configured
// name contained in the source name, defaulting to 0.5.
func (f *Filter) sourceReliability(source string) float64 {
	scores := f.cfg.SourceReliability
	if score, ok := scores[source]; ok {
		return score
	}

	lower := strings.ToLower(source)
	for name, score := range scores {
		if strings.Contains(lower, strings.ToLower(name)) {
			return score
		}
	}
	return defaultReliability
}

// isWorkingHours tests the current wall clock against the configured window.
func (f *Filter) isWorkingHours() bool {
	wh := f.cfg.WorkingHours
	if !wh.Enabled {
		return true
	}

	now := f.now()
	if now.Weekday() == time.Saturday || now.Weekday() == time.Sunday {
		if !wh.WeekendAlerts {
			return false
		}
	}

	start := parseHour(wh.Start, 9)
	end := parseHour(wh.End, 18)
	return start <= now.Hour() && now.Hour() < end
}

// parseHour reads the hour component of an "HH:MM" window boundary.
func parseHour(value string, fallback int) int {
	if idx := strings.Index(value, ":"); idx > 0 {
		value = value[:idx]
	}
	if h, err := strconv.Atoi(value); err == nil && h >= 0 && h <= 24 {
		return h
	}
	return fallback
}
