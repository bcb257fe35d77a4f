package domain

import "time"

// Severity is the coarse risk tier assigned to mention content.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
	SeverityInfo   Severity = "INFO"
)

// Color maps a severity to its display color; unknown tiers render gray.
func (s Severity) Color() string {
	switch s {
	case SeverityHigh:
		return "#ff0000"
	case SeverityMedium:
		return "#ff9900"
	case SeverityLow:
		return "#ffcc00"
	case SeverityInfo:
		return "#36a64f"
	default:
		return "#808080"
	}
}

// Promote raises the severity exactly one tier; HIGH stays HIGH and INFO is
// never promoted by category rules.
func (s Severity) Promote() Severity {
	switch s {
	case SeverityLow:
		return SeverityMedium
	case SeverityMedium:
		return SeverityHigh
	default:
		return s
	}
}

// Priority is the operator-assigned importance of a monitored target.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// MatchResult describes the best target found in a mention's text.
type MatchResult struct {
	Term       string
	Category   string
	Confidence float64
}

// EnhancedMetadata is informational context attached by the priority filter.
// The WorkingHours flag never gates dispatch.
type EnhancedMetadata struct {
	PriorityBoost     bool
	CategoryAlert     bool
	SourceReliability float64
	WorkingHours      bool
}

// Alert is the terminal output of the pipeline: a mention plus analysis
// results. It either reaches the dispatcher or is discarded; there is no
// partial or retry state.
type Alert struct {
	Mention

	MatchedTerm       string
	Category          string
	ConfidenceScore   float64
	Severity          Severity
	AnalysisTimestamp time.Time

	// Set only when the priority filter stage runs.
	TargetPriority      string
	TargetCategory      string
	SourceReliability   float64
	CategoryOverride    bool
	ReliabilityAdjusted bool
	Enhanced            *EnhancedMetadata
}
