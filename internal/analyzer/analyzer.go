// Package analyzer holds the decision core of the monitor: target matching,
// severity classification, and alert assembly.
package analyzer

import (
	"time"

	"darkwebmonitor/internal/domain"
)

// Analyzer combines the matcher and the severity classifier into the base
// analysis stage. It is a pure function of its inputs plus the injected
// clock.
type Analyzer struct {
	matcher    *Matcher
	classifier *Classifier
	now        func() time.Time
}

// New wires a matcher and classifier. now may be nil, defaulting to
// time.Now.
func New(matcher *Matcher, classifier *Classifier, now func() time.Time) *Analyzer {
	if now == nil {
		now = time.Now
	}
	return &Analyzer{matcher: matcher, classifier: classifier, now: now}
}

// Analyze turns a mention into a candidate alert, or nil when no target
// matches with confidence >= 85. Title and body are matched together.
func (a *Analyzer) Analyze(m domain.Mention) *domain.Alert {
	combined := m.Title + " " + m.RawText

	match := a.matcher.Match(combined)
	if match == nil || match.Confidence < minConfidence {
		return nil
	}

	severity := a.classifier.Classify(combined)

	return &domain.Alert{
		Mention:           m,
		MatchedTerm:       match.Term,
		Category:          match.Category,
		ConfidenceScore:   match.Confidence,
		Severity:          severity,
		AnalysisTimestamp: a.now().UTC(),
	}
}
