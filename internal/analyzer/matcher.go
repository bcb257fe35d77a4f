package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"darkwebmonitor/internal/domain"
)

const (
	categoryDomain  = "Domain"
	categoryKeyword = "Keyword"
	categoryCompany = "Company Name"

	// minConfidence is the baseline admission gate shared by every caller;
	// confidence is never recomputed downstream.
	minConfidence = 85.0

	// fuzzyMinTermLen gates approximate scoring for keywords: very short
	// terms produce meaningless partial-ratio scores.
	fuzzyMinTermLen = 5
)

// japaneseExpr covers Hiragana, Katakana and CJK Unified Ideographs.
var japaneseExpr = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FFF}]`)

// Matcher finds the best registered target mentioned in a piece of text.
type Matcher struct {
	registry *Registry
}

// NewMatcher binds a matcher to a loaded registry.
func NewMatcher(reg *Registry) *Matcher {
	return &Matcher{registry: reg}
}

// Match returns the best matching term with its category and a confidence
// score in [0,100], or nil when nothing reaches the confidence gate.
//
// Domains are tested first and only exactly: a case-insensitive substring hit
// returns 100 immediately, so domains always take precedence. Keywords are
// tested exactly, then approximately for terms longer than five runes.
// Company names written in Japanese script require an exact substring match;
// token-level similarity is meaningless for ideographic text, so no fuzzy
// fallback applies to them. All other company names score like keywords.
func (m *Matcher) Match(text string) *domain.MatchResult {
	text = strings.ToLower(text)

	var (
		bestTerm     string
		bestCategory string
		bestScore    float64
	)

	for _, d := range m.registry.Domains {
		if strings.Contains(text, strings.ToLower(d)) {
			return &domain.MatchResult{Term: d, Category: categoryDomain, Confidence: 100.0}
		}
	}

	for _, kw := range m.registry.Keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			return &domain.MatchResult{Term: kw, Category: categoryKeyword, Confidence: 100.0}
		}
		if utf8.RuneCountInString(kw) > fuzzyMinTermLen {
			score := float64(fuzzy.PartialRatio(strings.ToLower(kw), text))
			if score > bestScore {
				bestScore = score
				bestTerm = kw
				bestCategory = categoryKeyword
			}
		}
	}

	for _, company := range m.registry.CompanyNames {
		if isJapanese(company) {
			if strings.Contains(text, company) {
				return &domain.MatchResult{Term: company, Category: categoryCompany, Confidence: 100.0}
			}
			continue
		}
		score := float64(fuzzy.PartialRatio(strings.ToLower(company), text))
		if score > bestScore {
			bestScore = score
			bestTerm = company
			bestCategory = categoryCompany
		}
	}

	if bestTerm != "" && bestScore >= minConfidence {
		return &domain.MatchResult{Term: bestTerm, Category: bestCategory, Confidence: bestScore}
	}

	return nil
}

func isJapanese(text string) bool {
	return japaneseExpr.MatchString(text)
}
