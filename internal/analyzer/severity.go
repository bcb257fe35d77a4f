package analyzer

import (
	"regexp"

	"darkwebmonitor/internal/domain"
)

// PatternSets maps each severity tier to its raw regular expressions.
// Patterns are bilingual: Latin-script security vocabulary plus Japanese
// equivalents.
type PatternSets map[domain.Severity][]string

// DefaultPatternSets returns the built-in tiered vocabulary. HIGH covers
// credential and database leak evidence, MEDIUM personal/employee data,
// LOW generic discussion.
func DefaultPatternSets() PatternSets {
	return PatternSets{
		domain.SeverityHigh: {
			`password[s]?\s*(:|=|dump|leak)`,
			`credential[s]?\s*(:|=|dump|leak)`,
			`database\s*dump`,
			`sql\s*dump`,
			`admin\s*access`,
			`root\s*access`,
			`api\s*key[s]?`,
			`private\s*key`,
			`secret\s*key`,
			`漏洩`,
			`流出`,
			`ハッキング`,
			`侵入`,
		},
		domain.SeverityMedium: {
			`email[s]?\s*(list|dump|leak)`,
			`user[s]?\s*(list|data|info)`,
			`employee[s]?\s*(list|data|info)`,
			`personal\s*data`,
			`個人情報`,
			`メールアドレス`,
			`社員`,
		},
		domain.SeverityLow: {
			`mention`,
			`discussion`,
			`forum`,
			`thread`,
			`言及`,
			`議論`,
		},
	}
}

// severityOrder fixes tier precedence: the first tier with any matching
// pattern wins, so severity reflects worst-case evidence.
var severityOrder = []domain.Severity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow}

// Classifier assigns a coarse severity tier using layered pattern sets.
type Classifier struct {
	compiled map[domain.Severity][]*regexp.Regexp
}

// NewClassifier compiles the given pattern sets case-insensitively. Pass
// DefaultPatternSets() unless the deployment overrides them.
func NewClassifier(sets PatternSets) (*Classifier, error) {
	compiled := make(map[domain.Severity][]*regexp.Regexp, len(sets))
	for severity, patterns := range sets {
		for _, p := range patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, err
			}
			compiled[severity] = append(compiled[severity], re)
		}
	}
	return &Classifier{compiled: compiled}, nil
}

// Classify tests HIGH patterns first, then MEDIUM, then LOW; a text with no
// matching pattern is INFO.
func (c *Classifier) Classify(text string) domain.Severity {
	for _, severity := range severityOrder {
		for _, re := range c.compiled[severity] {
			if re.MatchString(text) {
				return severity
			}
		}
	}
	return domain.SeverityInfo
}
