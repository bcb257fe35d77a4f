// Package alerting renders human-readable alert messages and dispatches
// them to the configured notification channel.
package alerting

import (
	"fmt"
	"strings"

	"darkwebmonitor/internal/domain"
)

const (
	snippetContextRunes = 200
	noContentSnippet    = "No content available"
)

// FormatMessage builds the outbound alert text: severity, matched term,
// category, confidence, provenance, and a context snippet around the match.
func FormatMessage(alert domain.Alert) string {
	snippet := ExtractSnippet(alert.RawText, alert.MatchedTerm)

	msg := fmt.Sprintf(`🚨 *Darkweb Alert - %s Severity*

*Matched Term:* %s
*Category:* %s
*Confidence Score:* %.2f%%
*Source:* %s
*URL:* %s
*Detection Time:* %s

*Context Snippet:*
`+"```\n%s\n```",
		alert.Severity,
		alert.MatchedTerm,
		alert.Category,
		alert.ConfidenceScore,
		alert.Source,
		alert.URL,
		alert.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		snippet,
	)

	return strings.TrimSpace(msg)
}

// ExtractSnippet locates the term case-insensitively and returns up to 200
// characters of context on each side, with ellipses where truncated. When
// the term is absent the first 400 characters are returned; empty text
// yields a fixed placeholder.
func ExtractSnippet(text, term string) string {
	if text == "" {
		return noContentSnippet
	}

	textRunes := []rune(text)
	pos := runeIndexFold(text, term)
	if pos < 0 {
		if len(textRunes) > 2*snippetContextRunes {
			return string(textRunes[:2*snippetContextRunes]) + "..."
		}
		return text
	}

	termLen := len([]rune(term))
	start := pos - snippetContextRunes
	if start < 0 {
		start = 0
	}
	end := pos + termLen + snippetContextRunes
	if end > len(textRunes) {
		end = len(textRunes)
	}

	snippet := string(textRunes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(textRunes) {
		snippet = snippet + "..."
	}
	return snippet
}

// runeIndexFold returns the rune offset of the first case-insensitive
// occurrence of term in text, or -1.
func runeIndexFold(text, term string) int {
	if term == "" {
		return -1
	}
	haystack := []rune(strings.ToLower(text))
	needle := []rune(strings.ToLower(term))
	if len(needle) > len(haystack) {
		return -1
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
