package domain

import "time"

// Mention is a normalized unit of collected text with provenance metadata.
// Collectors produce Mentions; the analysis pipeline never mutates them.
type Mention struct {
	Source         string
	Title          string
	RawText        string
	URL            string
	Timestamp      time.Time
	DiscoveredDate time.Time
	Metadata       map[string]string
}

// Normalized returns a copy with missing optional fields defaulted: empty
// strings stay empty, absent timestamps become now. Malformed input is never
// fatal.
func (m Mention) Normalized(now time.Time) Mention {
	if m.Timestamp.IsZero() {
		m.Timestamp = now
	}
	if m.DiscoveredDate.IsZero() {
		m.DiscoveredDate = m.Timestamp
	}
	if m.Metadata == nil {
		m.Metadata = map[string]string{}
	}
	return m
}

// BaseSource strips a "-suffix" disambiguator from the source name, e.g.
// "Ahmia-deep" resolves reliability as "Ahmia".
func (m Mention) BaseSource() string {
	for i := 0; i < len(m.Source); i++ {
		if m.Source[i] == '-' {
			return m.Source[:i]
		}
	}
	return m.Source
}
