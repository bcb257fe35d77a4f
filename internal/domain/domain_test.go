package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizedDefaults(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	m := Mention{Source: "Ahmia", RawText: "text"}.Normalized(now)

	assert.Equal(t, now, m.Timestamp)
	assert.Equal(t, now, m.DiscoveredDate)
	assert.NotNil(t, m.Metadata)
}

func TestNormalizedKeepsExistingValues(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, time.January, 5, 8, 0, 0, 0, time.UTC)
	m := Mention{Timestamp: ts, DiscoveredDate: ts.Add(-time.Hour)}.Normalized(time.Now())

	assert.Equal(t, ts, m.Timestamp)
	assert.Equal(t, ts.Add(-time.Hour), m.DiscoveredDate)
}

func TestBaseSource(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Pastebin", Mention{Source: "Pastebin-scrape"}.BaseSource())
	assert.Equal(t, "Ahmia", Mention{Source: "Ahmia"}.BaseSource())
	assert.Equal(t, "RSS", Mention{Source: "RSS-BreachNews"}.BaseSource())
}

func TestSeverityPromote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, SeverityMedium, SeverityLow.Promote())
	assert.Equal(t, SeverityHigh, SeverityMedium.Promote())
	assert.Equal(t, SeverityHigh, SeverityHigh.Promote())
	assert.Equal(t, SeverityInfo, SeverityInfo.Promote())
}
