package collector

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"darkwebmonitor/internal/domain"
)

const defaultMaxItemAge = 48 * time.Hour

// RSSCollector polls security-news feeds and emits one mention per recent
// item.
type RSSCollector struct {
	parser *gofeed.Parser
	now    func() time.Time
}

// NewRSSCollector builds a collector with a shared feed parser.
func NewRSSCollector() *RSSCollector {
	return &RSSCollector{parser: gofeed.NewParser(), now: time.Now}
}

// Name identifies the strategy inside the registry.
func (c *RSSCollector) Name() string {
	return "rss"
}

// Collect parses every configured feed and keeps items newer than the
// max_age_hours option (default 48h). A failing feed fails the whole source;
// the orchestrator treats that as an empty batch.
func (c *RSSCollector) Collect(ctx context.Context, req Request) ([]domain.Mention, error) {
	if len(req.Feeds) == 0 {
		return nil, fmt.Errorf("no feeds configured for source %s", req.SourceName)
	}

	maxAge := defaultMaxItemAge
	if raw, ok := req.Options["max_age_hours"]; ok {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			maxAge = time.Duration(hours) * time.Hour
		}
	}
	cutoff := c.now().Add(-maxAge)

	var mentions []domain.Mention
	for _, feed := range req.Feeds {
		parsed, err := c.parser.ParseURLWithContext(feed.URL, ctx)
		if err != nil {
			return nil, fmt.Errorf("feed %s: %w", feed.Name, err)
		}

		for _, item := range parsed.Items {
			published := itemTime(item)
			if !published.IsZero() && published.Before(cutoff) {
				continue
			}

			mentions = append(mentions, domain.Mention{
				Source:         "RSS-" + feed.Name,
				Title:          item.Title,
				RawText:        itemText(item),
				URL:            item.Link,
				DiscoveredDate: published,
				Metadata: map[string]string{
					"feed":     feed.Name,
					"category": feed.Category,
				},
			})
		}
	}

	return mentions, nil
}

func itemTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Time{}
}

func itemText(item *gofeed.Item) string {
	parts := make([]string, 0, 3)
	if item.Title != "" {
		parts = append(parts, item.Title)
	}
	if item.Description != "" {
		parts = append(parts, item.Description)
	}
	if item.Content != "" {
		parts = append(parts, item.Content)
	}
	return strings.Join(parts, " ")
}
