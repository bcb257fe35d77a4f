package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"darkwebmonitor/internal/config"
)

func feedXML(now time.Time) string {
	recent := now.Add(-2 * time.Hour).Format(time.RFC1123Z)
	stale := now.Add(-96 * time.Hour).Format(time.RFC1123Z)
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Breach News</title>
    <item>
      <title>Major database dump surfaces</title>
      <link>https://news.example.com/dump</link>
      <description>Credentials for sony.co.jp spotted in a new dump</description>
      <pubDate>%s</pubDate>
    </item>
    <item>
      <title>Old story</title>
      <link>https://news.example.com/old</link>
      <description>Long resolved incident</description>
      <pubDate>%s</pubDate>
    </item>
  </channel>
</rss>`, recent, stale)
}

func TestRSSCollect(t *testing.T) {
	t.Parallel()

	now := time.Now()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feedXML(now)))
	}))
	defer server.Close()

	c := NewRSSCollector()

	mentions, err := c.Collect(context.Background(), Request{
		SourceName: "security-rss",
		Feeds: []config.FeedConfig{
			{Name: "BreachNews", URL: server.URL, Category: "breach_news"},
		},
	})
	if err != nil {
		t.Fatalf("Collect error: %v", err)
	}

	if len(mentions) != 1 {
		t.Fatalf("expected only the recent item, got %d", len(mentions))
	}

	m := mentions[0]
	if m.Source != "RSS-BreachNews" {
		t.Fatalf("unexpected source: %s", m.Source)
	}
	if m.URL != "https://news.example.com/dump" {
		t.Fatalf("unexpected url: %s", m.URL)
	}
	if m.Title != "Major database dump surfaces" {
		t.Fatalf("unexpected title: %s", m.Title)
	}
	if m.Metadata["category"] != "breach_news" {
		t.Fatalf("unexpected category metadata: %q", m.Metadata["category"])
	}
	if m.DiscoveredDate.IsZero() {
		t.Fatal("expected discovered date from pubDate")
	}
}

func TestRSSCollectNoFeeds(t *testing.T) {
	t.Parallel()

	c := NewRSSCollector()
	_, err := c.Collect(context.Background(), Request{SourceName: "security-rss"})
	if err == nil {
		t.Fatal("expected error for missing feeds")
	}
}

func TestRSSCollectFeedFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewRSSCollector()
	_, err := c.Collect(context.Background(), Request{
		SourceName: "security-rss",
		Feeds:      []config.FeedConfig{{Name: "Down", URL: server.URL}},
	})
	if err == nil {
		t.Fatal("expected error from failing feed")
	}
}
