package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"darkwebmonitor/internal/domain"
)

const defaultResultLimit = 50

// OnionSearchCollector scrapes an Ahmia-style clearnet search index of onion
// services, issuing one query per monitored term.
type OnionSearchCollector struct {
	client *http.Client
	// pause between queries keeps the search index happy
	queryDelay time.Duration
}

// NewOnionSearchCollector wires an HTTP client; the default delay between
// queries is two seconds.
func NewOnionSearchCollector(client *http.Client) *OnionSearchCollector {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &OnionSearchCollector{client: client, queryDelay: 2 * time.Second}
}

// Name identifies the strategy inside the registry.
func (c *OnionSearchCollector) Name() string {
	return "onionsearch"
}

// Collect searches the configured endpoint for every query term and parses
// the result blocks. Duplicate URLs within one pass are collapsed.
func (c *OnionSearchCollector) Collect(ctx context.Context, req Request) ([]domain.Mention, error) {
	endpoint := req.Options["endpoint"]
	if endpoint == "" {
		return nil, fmt.Errorf("no search endpoint configured for source %s", req.SourceName)
	}
	if len(req.Queries) == 0 {
		return nil, nil
	}

	limit := defaultResultLimit
	if raw, ok := req.Options["limit"]; ok {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	seen := map[string]struct{}{}
	var mentions []domain.Mention

	for i, query := range req.Queries {
		if i > 0 {
			select {
			case <-time.After(c.queryDelay):
			case <-ctx.Done():
				return mentions, ctx.Err()
			}
		}

		doc, err := c.fetchResults(ctx, endpoint, query)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", query, err)
		}

		doc.Find("li.result").EachWithBreak(func(_ int, block *goquery.Selection) bool {
			mention, ok := parseResultBlock(block, query)
			if !ok {
				return true
			}
			if _, dup := seen[mention.URL]; dup {
				return true
			}
			seen[mention.URL] = struct{}{}
			mentions = append(mentions, mention)
			return len(mentions) < limit
		})
	}

	return mentions, nil
}

func (c *OnionSearchCollector) fetchResults(ctx context.Context, endpoint, query string) (*goquery.Document, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %s: %w", endpoint, err)
	}
	values := parsed.Query()
	values.Set("q", query)
	parsed.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "DarkwebMonitor/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search endpoint returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse results: %w", err)
	}
	return doc, nil
}

func parseResultBlock(block *goquery.Selection, query string) (domain.Mention, bool) {
	link := block.Find("h4 a").First()
	href, exists := link.Attr("href")
	if !exists {
		return domain.Mention{}, false
	}
	href = unwrapRedirect(href)

	title := strings.TrimSpace(link.Text())
	description := strings.TrimSpace(block.Find("p").First().Text())
	if title == "" && description == "" {
		return domain.Mention{}, false
	}

	return domain.Mention{
		Title:   title,
		RawText: description,
		URL:     href,
		Metadata: map[string]string{
			"query":    query,
			"is_onion": strconv.FormatBool(strings.HasSuffix(hostOf(href), ".onion")),
		},
	}, true
}

// unwrapRedirect extracts the destination from search-index redirect links
// of the form /search/redirect?...&redirect_url=<target>.
func unwrapRedirect(href string) string {
	if !strings.Contains(href, "redirect_url=") {
		return href
	}
	if parsed, err := url.Parse(href); err == nil {
		if target := parsed.Query().Get("redirect_url"); target != "" {
			return target
		}
	}
	return href
}

func hostOf(raw string) string {
	if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return raw
}
