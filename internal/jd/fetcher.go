package jd

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mendableai/firecrawl-go"

	"agenticv-server/internal/config"
	"agenticv-server/internal/logging"
	"agenticv-server/pkg/corsfetch"
)

// Fetcher extracts job description text from a URL
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// NewFetcher picks the Firecrawl engine when an API key is configured,
// otherwise the plain HTTP engine
func NewFetcher(cfg *config.Config) Fetcher {
	logger := logging.GetGlobalLogger()

	if cfg.Firecrawl.APIKey != "" {
		app, err := firecrawl.NewFirecrawlApp(cfg.Firecrawl.APIKey, cfg.Firecrawl.APIURL)
		if err == nil {
			logger.Info("Using Firecrawl for job description fetching", map[string]interface{}{
				"api_url": cfg.Firecrawl.APIURL,
			})
			return &FirecrawlFetcher{app: app, logger: logger}
		}
		logger.Warn("Failed to initialize Firecrawl, falling back to HTTP fetcher", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return &HTTPFetcher{
		client: corsfetch.NewClient(corsfetch.Options{
			Proxies: cfg.CORS.Proxies,
			Origin:  cfg.CORS.Origin,
			Timeout: cfg.Webhook.Timeout,
			Logger:  logger,
		}),
		logger: logger,
	}
}

var whitespaceRun = regexp.MustCompile(`[ \t]+`)
var blankLines = regexp.MustCompile(`\n{3,}`)

// HTTPFetcher fetches the page through the CORS-aware client and extracts the
// visible text with goquery
type HTTPFetcher struct {
	client *corsfetch.Client
	logger logging.Logger
}

// FetchText downloads the URL and returns the page's visible text
func (f *HTTPFetcher) FetchText(ctx context.Context, url string) (string, error) {
	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return "", fmt.Errorf("failed to fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/plain") || strings.Contains(contentType, "application/json") {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read response from %s: %w", url, err)
		}
		return strings.TrimSpace(string(body)), nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page at %s: %w", url, err)
	}

	doc.Find("script, style, noscript, nav, header, footer").Remove()

	text := extractText(doc)
	if text == "" {
		return "", fmt.Errorf("no readable text found at %s", url)
	}

	f.logger.Info("Fetched job description text", map[string]interface{}{
		"url":    url,
		"length": len(text),
	})

	return text, nil
}

func extractText(doc *goquery.Document) string {
	var b strings.Builder

	// Prefer the main content region when the page declares one
	scope := doc.Find("main, article, [role=main]")
	if scope.Length() == 0 {
		scope = doc.Find("body")
	}

	scope.Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(sel.Text())
		b.WriteString("\n")
	})

	text := whitespaceRun.ReplaceAllString(b.String(), " ")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// FirecrawlFetcher fetches the page through the Firecrawl API
type FirecrawlFetcher struct {
	app    *firecrawl.FirecrawlApp
	logger logging.Logger
}

// FetchText scrapes the URL via Firecrawl and returns its markdown content
func (f *FirecrawlFetcher) FetchText(ctx context.Context, url string) (string, error) {
	doc, err := f.app.ScrapeURL(url, &firecrawl.ScrapeParams{
		Formats: []string{"markdown"},
	})
	if err != nil {
		return "", fmt.Errorf("firecrawl fetch failed for %s: %w", url, err)
	}

	if doc == nil {
		return "", fmt.Errorf("no result returned from Firecrawl for %s", url)
	}

	content := doc.Markdown
	if content == "" {
		content = doc.HTML
	}
	if content == "" {
		return "", fmt.Errorf("no content found in Firecrawl response for %s", url)
	}

	f.logger.Info("Fetched job description via Firecrawl", map[string]interface{}{
		"url":    url,
		"length": len(content),
	})

	return strings.TrimSpace(content), nil
}
