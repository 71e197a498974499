// Package corsfetch issues cross-origin HTTP requests with a fallback chain
// of public CORS relay endpoints. A direct attempt is always made first; the
// relays are only consulted when the direct attempt fails at the transport
// level. The first relay response that resolves is returned as-is, whatever
// its HTTP status.
package corsfetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agenticv-server/internal/logging"
)

const requestedWithHeader = "XMLHttpRequest"

// Options configures a Client
type Options struct {
	// Proxies is the ordered list of CORS relay base URLs. Each is prefixed
	// onto the original request URL.
	Proxies []string

	// Origin is embedded in the synthesized error when every attempt fails,
	// so the operator knows which origin to allow on the target.
	Origin string

	// Timeout bounds each individual attempt. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client

	Logger logging.Logger
}

// Client is a CORS-aware HTTP client
type Client struct {
	httpClient *http.Client
	proxies    []string
	origin     string
	logger     logging.Logger
}

// NewClient creates a CORS-aware fetch client
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	return &Client{
		httpClient: httpClient,
		proxies:    opts.Proxies,
		origin:     opts.Origin,
		logger:     logger,
	}
}

// Get fetches the URL, falling back through the proxy chain on transport failure
func (c *Client) Get(ctx context.Context, target string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, target, "", nil)
}

// Post sends the body to the URL, falling back through the proxy chain on
// transport failure
func (c *Client) Post(ctx context.Context, target, contentType string, body []byte) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, target, contentType, body)
}

// Do issues the request directly, then retries through each configured proxy
// in order. A response with any HTTP status counts as resolved; only
// transport-level errors trigger the next attempt. The attempt count is
// therefore bounded by 1 + len(proxies).
func (c *Client) Do(ctx context.Context, method, target, contentType string, body []byte) (*http.Response, error) {
	resp, directErr := c.attempt(ctx, method, target, contentType, body, false)
	if directErr == nil {
		return resp, nil
	}

	c.logger.Warn("Direct cross-origin request failed, trying CORS proxies", map[string]interface{}{
		"url":     target,
		"error":   directErr.Error(),
		"proxies": len(c.proxies),
	})

	for _, proxy := range c.proxies {
		proxied := proxyURL(proxy, target)

		resp, err := c.attempt(ctx, method, proxied, contentType, body, true)
		if err == nil {
			c.logger.Info("CORS proxy attempt resolved", map[string]interface{}{
				"proxy":  proxy,
				"status": resp.StatusCode,
			})
			return resp, nil
		}

		c.logger.Warn("CORS proxy attempt failed", map[string]interface{}{
			"proxy": proxy,
			"error": err.Error(),
		})
	}

	return nil, fmt.Errorf(
		"all cross-origin attempts failed: requests from origin %s were blocked; configure the target endpoint to allow requests from %s (direct attempt: %v)",
		c.origin, c.origin, directErr,
	)
}

func (c *Client) attempt(ctx context.Context, method, target, contentType string, body []byte, viaProxy bool) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if viaProxy {
		req.Header.Set("X-Requested-With", requestedWithHeader)
	}

	return c.httpClient.Do(req)
}

// proxyURL prefixes the relay base onto the target. Relays that take the
// target as a query parameter (base ends in "=") get it URL-encoded; plain
// path-style relays get it appended verbatim.
func proxyURL(proxy, target string) string {
	if strings.HasSuffix(proxy, "=") {
		return proxy + url.QueryEscape(target)
	}
	return proxy + target
}
