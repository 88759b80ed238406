package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://maker.ifttt.com"
	DefaultEventName = "mileage-recorder-data"

	ContentType = "application/json; charset=utf-8"

	redacted = "REDACTED"
)

// ErrUnexpectedStatus is returned when the webhook answers with a non-2xx code
var ErrUnexpectedStatus = errors.New("unexpected webhook status")

// Config identifies the Maker trigger to call
type Config struct {
	BaseURL   string
	EventName string
	Key       string
}

// Client posts JSON bodies to a Maker webhook trigger
type Client struct {
	httpClient *http.Client
	url        string
	redacted   string
}

// Result describes a completed webhook call
type Result struct {
	StatusCode int
	Duration   time.Duration
}

// NewClient builds the trigger URL from cfg. A nil httpClient uses
// http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	if cfg.Key == "" {
		return nil, errors.New("webhook key is required")
	}
	if cfg.EventName == "" {
		cfg.EventName = DefaultEventName
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid webhook base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid webhook base url %q: scheme and host are required", cfg.BaseURL)
	}

	return &Client{
		httpClient: httpClient,
		url:        triggerURL(base.String(), cfg.EventName, cfg.Key),
		redacted:   triggerURL(base.String(), cfg.EventName, redacted),
	}, nil
}

// Pattern: <base>/trigger/<event>/with/key/<key>
func triggerURL(base, event, key string) string {
	return fmt.Sprintf("%s/trigger/%s/with/key/%s", base, url.PathEscape(event), url.PathEscape(key))
}

// URL returns the full trigger URL including the key
func (c *Client) URL() string {
	return c.url
}

// RedactedURL returns the trigger URL with the key replaced, safe to log
func (c *Client) RedactedURL() string {
	return c.redacted
}

// Method is the HTTP method used for every trigger call
func (c *Client) Method() string {
	return http.MethodPost
}

// Send posts body to the trigger. The response body is discarded.
func (c *Client) Send(ctx context.Context, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentType)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error embeds the full URL
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	result := &Result{StatusCode: resp.StatusCode, Duration: time.Since(start)}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return result, nil
}
