package instagram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/JustinTDCT/instameta/internal/config"
)

const defaultBaseURL = "https://www.instagram.com"

// Client fetches post metadata from the web JSON endpoint. A single
// invocation makes one request; the limiter spaces requests out when host
// hooks fire the plugin in quick succession.
type Client struct {
	baseURL    string
	userAgent  string
	sessionID  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg *config.Config) *Client {
	interval := cfg.RequestInterval
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Client{
		baseURL:   defaultBaseURL,
		userAgent: cfg.UserAgent,
		sessionID: cfg.IGSessionID,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FetchPost retrieves and parses the metadata for a post shortcode.
// fallbackURL is used as the permalink when the payload lacks a shortcode.
func (c *Client) FetchPost(ctx context.Context, shortcode, fallbackURL string) (*Post, error) {
	if shortcode == "" {
		return nil, fmt.Errorf("shortcode is required")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/p/%s/?__a=1&__d=dis", c.baseURL, shortcode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.sessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.sessionID})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("instagram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("instagram request failed (%d) for shortcode %s", resp.StatusCode, shortcode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParsePost(body, fallbackURL)
}
