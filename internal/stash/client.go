// Package stash is a minimal GraphQL client for the host's API, covering the
// queries and mutations the plugin needs: item lookup, item update, and tag
// find-or-create.
package stash

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JustinTDCT/instameta/internal/config"
	"github.com/JustinTDCT/instameta/internal/plugin"
)

type Client struct {
	endpoint   string
	cookie     *plugin.SessionCookie
	httpClient *http.Client
}

// NewClient builds a client from the server connection block the host passes
// on stdin. Defaults mirror the host's own fallbacks.
func NewClient(conn *plugin.ServerConnection, cfg *config.Config) *Client {
	scheme := "http"
	host := "localhost"
	port := 9999
	var cookie *plugin.SessionCookie
	if conn != nil {
		if conn.Scheme != "" {
			scheme = conn.Scheme
		}
		if conn.Host != "" {
			host = conn.Host
		}
		if conn.Port != 0 {
			port = conn.Port
		}
		if conn.SessionCookie != nil && conn.SessionCookie.Name != "" && conn.SessionCookie.Value != "" {
			cookie = conn.SessionCookie
		}
	}
	return &Client{
		endpoint: fmt.Sprintf("%s://%s:%d%s", scheme, host, port, cfg.GraphQLPath),
		cookie:   cookie,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphqlError struct {
	Message string `json:"message"`
}

func (c *Client) execute(ctx context.Context, query string, variables map[string]interface{}, into interface{}) error {
	if variables == nil {
		variables = map[string]interface{}{}
	}
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cookie != nil {
		req.AddCookie(&http.Cookie{Name: c.cookie.Name, Value: c.cookie.Value})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql request failed with status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", envelope.Errors[0].Message)
	}
	if into != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, into); err != nil {
			return fmt.Errorf("decode graphql data: %w", err)
		}
	}
	return nil
}
