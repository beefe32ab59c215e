// Package graphql is a minimal client for the code search GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iw2rmb/indexconf"
)

const apiPath = "/.api/graphql"

// maxErrorBody bounds how much of a failed response is kept in HTTPError.
const maxErrorBody = 4 << 10

// Client posts GraphQL operations to a single endpoint.
type Client struct {
	Endpoint   string // e.g. https://sourcegraph.com
	Token      string // access token; empty for anonymous requests
	HTTPClient *http.Client
	Logger     *zap.Logger
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors"`
}

// Do executes query with vars and decodes the "data" member into out. out
// may be nil when the caller does not need the payload.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	url := strings.TrimSuffix(c.Endpoint, "/") + apiPath
	if name := operationName(query); name != "" {
		url += "?" + name
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", indexconf.UserAgent())
	req.Header.Set("X-Request-Id", requestID)
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	log := c.logger().With(zap.String("request_id", requestID), zap.String("url", url))
	log.Debug("graphql request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		log.Warn("graphql request failed", zap.Error(err))
		return fmt.Errorf("graphql request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("graphql request rejected", zap.Int("status", resp.StatusCode))
		return &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(r.Errors) > 0 {
		log.Debug("graphql errors", zap.Int("count", len(r.Errors)))
		return Errors(r.Errors)
	}
	if out == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

// operationName extracts the name of the first operation in query, used as
// a URL hint the server logs.
func operationName(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '(' || r == '{'
	})
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "query" || fields[i] == "mutation" {
			return fields[i+1]
		}
	}
	return ""
}
