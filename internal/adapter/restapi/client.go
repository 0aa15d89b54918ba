// Package restapi is the HTTP client of the remote products API.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/niksmo/shop-admin/internal/core/domain"
	"github.com/niksmo/shop-admin/internal/core/port"
)

var _ port.ProductsAPI = (*Client)(nil)
var _ port.AuthAPI = (*Client)(nil)

const (
	methodOverrideField = "_method"
	methodOverridePut   = "PUT"
)

type Opt func(*Client)

func HTTPClientOpt(hc *http.Client) Opt {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func TokenSourceOpt(ts port.TokenSource) Opt {
	return func(c *Client) {
		c.tokens = ts
	}
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  port.TokenSource
}

func New(baseURL string, opts ...Opt) Client {
	c := Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	bearer      bool
}

func (c Client) do(ctx context.Context, r request, out any) error {
	const op = "Client.do"
	log := slog.With("op", op, "method", r.method, "path", r.path)

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseURL+r.path, r.body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.bearer {
		if err := c.authorize(ctx, req); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn("failed to close response body", "err", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read body: %w", op, err)
	}

	log.Debug("response", "status", resp.StatusCode, "size", len(data))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: %w", op, decodeError(resp.StatusCode, data))
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: invalid JSON: %w", op, err)
	}
	return nil
}

func (c Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func decodeError(status int, data []byte) *domain.APIError {
	apiErr := &domain.APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return apiErr
	}
	apiErr.Message = body.Message
	apiErr.Fields = body.fields()
	return apiErr
}
