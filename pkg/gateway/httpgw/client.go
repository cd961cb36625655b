// Package httpgw is a gateway.Store speaking the REST dialect served by
// internal/server: POST /{collection}, GET|PUT /{collection}/{id} and
// GET /{collection}.
package httpgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goliatone/go-entityform/pkg/gateway"
	"github.com/goliatone/go-entityform/pkg/model"
)

// Client resolves collections against a base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers.Add(name, value)
	}
}

var _ gateway.Store = (*Client)(nil)

// New constructs a client for baseURL.
func New(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		headers:    make(http.Header),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Collection returns a handle bound to name.
func (c *Client) Collection(name string) gateway.Collection {
	return &collection{client: c, name: name}
}

// StatusError reports an unexpected HTTP status.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("httpgw: %s %s: status %d", e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

type createResponse struct {
	ID string `json:"id"`
}

type collection struct {
	client *Client
	name   string
}

func (c *collection) url(id string) string {
	u := c.client.baseURL + "/" + url.PathEscape(c.name)
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	return u
}

func (c *collection) Create(ctx context.Context, values model.Record) (string, error) {
	var out createResponse
	if err := c.client.do(ctx, http.MethodPost, c.url(""), values, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", fmt.Errorf("httpgw: create %s: response carries no id", c.name)
	}
	return out.ID, nil
}

func (c *collection) Update(ctx context.Context, id string, values model.Record) error {
	return c.client.do(ctx, http.MethodPut, c.url(id), values, nil)
}

func (c *collection) GetByID(ctx context.Context, id string) (model.Record, error) {
	var out model.Record
	if err := c.client.do(ctx, http.MethodGet, c.url(id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection) List(ctx context.Context) ([]model.Record, error) {
	var out []model.Record
	if err := c.client.do(ctx, http.MethodGet, c.url(""), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, target string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("httpgw: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("httpgw: build request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpgw: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("httpgw: %s %s: %w", method, target, gateway.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, URL: target, Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpgw: decode response: %w", err)
	}
	return nil
}
