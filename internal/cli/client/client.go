package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/yndnr/linkmesh-go/internal/infra/tlsroots"
)

// Client is the admin HTTP client.
type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client) error

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		c.httpClient.Timeout = d
		return nil
	}
}

// WithCACert trusts the given PEM certificate file instead of the
// system roots. Used against servers with private CA certificates.
func WithCACert(path string) Option {
	return func(c *Client) error {
		pool := tlsroots.NewEmptyPool()
		if err := pool.AddCertFile(path); err != nil {
			return fmt.Errorf("load CA certificate: %w", err)
		}
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: pool.TLSConfig(),
		}
		return nil
	}
}

// New creates a client for the given server. A server without a
// scheme defaults to http://.
func New(server, adminToken string, opts ...Option) (*Client, error) {
	baseURL := server
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// BaseURL returns the server base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health checks the unauthenticated health endpoint.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	if err := c.get(ctx, "/health", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Links fetches the full short link per ID.
func (c *Client) Links(ctx context.Context) (map[string]string, error) {
	var result struct {
		Links map[string]string `json:"links"`
	}
	if err := c.get(ctx, "/admin/get_links", &result); err != nil {
		return nil, err
	}
	return result.Links, nil
}

// Codes fetches the raw ID to code table.
func (c *Client) Codes(ctx context.Context) (map[string]string, error) {
	var result struct {
		Codes map[string]string `json:"codes"`
	}
	if err := c.get(ctx, "/admin/get_codes", &result); err != nil {
		return nil, err
	}
	return result.Codes, nil
}

// PutRoutingTable uploads a full table replacement and returns the
// resulting entry count.
func (c *Client) PutRoutingTable(ctx context.Context, table io.Reader) (int, error) {
	return c.upload(ctx, http.MethodPut, table)
}

// PatchRoutingTable uploads a partial table merge and returns the
// resulting entry count.
func (c *Client) PatchRoutingTable(ctx context.Context, table io.Reader) (int, error) {
	return c.upload(ctx, http.MethodPatch, table)
}

func (c *Client) upload(ctx context.Context, method string, table io.Reader) (int, error) {
	// Tables compress well and can be large; always gzip the upload.
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := io.Copy(gz, table); err != nil {
		return 0, fmt.Errorf("compress table: %w", err)
	}
	if err := gz.Close(); err != nil {
		return 0, fmt.Errorf("compress table: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/admin/routing_table", &buf)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Content-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Entries int `json:"entries"`
	}
	if err := parseResponse(resp, &result); err != nil {
		return 0, err
	}
	return result.Entries, nil
}

func (c *Client) get(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	return parseResponse(resp, target)
}

func (c *Client) addHeaders(req *http.Request) {
	if c.adminToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.adminToken)
	}
	req.Header.Set("User-Agent", "linkmesh-cli/1.0")
}

// parseResponse unwraps the server's response envelope into target.
func parseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	var envelope struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details string          `json:"details"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		if resp.StatusCode >= 400 {
			return fmt.Errorf("request failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if envelope.Details != "" {
			return fmt.Errorf("[%s] %s: %s", envelope.Code, envelope.Message, envelope.Details)
		}
		return fmt.Errorf("[%s] %s", envelope.Code, envelope.Message)
	}

	if target != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, target); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}
