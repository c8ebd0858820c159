// Package api talks to the RFP backend over its JSON HTTP surface.
//
// Create and generate calls treat any non-2xx status as failure. List calls
// trust the backend to return the documented JSON shape and do not check the
// status code; a body that fails to decode is still reported as an error.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	pathRFPs     = "/api/rfps"
	pathSections = "/api/sections"
	pathGenerate = "/api/generate"

	headerRequestID = "X-Request-ID"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	newID   func() string
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Transport: c.http.Transport, Timeout: d}
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListRFPs(ctx context.Context) ([]RFP, error) {
	var out []RFP
	if _, err := c.do(ctx, http.MethodGet, pathRFPs, nil, nil, false, &out); err != nil {
		return nil, fmt.Errorf("list rfps: %w", err)
	}
	return out, nil
}

func (c *Client) CreateRFP(ctx context.Context, in NewRFP) error {
	if _, err := c.do(ctx, http.MethodPost, pathRFPs, nil, in, true, nil); err != nil {
		return fmt.Errorf("create rfp: %w", err)
	}
	return nil
}

func (c *Client) ListSections(ctx context.Context, rfpID ID) ([]Section, error) {
	q := url.Values{}
	q.Set("rfp_id", rfpID.String())
	var out []Section
	if _, err := c.do(ctx, http.MethodGet, pathSections, q, nil, false, &out); err != nil {
		return nil, fmt.Errorf("list sections for rfp %s: %w", rfpID, err)
	}
	return out, nil
}

func (c *Client) CreateSection(ctx context.Context, in NewSection) error {
	if _, err := c.do(ctx, http.MethodPost, pathSections, nil, in, true, nil); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Generate returns the drafted text. A response without a text field yields "".
func (c *Client) Generate(ctx context.Context, in GenerateRequest) (string, error) {
	var out generateResponse
	if _, err := c.do(ctx, http.MethodPost, pathGenerate, nil, in, true, &out); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return out.Text, nil
}

// Ping checks that the backend answers the RFP listing with a 2xx status and a
// decodable body.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	start := time.Now()
	var out []RFP
	code, err := c.do(ctx, http.MethodGet, pathRFPs, nil, nil, true, &out)
	res := PingResult{StatusCode: code, Latency: time.Since(start), RFPs: len(out)}
	if err != nil {
		return res, fmt.Errorf("ping %s: %w", c.baseURL, err)
	}
	return res, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any, checkStatus bool, out any) (int, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := c.newID()
	req.Header.Set(headerRequestID, reqID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return 0, err
	}
	defer resp.Body.Close()

	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", reqID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if checkStatus && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
		return resp.StatusCode, newStatusError(method, path, resp.StatusCode, errBody)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
