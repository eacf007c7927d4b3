package taxid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"baseapi/internal/example/models"
	"baseapi/pkg/platform/sentinel"
)

const (
	defaultHTTPTimeout = 2 * time.Second
	cuitPath           = "/api/cuit"
	maxResponseBytes   = 64 << 10
)

// Response is the JSON body returned by the tax ID service.
type Response struct {
	CUIT   string `json:"cuit"`
	DNI    string `json:"dni"`
	Genero string `json:"genero"`
}

// HTTPCalculator calls GET {base}/api/cuit?dni=..&genero=.. once per Derive.
type HTTPCalculator struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// HTTPOption configures an HTTPCalculator.
type HTTPOption func(*HTTPCalculator)

// WithHTTPClient swaps the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPCalculator) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) HTTPOption {
	return func(h *HTTPCalculator) {
		if d > 0 {
			h.timeout = d
		}
	}
}

func NewHTTP(baseURL string, opts ...HTTPOption) (*HTTPCalculator, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("tax ID service URL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid tax ID service URL: %w", err)
	}
	h := &HTTPCalculator{
		baseURL: baseURL,
		client:  &http.Client{},
		timeout: defaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *HTTPCalculator) Derive(ctx context.Context, nationalID string, gender models.Gender) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("dni", nationalID)
	q.Set("genero", gender.String())
	endpoint := h.baseURL + cuitPath + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build tax ID request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: call tax ID service: %v", sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return "", fmt.Errorf("%w: tax ID service returned %d", sentinel.ErrUnavailable, resp.StatusCode)
	}

	var body Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decode tax ID response: %w", err)
	}
	cuit := strings.TrimSpace(body.CUIT)
	if cuit == "" {
		return "", errors.New("tax ID response has no cuit")
	}
	return cuit, nil
}
