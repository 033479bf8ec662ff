package provitel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// Client is a minimal HTTP client for the telecom provisioning API.
// Credentials are scoped to one master category; the portal holds one
// Client per category.
type Client struct {
	httpClient *http.Client
	baseURL    string
	username   string
	password   string
	debug      bool
}

// Config holds connection settings for one master category.
type Config struct {
	BaseURL  string
	Username string
	Password string
}

// NewClient constructs a provisioning client with sane defaults.
func NewClient(cfg Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		username:   cfg.Username,
		password:   cfg.Password,
		debug:      os.Getenv("ENV") == "development",
	}
}

// RegisterSIM registers a SIM/service with the provider and returns the
// provider-side reference.
func (c *Client) RegisterSIM(ctx context.Context, req *RegisterSIMRequest) (*RegisterSIMResponse, error) {
	var resp RegisterSIMResponse
	if err := c.doRequest(ctx, http.MethodPost, "/v1/sims", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ServiceStatus queries the provider-side state of a service.
func (c *Client) ServiceStatus(ctx context.Context, ref string) (*StatusResponse, error) {
	var resp StatusResponse
	path := "/v1/services/" + url.PathEscape(ref) + "/status"
	if err := c.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Usage performs a usage query against an arbitrary provider path with
// caller-supplied parameters. Endpoint configuration rows drive this;
// the portal does not interpret the result.
func (c *Client) Usage(ctx context.Context, path string, params map[string]string) (*UsageResponse, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid usage path: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	var resp UsageResponse
	if err := c.doRequest(ctx, http.MethodGet, u.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doRequest performs the HTTP call with basic auth and JSON payloads,
// decoding the JSON response into result.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	if c.debug {
		log.Debug().
			Str("method", method).
			Str("endpoint", c.baseURL+endpoint).
			RawJSON("request", orEmptyJSON(payload)).
			Msg("[PROVITEL] Outgoing request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.debug {
		log.Debug().
			Str("endpoint", endpoint).
			Int("status_code", resp.StatusCode).
			RawJSON("response", orEmptyJSON(respBody)).
			Msg("[PROVITEL] Incoming response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func orEmptyJSON(b []byte) []byte {
	if len(b) == 0 {
		return []byte("{}")
	}
	return b
}
