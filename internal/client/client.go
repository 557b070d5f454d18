package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-eats/internal/models"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 15 * time.Second
)

// Config configures a Client. Zero values fall back to the defaults.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is the typed Resource Client for the campus eats REST backend.
// It performs no retries.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    httpClient,
	}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// BaseURL returns the base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// APIError is a rejected request: a non-2xx status or a business error code in
// the response envelope. It unwraps to the matching models error kind.
type APIError struct {
	StatusCode int
	Code       models.Code
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d (%s)", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Code.Err()
}

// envelope is the canonical wrapped response. A body is treated as an
// envelope only when it is a JSON object with a "code" member.
type envelope struct {
	Code    json.Number     `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type validator interface {
	Validate() error
}

// do sends one request and decodes the unwrapped payload into out. An empty
// payload leaves out untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(method, path, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(method, path, err)
	}

	payload, err := unwrap(resp.StatusCode, bodyBytes)
	if err != nil {
		return err
	}
	if out == nil || isEmpty(payload) {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s %s response: %v", models.ErrInvalidResponse, method, path, err)
	}
	return nil
}

// unwrap applies the envelope rules and returns the payload, or the APIError
// the response represents.
func unwrap(status int, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)

	var env envelope
	isEnvelope := false
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var members map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &members); err == nil {
			if _, ok := members["code"]; ok {
				dec := json.NewDecoder(bytes.NewReader(trimmed))
				dec.UseNumber()
				if err := dec.Decode(&env); err != nil {
					return nil, fmt.Errorf("%w: malformed response envelope: %v", models.ErrInvalidResponse, err)
				}
				isEnvelope = true
			}
		}
	}

	if status < 200 || status > 299 {
		apiErr := &APIError{StatusCode: status}
		if isEnvelope {
			apiErr.Message = env.Message
			apiErr.Code = classify(env, status)
		} else {
			apiErr.Message = plainMessage(trimmed)
			apiErr.Code = models.CodeForStatus(status)
		}
		return nil, apiErr
	}

	if !isEnvelope {
		return trimmed, nil
	}

	code, err := env.Code.Int64()
	if err != nil {
		return nil, fmt.Errorf("%w: envelope code %q is not numeric", models.ErrInvalidResponse, env.Code)
	}
	if code != 0 && code != http.StatusOK {
		return nil, &APIError{
			StatusCode: status,
			Code:       classify(env, int(code)),
			Message:    env.Message,
		}
	}
	return env.Data, nil
}

// classify picks the error code string first and falls back to the numeric
// status.
func classify(env envelope, status int) models.Code {
	code := models.Code(strings.ToUpper(strings.TrimSpace(env.Error)))
	if code.Err() != nil {
		return code
	}
	if n, err := env.Code.Int64(); err == nil {
		if c := models.CodeForStatus(int(n)); c != models.CodeUnknown {
			return c
		}
	}
	return models.CodeForStatus(status)
}

func plainMessage(body []byte) string {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &m); err == nil {
		if m.Message != "" {
			return m.Message
		}
		if m.Error != "" {
			return m.Error
		}
	}
	msg := string(body)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func isEmpty(payload json.RawMessage) bool {
	return len(payload) == 0 || string(payload) == "null"
}

func transportError(method, path string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %w", models.ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %w", models.ErrNetwork, method, path, err)
}

func validateAll[T any, P interface {
	*T
	validator
}](items []T) error {
	for i := range items {
		if err := P(&items[i]).Validate(); err != nil {
			return err
		}
	}
	return nil
}
