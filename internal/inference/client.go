package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api-inference.huggingface.co/models"
	DefaultModel   = "HuggingFaceH4/zephyr-7b-beta"

	// maxErrorBody caps how much of an error response is kept in StatusError.
	maxErrorBody = 512
)

// ErrEmptyResponse is returned when the endpoint answers with no generations.
var ErrEmptyResponse = errors.New("empty generation response")

// Parameters controls a single text-generation call.
type Parameters struct {
	Temperature    float64 `json:"temperature"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	ReturnFullText bool    `json:"return_full_text"`
}

type generateRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client talks to a hosted text-generation inference endpoint. It makes
// exactly one attempt per call.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a client for model on the default hosted endpoint.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		model:      model,
		httpClient: &http.Client{},
	}
}

// NewClientWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewClientWithBaseURL(apiKey, baseURL, model string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// HasCredentials reports whether an API token is configured.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Endpoint returns the URL generation requests are sent to.
func (c *Client) Endpoint() string {
	return c.baseURL + "/" + c.model
}

// Generate sends prompt to the model and returns the first generated text.
// The request is bounded by ctx; callers set the deadline.
func (c *Client) Generate(ctx context.Context, prompt string, params Parameters) (string, error) {
	body, err := json.Marshal(generateRequest{Inputs: prompt, Parameters: params})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var out []generation
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response after %s: %w", time.Since(start).Round(time.Millisecond), err)
	}
	if len(out) == 0 {
		return "", ErrEmptyResponse
	}
	return out[0].GeneratedText, nil
}
