// Package inference calls the Hugging Face Inference API for
// summarization and extractive question answering.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the hosted Inference API endpoint.
const DefaultBaseURL = "https://api-inference.huggingface.co"

// Client implements the summarization and question-answering capabilities
// on top of the Inference API. One Client serves both models.
type Client struct {
	baseURL      string
	apiToken     string
	summaryModel string
	qaModel      string
	httpClient   *http.Client

	// Stats tracks capability call latencies within a rolling window.
	Stats *Stats
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used for self-hosted inference
// endpoints and in tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(apiToken, summaryModel, qaModel string, opts ...Option) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		apiToken:     apiToken,
		summaryModel: summaryModel,
		qaModel:      qaModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		Stats: NewStats(time.Hour),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SummaryModel returns the configured summarization model id.
func (c *Client) SummaryModel() string { return c.summaryModel }

// QAModel returns the configured question-answering model id.
func (c *Client) QAModel() string { return c.qaModel }

type summarizationParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type summarizationRequest struct {
	Inputs     string                  `json:"inputs"`
	Parameters summarizationParameters `json:"parameters"`
}

type summarizationResponse struct {
	SummaryText string `json:"summary_text"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Summarize generates a summary of text bounded by maxLength and
// minLength tokens, with sampling disabled.
func (c *Client) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	reqBody := summarizationRequest{
		Inputs: text,
		Parameters: summarizationParameters{
			MaxLength: maxLength,
			MinLength: minLength,
			DoSample:  false,
		},
	}

	raw, err := c.post(ctx, c.summaryModel, reqBody)
	if err != nil {
		return "", err
	}

	var results []summarizationResponse
	if err := json.Unmarshal(raw, &results); err != nil {
		return "", fmt.Errorf("decode summarization response: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("empty summarization response")
	}
	return results[0].SummaryText, nil
}

// Answer extracts the answer span for question from the given context.
// Only the answer text is used; the model's confidence score is ignored.
func (c *Client) Answer(ctx context.Context, question, contextText string) (string, error) {
	reqBody := qaRequest{
		Inputs: qaInputs{Question: question, Context: contextText},
	}

	raw, err := c.post(ctx, c.qaModel, reqBody)
	if err != nil {
		return "", err
	}

	var result qaResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode qa response: %w", err)
	}
	if result.Answer == "" {
		return "", fmt.Errorf("empty qa response")
	}
	return result.Answer, nil
}

// post sends one model invocation and returns the raw response body.
func (c *Client) post(ctx context.Context, model string, reqBody any) ([]byte, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if c.Stats != nil {
		c.Stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		return nil, fmt.Errorf("inference api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Model: model, Message: msg}
	}

	return respBody, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// APIError is a non-2xx response from the Inference API.
type APIError struct {
	StatusCode int
	Model      string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference api status %d (model %s): %s", e.StatusCode, e.Model, shorten(e.Message, 200))
}

func shorten(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
