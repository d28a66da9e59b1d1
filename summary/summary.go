package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "openai/gpt-oss-120b"
	DefaultTimeout = 30 * time.Second

	maxResponseBytes = 4 << 20

	temperature  = 0.7
	systemPrompt = "You are a YouTube video summarizer."
)

const prompt = `
You are a YouTube video summarizer.
Summarize the transcript below into a clean, concise bullet-point summary
within 250 words. Use clear, structured formatting.

Transcript:
`

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// APIError is returned when the completion endpoint answers with a non-200
// status. Body holds the raw response body.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Groq API Error: %d %s", e.StatusCode, e.Body)
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// Summarize sends one non-streaming chat completion request and returns the
// content of the first choice.
func (c *Client) Summarize(ctx context.Context, transcript string) (string, error) {
	payload, err := json.Marshal(completionRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt + transcript},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding completion request")
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "creating completion request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "calling completion API")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", errors.Wrap(err, "reading completion response")
	}

	logrus.WithFields(logrus.Fields{
		"model":    c.cfg.Model,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Info("Completion API responded")

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result completionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", errors.Wrap(err, "decoding completion response")
	}
	if len(result.Choices) == 0 {
		return "", errors.New("completion response contained no choices")
	}

	return result.Choices[0].Message.Content, nil
}
