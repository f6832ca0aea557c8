// Package understanding implements the language-understanding service
// contract against an OpenAI-compatible chat-completions endpoint.
//
// The three operations (option matching, bulk slot extraction, final
// analysis) each send a single prompt and strictly parse the reply: the
// dialog engine never sees free-shaped model output.
package understanding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/counciltech/intake/internal/logging"
	"github.com/counciltech/intake/pkg/domain"
	"github.com/counciltech/intake/pkg/ports"
)

// noneSentinel is what the model is instructed to answer when no candidate
// label matches. Anything that is not a listed label is treated the same.
const noneSentinel = "none"

// Client talks to an OpenAI-compatible chat-completions API and implements
// ports.Understander. Safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	structured  bool
	httpCli     *http.Client
	logger      *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithTemperature overrides the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(c *Client) {
		c.temperature = temperature
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpCli.Timeout = timeout
	}
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithStructuredAnalysis makes Analyze request a JSON report instead of
// free-form prose. The caller is responsible for decoding the result.
func WithStructuredAnalysis() Option {
	return func(c *Client) {
		c.structured = true
	}
}

// NewClient creates a client for the given endpoint.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       "gpt-4",
		temperature: 0.3,
		httpCli: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// complete sends one prompt and returns the raw assistant reply.
func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// MatchOption resolves an utterance against a closed candidate list. The
// model must answer with one listed label verbatim or the sentinel "none";
// any other output is treated as no match.
func (c *Client) MatchOption(ctx context.Context, labels []string, utterance string) (string, error) {
	reply, err := c.complete(ctx, matchSystemPrompt, matchUserPrompt(labels, utterance))
	if err != nil {
		return ports.NoMatch, err
	}

	answer := strings.Trim(strings.TrimSpace(reply), "`\"'")
	if strings.EqualFold(answer, noneSentinel) {
		return ports.NoMatch, nil
	}

	for _, label := range labels {
		if strings.EqualFold(label, answer) {
			return label, nil
		}
	}

	c.logger.Debug("option match reply not in candidate list", "reply", truncate(answer, 80))
	return ports.NoMatch, nil
}

// ExtractSlots asks for a flat JSON object of slot name to raw value.
// Output that cannot be parsed as such is reported as Unparseable, never as
// an error: a bad extraction turn must not abort the dialog turn.
func (c *Client) ExtractSlots(ctx context.Context, slots []domain.SlotSpec, utterance string) (ports.Extraction, error) {
	reply, err := c.complete(ctx, extractSystemPrompt(slots), utterance)
	if err != nil {
		return ports.Extraction{}, err
	}

	values, perr := parseFlatObject(reply)
	if perr != nil {
		c.logger.Warn("slot extraction output not parseable", "err", perr, "raw", truncate(reply, 120))
		return ports.Unparseable(reply), nil
	}
	return ports.Extracted(values), nil
}

// Analyze produces the final recommendation from the collected answers and
// the conversation transcript, as prose or as a JSON report depending on
// WithStructuredAnalysis.
func (c *Client) Analyze(ctx context.Context, answers map[string]string, transcript []domain.Utterance) (string, error) {
	system := analyzeSystemPrompt
	if c.structured {
		system = analyzeStructuredSystemPrompt
	}
	return c.complete(ctx, system, analyzeUserPrompt(answers, transcript))
}

// parseFlatObject extracts a flat string/string JSON object from a model
// reply, tolerating markdown fences and surrounding prose.
func parseFlatObject(reply string) (map[string]string, error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("no JSON object found in reply")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			if strings.TrimSpace(val) != "" {
				values[k] = val
			}
		case float64:
			values[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", val), "0"), ".")
		case bool:
			values[k] = fmt.Sprintf("%t", val)
		}
		// Nested structures are dropped: the contract is a flat mapping.
	}
	return values, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
