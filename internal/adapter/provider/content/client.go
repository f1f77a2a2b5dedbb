// Package content calls the external content provider that renders question
// prompts and answer texts for verification items. The provider is optional
// at runtime: on failure the item generator falls back to pooled items and
// raw block definitions.
package content

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

	"github.com/lexigraph/engine/internal/domain"
)

// RenderRequest asks the provider to phrase one question for a block.
type RenderRequest struct {
	QuestionType domain.QuestionType `json:"question_type"`
	Target       blockPayload        `json:"target"`
	Distractors  []blockPayload      `json:"distractors"`
}

type blockPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Definition string `json:"definition"`
	Tier       int    `json:"tier"`
}

// RenderResult is the provider's phrasing of a question: the prompt, the
// correct answer text, and a rendered text per distractor block id.
type RenderResult struct {
	Prompt          string            `json:"prompt"`
	CorrectText     string            `json:"correct_text"`
	DistractorTexts map[string]string `json:"distractor_texts"`
}

// Client calls the content provider HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	log        *slog.Logger
}

// NewClient creates a content provider client with a bounded per-request
// timeout.
func NewClient(baseURL string, timeout time.Duration, retries int, backoff time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    backoff,
		log:        logger.With("adapter", "content"),
	}
}

// Render asks the provider to phrase a question for the target block.
func (c *Client) Render(ctx context.Context, target domain.Block, qtype domain.QuestionType, distractors []domain.Block) (RenderResult, error) {
	reqBody := RenderRequest{
		QuestionType: qtype,
		Target:       toPayload(target),
	}
	for _, d := range distractors {
		reqBody.Distractors = append(reqBody.Distractors, toPayload(d))
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return RenderResult{}, fmt.Errorf("content: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			c.log.WarnContext(ctx, "content retry",
				slog.String("block_id", target.ID), slog.Int("attempt", attempt))
			select {
			case <-ctx.Done():
				return RenderResult{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		result, err := c.render(ctx, payload)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	c.log.ErrorContext(ctx, "content render failed",
		slog.String("block_id", target.ID), slog.String("error", lastErr.Error()))

	return RenderResult{}, fmt.Errorf("content: render %s: %w", target.ID, domain.ErrUpstream)
}

func (c *Client) render(ctx context.Context, payload []byte) (RenderResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/render", bytes.NewReader(payload))
	if err != nil {
		return RenderResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RenderResult{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return RenderResult{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result RenderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return RenderResult{}, fmt.Errorf("decode response: %w", err)
	}
	if result.Prompt == "" || result.CorrectText == "" {
		return RenderResult{}, fmt.Errorf("incomplete render result")
	}

	return result, nil
}

func toPayload(b domain.Block) blockPayload {
	return blockPayload{
		ID:         b.ID,
		Text:       b.Text,
		Definition: b.Definition,
		Tier:       b.Tier,
	}
}
