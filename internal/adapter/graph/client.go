// Package graph reads vocabulary blocks and their typed relationships from
// the external Knowledge Graph service. The graph owns the content; this
// engine never writes to it and tolerates its absence by degrading.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lexigraph/engine/internal/domain"
)

// Client fetches blocks from the Knowledge Graph HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	log        *slog.Logger
}

// NewClient creates a graph client. Timeout bounds every single request;
// retries is the number of extra attempts on 5xx or network errors.
func NewClient(baseURL string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		log:        logger.With("adapter", "graph"),
	}
}

// GetBlock fetches a single block with its relationships.
func (c *Client) GetBlock(ctx context.Context, blockID string) (domain.Block, error) {
	var dto blockDTO
	if err := c.getJSON(ctx, "/v1/blocks/"+url.PathEscape(blockID), &dto); err != nil {
		return domain.Block{}, err
	}
	return dto.toDomain(), nil
}

// GetBlocks fetches a batch of blocks in one round trip. Missing ids are
// simply absent from the result; the map never contains zero-value blocks.
func (c *Client) GetBlocks(ctx context.Context, blockIDs []string) (map[string]domain.Block, error) {
	if len(blockIDs) == 0 {
		return map[string]domain.Block{}, nil
	}

	q := url.Values{"ids": {strings.Join(blockIDs, ",")}}
	var dtos []blockDTO
	if err := c.getJSON(ctx, "/v1/blocks?"+q.Encode(), &dtos); err != nil {
		return nil, err
	}

	blocks := make(map[string]domain.Block, len(dtos))
	for _, dto := range dtos {
		blocks[dto.ID] = dto.toDomain()
	}

	c.log.DebugContext(ctx, "graph batch fetch",
		slog.Int("requested", len(blockIDs)),
		slog.Int("returned", len(blocks)),
	)

	return blocks, nil
}

// ListLevelBand returns blocks in the tier range [minTier, maxTier], ordered
// by frequency rank ascending. The selector uses it to fill the portion of a
// study set that is not connected to already-learned material.
func (c *Client) ListLevelBand(ctx context.Context, minTier, maxTier, limit int) ([]domain.Block, error) {
	q := url.Values{
		"min_tier": {fmt.Sprint(minTier)},
		"max_tier": {fmt.Sprint(maxTier)},
		"limit":    {fmt.Sprint(limit)},
		"order":    {"frequency_rank"},
	}

	var dtos []blockDTO
	if err := c.getJSON(ctx, "/v1/blocks?"+q.Encode(), &dtos); err != nil {
		return nil, err
	}

	blocks := make([]domain.Block, 0, len(dtos))
	for _, dto := range dtos {
		blocks = append(blocks, dto.toDomain())
	}

	return blocks, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("graph: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "graph request failed",
			slog.String("path", path), slog.String("error", err.Error()))
		return fmt.Errorf("graph: %s: %w", path, domain.ErrUpstream)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("graph: %s: %w", path, domain.ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		c.log.ErrorContext(ctx, "graph unexpected status",
			slog.String("path", path), slog.Int("status", resp.StatusCode))
		return fmt.Errorf("graph: %s: status %d: %w", path, resp.StatusCode, domain.ErrUpstream)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("graph: read body: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("graph: decode json: %w", err)
	}

	return nil
}

// doWithRetry executes the request, retrying on 5xx or network errors up to
// the configured count.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)

	for attempt := 0; ; attempt++ {
		resp, err = c.httpClient.Do(req)

		shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
		if !shouldRetry || attempt >= c.retries || ctx.Err() != nil {
			return resp, err
		}

		reason := "network error"
		if err == nil {
			reason = fmt.Sprintf("status %d", resp.StatusCode)
			resp.Body.Close()
		}
		c.log.WarnContext(ctx, "graph retry",
			slog.String("path", req.URL.Path), slog.String("reason", reason))

		time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
	}
}
