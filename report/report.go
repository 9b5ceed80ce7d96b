// Package report pushes finished match results to an external results API.
// Delivery is best-effort: the match outcome is already final and the game
// never waits on or retries the POST.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/HUSSEINKHRAYZAT/ft-transcendence-sub001/game"
)

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 5 * time.Second},
	}
}

// Report posts the result once. Failures are logged and dropped.
func (c *Client) Report(ctx context.Context, result game.MatchResult) {
	body, err := json.Marshal(result)
	if err != nil {
		log.Error().Err(err).Msg("match result marshal failed")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		log.Error().Err(err).Msg("match report request failed")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("room", result.RoomID).Msg("match report not delivered")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Warn().Int("status", resp.StatusCode).Str("room", result.RoomID).Msg("match report rejected")
	}
}
