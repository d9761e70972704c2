package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// Client consome o feed de odds da the-odds-api (ou de um feed compatível)
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Log        *zap.Logger
}

func NewClient(baseURL, apiKey string, log *zap.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Log:        log,
	}
}

// FetchOdds busca as odds correntes de um esporte em formato americano.
// Retorna os eventos do payload e os headers de cota da API.
func (c *Client) FetchOdds(ctx context.Context, sport, regions, markets string) ([]APIEvent, Quota, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return nil, Quota{}, fmt.Errorf("parse base url: %w", err)
	}
	u.Path = fmt.Sprintf("/v4/sports/%s/odds", sport)

	q := u.Query()
	q.Set("apiKey", c.APIKey)
	q.Set("regions", regions)
	q.Set("markets", markets)
	q.Set("oddsFormat", "american")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, Quota{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, Quota{}, fmt.Errorf("fetch odds: %w", err)
	}
	defer resp.Body.Close()

	quota := Quota{
		Remaining: resp.Header.Get("x-requests-remaining"),
		Used:      resp.Header.Get("x-requests-used"),
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, quota, fmt.Errorf("odds api status %d: %s", resp.StatusCode, string(body))
	}

	var events []APIEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, quota, fmt.Errorf("decode odds payload: %w", err)
	}

	c.Log.Debug("odds fetched",
		zap.Int("events", len(events)),
		zap.String("quota_remaining", quota.Remaining),
	)
	return events, quota, nil
}
