package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const (
	feedSource = "odds_feed"
	propsPath  = "/v1/nfl/props"
)

// propsResponse is the feed payload
type propsResponse struct {
	Props []models.PropLine `json:"props"`
}

// OddsFeedClient fetches prop lines from the HTTP odds feed
type OddsFeedClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

// NewOddsFeedClient creates a new odds feed client
func NewOddsFeedClient(httpClient *RateLimitedHTTPClient, cfg config.OddsFeedConfig, log *logrus.Logger) *OddsFeedClient {
	return &OddsFeedClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     log.WithField("component", feedSource),
	}
}

// PropLines returns the market's lines for the period ordered by entity name.
// Feed failures are reported as data store errors.
func (c *OddsFeedClient) PropLines(ctx context.Context, season, week int, market models.Market) ([]models.PropLine, error) {
	lines, err := c.fetch(ctx, season, week, market)
	if err != nil {
		return nil, models.NewDataStoreError("prop lines", err)
	}
	return lines, nil
}

func (c *OddsFeedClient) fetch(ctx context.Context, season, week int, market models.Market) ([]models.PropLine, error) {
	query := url.Values{}
	query.Set("season", strconv.Itoa(season))
	query.Set("week", strconv.Itoa(week))
	query.Set("market", string(market))
	endpoint := fmt.Sprintf("%s%s?%s", c.baseURL, propsPath, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newFeedError(ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, newFeedError(ErrCodeNetworkError, "failed to fetch props", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, newFeedError(ErrCodeAuthenticationFailed, "invalid API key", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newFeedError(ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, newFeedError(ErrCodeServerError, fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload propsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, newFeedError(ErrCodeInvalidData, "failed to parse response", err)
	}

	lines := make([]models.PropLine, 0, len(payload.Props))
	for _, line := range payload.Props {
		if line.Market != "" && line.Market != market {
			continue
		}
		if models.NormalizeName(line.Entity) == "" {
			c.logger.WithField("book", line.Book).Warn("Dropping prop line without entity")
			continue
		}
		line.Market = market
		line.Team = models.NormalizeTeam(line.Team)
		line.Opponent = models.NormalizeTeam(line.Opponent)
		lines = append(lines, line)
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return models.NormalizeName(lines[i].Entity) < models.NormalizeName(lines[j].Entity)
	})

	c.logger.WithFields(logrus.Fields{
		"season": season,
		"week":   week,
		"market": market,
		"lines":  len(lines),
	}).Debug("Fetched prop lines")

	return lines, nil
}
