package datasource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rinkwar/internal/logger"
	"github.com/yourusername/rinkwar/internal/metrics"
)

const eaSourceName = "ea_clubs"

// Match is one game as returned by the EA clubs matches endpoint. Player
// stat entries are kept raw; the normalizer coerces them.
type Match struct {
	MatchID   string                                       `json:"matchId"`
	Timestamp int64                                        `json:"timestamp"`
	Clubs     map[string]ClubResult                        `json:"clubs"`
	Players   map[string]map[string]map[string]interface{} `json:"players"`
}

// ClubResult is the per-club summary of a match
type ClubResult struct {
	Result        FlexInt `json:"result"`
	TeamSide      FlexInt `json:"teamSide"`
	Score         FlexInt `json:"score"`
	OpponentScore FlexInt `json:"opponentScore"`
}

// FlexInt decodes integers EA sends either as JSON numbers or as strings
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*f = FlexInt(n)
	return nil
}

// EAClient implements MatchSource for the EA NHL clubs API
type EAClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	platform   string
	matchType  string
	logger     *logger.IngestLogger
}

// NewEAClient creates a new EA clubs API client
func NewEAClient(httpClient *RateLimitedHTTPClient, baseURL, platform, matchType string, log *logrus.Logger) *EAClient {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &EAClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		platform:   platform,
		matchType:  matchType,
		logger:     logger.NewIngestLogger(log),
	}
}

// Name returns the name of the data source
func (c *EAClient) Name() string {
	return eaSourceName
}

// MatchesURL returns the endpoint for one club's recent matches
func (c *EAClient) MatchesURL(clubID string) string {
	q := url.Values{}
	q.Set("clubIds", clubID)
	q.Set("platform", c.platform)
	q.Set("matchType", c.matchType)
	return c.baseURL + "/clubs/matches?" + q.Encode()
}

// FetchClubMatches retrieves the most recent matches of one club
func (c *EAClient) FetchClubMatches(ctx context.Context, clubID string) ([]Match, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.MatchesURL(clubID), nil)
	if err != nil {
		return nil, NewDataSourceError(eaSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewDataSourceError(eaSourceName, ErrCodeNetworkError, "failed to fetch matches", err)
	}
	defer resp.Body.Close()

	// Handle rate limiting
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewDataSourceError(eaSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, NewDataSourceError(eaSourceName, ErrCodeNotFound, fmt.Sprintf("club %s not found", clubID), ErrNotFound)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, NewDataSourceError(eaSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), ErrServerError)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(eaSourceName, ErrCodeNetworkError, "failed to read response", err)
	}

	matches, err := decodeMatches(body)
	if err != nil {
		return nil, NewDataSourceError(eaSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}

	metrics.RecordMatchesFetched(clubID, len(matches))
	c.logger.LogClubFetch(clubID, c.platform, c.matchType, len(matches), time.Since(start).Milliseconds())

	return matches, nil
}

// FetchClubs fetches every club in turn. A failing club is logged and
// skipped; the error is returned only when no club succeeded.
func (c *EAClient) FetchClubs(ctx context.Context, clubIDs []string) ([]Match, error) {
	var all []Match
	var lastErr error
	succeeded := 0

	for _, clubID := range clubIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := c.FetchClubMatches(ctx, clubID)
		if err != nil {
			lastErr = err
			c.logger.WithField("club_id", clubID).WithError(err).Warn("Club fetch failed")
			continue
		}
		succeeded++
		all = append(all, matches...)
	}

	if succeeded == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

func decodeMatches(body []byte) ([]Match, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var matches []Match
	if err := dec.Decode(&matches); err != nil {
		return nil, err
	}
	return matches, nil
}
