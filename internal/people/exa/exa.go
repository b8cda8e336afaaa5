// Package exa implements people search on top of the Exa search API.
package exa

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

	"github.com/spigell/candidate-sourcer/internal/httputil"
	"github.com/spigell/candidate-sourcer/internal/logger"
	"github.com/spigell/candidate-sourcer/internal/people"
	"github.com/spigell/candidate-sourcer/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiURL    = "https://api.exa.ai"
	userAgent = "spigell/candidate-sourcer"
	category  = "people"

	// summaryRunes is how much of the profile text becomes the stub summary.
	summaryRunes = 240

	defaultTimeout    = 30 * time.Second
	defaultRatePerSec = 5
	maxErrorBody      = 300
)

var linkedInDomains = []string{"linkedin.com", "www.linkedin.com"}

// Config tunes the client. Zero values fall back to defaults.
type Config struct {
	APIURL            string
	Timeout           time.Duration
	RequestsPerSecond float64
	MaxRetries        int
}

type Client struct {
	apiKey     string
	logger     *zap.Logger
	limiter    *rate.Limiter
	maxRetries int

	HTTPClient *http.Client
	UserAgent  string
	APIURL     string
}

// New returns an Exa client. The API key is mandatory.
func New(apiKey string, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("exa api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRatePerSec
	}

	base := strings.TrimRight(strings.TrimSpace(cfg.APIURL), "/")
	if base == "" {
		base = apiURL
	}

	return &Client{
		apiKey:     apiKey,
		logger:     logger.ForSearch(log, "exa"),
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		maxRetries: cfg.MaxRetries,
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  userAgent,
		APIURL:     base,
	}, nil
}

func (c *Client) Name() string { return "exa" }

type searchRequest struct {
	Query          string          `json:"query"`
	Category       string          `json:"category"`
	NumResults     int             `json:"numResults"`
	IncludeDomains []string        `json:"includeDomains,omitempty"`
	Contents       contentsOptions `json:"contents"`
}

type contentsOptions struct {
	Text bool `json:"text"`
}

type searchResponse struct {
	RequestID string   `json:"requestId"`
	Results   []result `json:"results"`
}

type result struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	Text          string `json:"text"`
}

// Search runs one people-category query. An empty result set is reported as
// people.ErrNoResults.
func (c *Client) Search(ctx context.Context, req people.SearchRequest) ([]people.ProfileStub, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}

	payload := searchRequest{
		Query:      query,
		Category:   category,
		NumResults: people.ClampResults(req.NumResults),
		Contents:   contentsOptions{Text: true},
	}
	if req.LinkedInOnly {
		payload.IncludeDomains = linkedInDomains
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(httpReq)

	c.logger.Debug("make request",
		zap.String("url", httpReq.URL.String()),
		zap.String("query", query),
		zap.Int("num_results", payload.NumResults),
		zap.Bool("linkedin_only", req.LinkedInOnly),
	)

	resp, err := httputil.DoWithRetry(ctx, c.HTTPClient, httpReq, c.maxRetries, c.logger)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read exa response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s: %s", resp.Status, utils.TruncateForLog(string(data), maxErrorBody))
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("decode exa response: %w", err)
	}

	stubs := toStubs(parsed.Results)

	c.logger.Debug("got response from exa",
		zap.String("query", query),
		zap.String("request_id", parsed.RequestID),
		zap.Int("results", len(stubs)),
	)

	if len(stubs) == 0 {
		return nil, people.ErrNoResults
	}

	return stubs, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
}

func toStubs(results []result) []people.ProfileStub {
	stubs := make([]people.ProfileStub, 0, len(results))
	for _, r := range results {
		text := strings.TrimSpace(r.Text)
		summary, _ := utils.RunePrefix(text, summaryRunes)

		stubs = append(stubs, people.ProfileStub{
			Title:         strings.TrimSpace(r.Title),
			URL:           strings.TrimSpace(r.URL),
			Author:        strings.TrimSpace(r.Author),
			PublishedDate: strings.TrimSpace(r.PublishedDate),
			Summary:       summary,
			Content:       text,
		})
	}
	return stubs
}
