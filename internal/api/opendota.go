// Package api holds the match-data provider client. Network fetches happen
// here, before the analysis core is invoked; the core itself never blocks
// on I/O.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"dota-coach/internal/config"
	"dota-coach/internal/domain"

	"github.com/sethvargo/go-retry"
	"github.com/valyala/fasthttp"
)

var (
	// ErrNotFound means the provider has no such match or player.
	ErrNotFound = errors.New("provider: not found")
	// ErrRateLimited is retryable; the client backs off and retries before
	// surfacing it.
	ErrRateLimited = errors.New("provider: rate limited")
)

type ProviderClient struct {
	apiKey      string
	baseURL     string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

type RateLimitInfo struct {
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewProviderClient(cfg *config.Config) *ProviderClient {
	return &ProviderClient{
		apiKey:  cfg.ProviderAPIKey,
		baseURL: cfg.ProviderBaseURL,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		rateLimit: RateLimitInfo{
			Limit:     60,
			Remaining: 60,
			UpdatedAt: time.Now(),
		},
	}
}

func (c *ProviderClient) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *ProviderClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if limit := string(resp.Header.Peek("X-Rate-Limit-Limit-Minute")); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			c.rateLimit.Limit = val
		}
	}
	if remaining := string(resp.Header.Peek("X-Rate-Limit-Remaining-Minute")); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			c.rateLimit.Remaining = val
		}
	}
	c.rateLimit.UpdatedAt = time.Now()
}

// GetMatch fetches one match and maps it into the analysis core's record
// shape. Missing optional telemetry fields simply stay absent.
func (c *ProviderClient) GetMatch(ctx context.Context, matchID int64) (*domain.MatchRecord, error) {
	url := fmt.Sprintf("%s/matches/%d", c.baseURL, matchID)
	raw, err := doRequest[matchResponse](ctx, c, url)
	if err != nil {
		return nil, err
	}
	return raw.toDomain(), nil
}

// GetPlayerMatches fetches a page of a player's recent matches for history
// ingestion.
func (c *ProviderClient) GetPlayerMatches(ctx context.Context, accountID int64, days int) ([]domain.HistoryMatch, error) {
	url := fmt.Sprintf("%s/players/%d/matches?date=%d", c.baseURL, accountID, days)
	raw, err := doRequest[[]playerMatch](ctx, c, url)
	if err != nil {
		return nil, err
	}

	matches := make([]domain.HistoryMatch, 0, len(*raw))
	for _, m := range *raw {
		matches = append(matches, m.toDomain())
	}
	return matches, nil
}

// doRequest performs one GET with rate-limit-aware retry: a 429 backs off
// on a fibonacci schedule before giving up with ErrRateLimited.
func doRequest[T any](ctx context.Context, client *ProviderClient, url string) (*T, error) {
	var result *T
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(500*time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, err := doRequestOnce[T](ctx, client, url)
		if errors.Is(err, ErrRateLimited) {
			return retry.RetryableError(err)
		}
		if err != nil {
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func doRequestOnce[T any](ctx context.Context, client *ProviderClient, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	if client.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+client.apiKey)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	client.updateRateLimit(resp)

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return nil, ErrNotFound
	case fasthttp.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		return nil, fmt.Errorf("provider error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
