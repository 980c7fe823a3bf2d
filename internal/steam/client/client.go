// Package client provides the HTTP client for the public Steam store API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"steam_search_backend/platform/apperr"
	"steam_search_backend/platform/config"
	"steam_search_backend/platform/logger"

	"golang.org/x/time/rate"
)

const (
	searchPath  = "/api/storesearch/"
	detailsPath = "/api/appdetails"
	userAgent   = "steam-search-backend/1.0"
)

// Client is the HTTP client for the Steam storesearch and appdetails endpoints.
// Outbound calls share one token bucket; Steam throttles anonymous callers
// at roughly 200 requests per five minutes.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	language    string
	countryCode string
	limiter     *rate.Limiter
	log         *logger.Logger
}

// New creates a new Steam store API client.
func New(cfg config.SteamConfig, log *logger.Logger) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.GetSteamHTTPTimeout()},
		baseURL:     cfg.GetSteamStoreBaseURL(),
		language:    cfg.GetSteamLanguage(),
		countryCode: cfg.GetSteamCountryCode(),
		limiter:     rate.NewLimiter(rate.Limit(float64(cfg.GetSteamRatePerMinute())/60.0), cfg.GetSteamRateBurst()),
		log:         log,
	}
}

// Search queries storesearch for term. The term is sent as-is, URL-encoded.
func (c *Client) Search(ctx context.Context, term string) (*SearchPayload, error) {
	params := url.Values{}
	params.Set("term", term)
	params.Set("l", c.language)
	params.Set("cc", c.countryCode)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	var payload SearchPayload
	if err := c.getJSON(ctx, "storesearch", reqURL, &payload); err != nil {
		return nil, err
	}
	if payload.Items == nil {
		return nil, apperr.Upstream("steam search response has no items", nil).WithOp("steam.Search")
	}

	return &payload, nil
}

// AppDetails fetches appdetails for one app. An unsuccessful or missing entry
// is reported as apperr.KindNotFound.
func (c *Client) AppDetails(ctx context.Context, appID string) (*AppData, error) {
	params := url.Values{}
	params.Set("appids", appID)

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, detailsPath, params.Encode())

	// Steam answers "null" for unknown ids, which decodes into a nil map.
	var envelope map[string]appDetailsEnvelope
	if err := c.getJSON(ctx, "appdetails", reqURL, &envelope); err != nil {
		return nil, err
	}

	entry, ok := envelope[appID]
	if !ok || !entry.Success || entry.Data == nil {
		c.log.Debug("steam app details unavailable", "appId", appID, "present", ok)
		return nil, apperr.NotFound("app details not available").WithOp("steam.AppDetails")
	}

	return entry.Data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, out interface{}) error {
	op := "steam." + endpoint

	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Unavailable("steam request throttled", err).WithOp(op)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return apperr.Internal("create steam request", err).WithOp(op)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return apperr.Unavailable("steam request cancelled", err).WithOp(op)
		}
		c.log.UpstreamError(endpoint, 0, err)
		return apperr.Upstream("steam request failed", err).WithOp(op)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch resp.StatusCode {
	case http.StatusOK:
		// Success - continue to decode
	case http.StatusTooManyRequests:
		c.log.UpstreamError(endpoint, resp.StatusCode, nil)
		return apperr.Unavailable("steam rate limit reached", nil).WithOp(op)
	default:
		c.log.UpstreamError(endpoint, resp.StatusCode, nil)
		return apperr.Upstream(fmt.Sprintf("steam upstream error: status %d", resp.StatusCode), nil).WithOp(op)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError(endpoint, resp.StatusCode, err)
		return apperr.Upstream("decode steam response", err).WithOp(op)
	}

	c.log.Debug("steam request completed", "endpoint", endpoint, "latency_ms", time.Since(start).Milliseconds())
	return nil
}
