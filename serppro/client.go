package serppro

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency limits concurrent calls in BatchFrequency.
const DefaultBatchConcurrency = 10

// Client represents a SerpPro API client.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	logger      zerolog.Logger
	maxAttempts int
}

// NewClient creates a new SerpPro client. The defaults match ProfileSerpPro;
// pass WithProfile(ProfileWordstat) to get the Wordstat-only behavior.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	httpClient := options.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: options.timeout}
		if !options.verifyTLS {
			httpClient.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	if !options.verifyTLS {
		logger.Warn().Msg("TLS certificate verification is disabled")
	}

	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		httpClient:  httpClient,
		logger:      logger,
		maxAttempts: options.maxAttempts,
	}, nil
}

// doRequest performs one API call: it serializes the body for POST calls,
// attaches authentication, retries timed-out attempts per the configured
// policy, and maps non-200 responses onto *APIError.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, params url.Values) ([]byte, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize request: %w", err)
		}
	}

	for attempt := 1; ; attempt++ {
		respBody, retryable, err := c.attempt(ctx, method, requestURL, payload)
		if err == nil {
			return respBody, nil
		}

		if retryable && ctx.Err() == nil && (c.maxAttempts == 0 || attempt < c.maxAttempts) {
			c.logger.Info().
				Int("attempt", attempt).
				Str("endpoint", endpoint).
				Msg("Request timed out, retrying")
			continue
		}

		return nil, err
	}
}

// attempt issues a single HTTP request. The second return value reports
// whether the failure was a timeout, the only failure class the retry loop
// may consume.
func (c *Client) attempt(ctx context.Context, method, requestURL string, payload []byte) ([]byte, bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, false, &APIError{Message: err.Error()}
	}

	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("method", method).
		Str("url", requestURL).
		Msg("Making SerpPro API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, isTimeout(err), &APIError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, isTimeout(err), &APIError{Message: err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, false, c.decodeError(resp.StatusCode, respBody)
	}

	return respBody, false, nil
}

// decodeError builds an *APIError from a non-200 response. It tries the
// structured error body first, then a loose lookup of error_message, and
// finally falls back to a fixed default per status.
func (c *Client) decodeError(status int, body []byte) *APIError {
	message := fmt.Sprintf("HTTP %d", status)
	if status == http.StatusUnprocessableEntity {
		message = defaultUnprocessableMessage
	}

	apiErr := &APIError{StatusCode: status, Message: message}
	if len(body) == 0 {
		return apiErr
	}

	var model ErrorModel
	if err := json.Unmarshal(body, &model); err == nil {
		apiErr.Model = &model
		if model.ErrorMessage != "" {
			apiErr.Message = model.ErrorMessage
		}
		return apiErr
	}

	var loose map[string]any
	if err := json.Unmarshal(body, &loose); err == nil {
		if msg, ok := loose["error_message"].(string); ok && msg != "" {
			apiErr.Message = msg
		}
	}

	return apiErr
}

// isTimeout reports whether err is a connect or read timeout.
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// WordstatFrequency returns the search frequency for a query.
// Unset request fields fall back to DeviceAll, TaskTypeRegular and SyntaxWs.
func (c *Client) WordstatFrequency(ctx context.Context, req FrequencyRequest) (*FrequencyResponse, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v1/wordstat/frequency", req, nil)
	if err != nil {
		return nil, err
	}

	var result FrequencyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse frequency response: %w", err)
	}
	return &result, nil
}

// WordstatDeep returns associated and popular phrases for a query.
func (c *Client) WordstatDeep(ctx context.Context, req DeepRequest) (*DeepResponse, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v1/wordstat/deep", req, nil)
	if err != nil {
		return nil, err
	}

	var result DeepResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse deep response: %w", err)
	}
	return &result, nil
}

// WordstatHistory returns historical frequency data for a query.
// The query is required and must be between 1 and 3000 characters.
func (c *Client) WordstatHistory(ctx context.Context, req HistoryRequest) (*HistoryResponse, error) {
	req.applyDefaults()
	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v1/wordstat/history", req, nil)
	if err != nil {
		return nil, err
	}

	var result HistoryResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse history response: %w", err)
	}
	return &result, nil
}

// RegionYandex searches the Yandex region database by name or code fragment.
// An empty result list is a valid outcome.
func (c *Client) RegionYandex(ctx context.Context, query string) ([]Region, error) {
	return c.regionLookup(ctx, "/api/v1/region/yandex", url.Values{"query": {query}})
}

// RegionGoogle searches the Google region database by name or code fragment.
func (c *Client) RegionGoogle(ctx context.Context, query string) ([]Region, error) {
	return c.regionLookup(ctx, "/api/v1/region/google", url.Values{"query": {query}})
}

// RegionCheck verifies a region code or name against one search engine's
// region database.
func (c *Client) RegionCheck(ctx context.Context, code string, system SearchSystem, searchType RegionSearchType) ([]Region, error) {
	if !system.Valid() {
		return nil, &ValidationError{Field: "searchSystem", Reason: "unknown search system: " + string(system)}
	}
	if !searchType.Valid() {
		return nil, &ValidationError{Field: "searchType", Reason: "unknown search type: " + string(searchType)}
	}

	params := url.Values{
		"code":         {code},
		"searchSystem": {string(system)},
		"searchType":   {string(searchType)},
	}
	return c.regionLookup(ctx, "/api/v1/region/check", params)
}

func (c *Client) regionLookup(ctx context.Context, endpoint string, params url.Values) ([]Region, error) {
	body, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, params)
	if err != nil {
		return nil, err
	}

	var regions []Region
	if err := json.Unmarshal(body, &regions); err != nil {
		return nil, fmt.Errorf("failed to parse region response: %w", err)
	}
	return regions, nil
}

// FinanceTotal returns the total request count, optionally scoped to one
// service. Pass an empty ServiceType for the overall total.
func (c *Client) FinanceTotal(ctx context.Context, service ServiceType) (*FinanceStats, error) {
	params := url.Values{}
	if service != "" {
		if !service.Valid() {
			return nil, &ValidationError{Field: "service", Reason: "unknown service type: " + string(service)}
		}
		params.Set("service", string(service))
	}

	body, err := c.doRequest(ctx, http.MethodGet, "/api/v1/finance/total", nil, params)
	if err != nil {
		return nil, err
	}

	var result FinanceStats
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse finance response: %w", err)
	}
	return &result, nil
}

// FinanceStatistics returns the request count over a date range.
func (c *Client) FinanceStatistics(ctx context.Context, req FinanceStatsRequest) (*FinanceStats, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/api/v1/finance/statistics", req, nil)
	if err != nil {
		return nil, err
	}

	var result FinanceStats
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse finance response: %w", err)
	}
	return &result, nil
}

// BatchFrequency runs frequency lookups for several requests with bounded
// concurrency and returns responses in request order. The first error aborts
// the remaining lookups.
func (c *Client) BatchFrequency(ctx context.Context, requests []FrequencyRequest, concurrency int) ([]*FrequencyResponse, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]*FrequencyResponse, len(requests))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range requests {
		g.Go(func() error {
			resp, err := c.WordstatFrequency(ctx, req)
			if err != nil {
				return fmt.Errorf("query %q: %w", req.Query, err)
			}
			results[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
