package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"squad-ladder/internal/config"
	"squad-ladder/internal/constants"
	"squad-ladder/internal/metrics"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"
)

const (
	endpointAccount  = "account"
	endpointLeague   = "league"
	endpointMatchIDs = "match_ids"
	endpointMatch    = "match"
)

type RiotClient struct {
	apiKey       string
	hostTemplate string
	client       *fasthttp.Client
	limiter      *rate.Limiter
	metrics      *metrics.Metrics
	logger       zerolog.Logger
	rateLimitMu  sync.RWMutex
	rateLimit    RateLimitInfo
}

// RateLimitInfo mirrors the last rate-limit headers Riot sent back.
type RateLimitInfo struct {
	AppLimit    string `json:"app_limit"`
	AppCount    string `json:"app_count"`
	MethodLimit string `json:"method_limit"`
	MethodCount string `json:"method_count"`
	LastStatus  int    `json:"last_status"`

	// seconds, only set on 429
	RetryAfter int `json:"retry_after"`

	UpdatedAt time.Time `json:"updated_at"`
}

func NewRiotClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *RiotClient {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RiotRateLimit > 0 && cfg.RiotRateWindow > 0 {
		limiter = rate.NewLimiter(
			rate.Every(cfg.RiotRateWindow/time.Duration(cfg.RiotRateLimit)),
			max(cfg.RiotRateBurst, 1),
		)
	}

	return &RiotClient{
		apiKey:       cfg.RiotAPIKey,
		hostTemplate: cfg.RiotHostTemplate,
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ExternalAPITimeout,
			WriteTimeout:        constants.ExternalAPITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		limiter: limiter,
		metrics: m,
		logger:  logger,
	}
}

func (c *RiotClient) RateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *RiotClient) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	c.rateLimit.RetryAfter = retryAfterSeconds(resp)
	c.rateLimit.LastStatus = resp.StatusCode()
	c.rateLimit.UpdatedAt = time.Now()
}

func (c *RiotClient) host(h string) string {
	return strings.ReplaceAll(c.hostTemplate, "{host}", h)
}

func (c *RiotClient) regional(region string) string {
	r, ok := RegionalRoute(region)
	if !ok {
		c.logger.Warn().Str("region", region).Str("route", r).Msg("unknown region, using default routing realm")
	}
	return r
}

func (c *RiotClient) platform(region string) string {
	p, ok := PlatformRoute(region)
	if !ok {
		c.logger.Warn().Str("region", region).Str("platform", p).Msg("unknown region, using default platform")
	}
	return p
}

func (c *RiotClient) ResolveIdentity(ctx context.Context, name, tag, region string) (*Account, error) {
	return doRequest[Account](ctx, c, request{
		endpoint: endpointAccount,
		target:   name + "#" + tag,
		region:   region,
		url: fmt.Sprintf("%s/riot/account/v1/accounts/by-riot-id/%s/%s",
			c.host(c.regional(region)), url.PathEscape(name), url.PathEscape(tag)),
	})
}

func (c *RiotClient) FetchStandings(ctx context.Context, puuid, region string) ([]LeagueEntry, error) {
	entries, err := doRequest[[]LeagueEntry](ctx, c, request{
		endpoint: endpointLeague,
		target:   puuid,
		region:   region,
		url: fmt.Sprintf("%s/lol/league/v4/entries/by-puuid/%s",
			c.host(c.platform(region)), url.PathEscape(puuid)),
	})
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

func (c *RiotClient) ListRecentMatchIDs(ctx context.Context, puuid, region string, queueID, limit int) ([]string, error) {
	q := url.Values{}
	if queueID > 0 {
		q.Set("queue", strconv.Itoa(queueID))
	}
	q.Set("count", strconv.Itoa(limit))

	ids, err := doRequest[[]string](ctx, c, request{
		endpoint: endpointMatchIDs,
		target:   fmt.Sprintf("%s queue=%d", puuid, queueID),
		region:   region,
		url: fmt.Sprintf("%s/lol/match/v5/matches/by-puuid/%s/ids?%s",
			c.host(c.regional(region)), url.PathEscape(puuid), q.Encode()),
	})
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *RiotClient) FetchMatchDetail(ctx context.Context, matchID, region string) (*MatchDetail, error) {
	return doRequest[MatchDetail](ctx, c, request{
		endpoint: endpointMatch,
		target:   matchID,
		region:   region,
		url: fmt.Sprintf("%s/lol/match/v5/matches/%s",
			c.host(c.regional(region)), url.PathEscape(matchID)),
	})
}

type request struct {
	endpoint string
	target   string
	region   string
	url      string
}

func (r request) fail(status int, err error) *Error {
	return &Error{Op: r.endpoint, Target: r.target, Region: r.region, Status: status, Err: err}
}

func doRequest[T any](ctx context.Context, client *RiotClient, r request) (*T, error) {
	if err := client.limiter.Wait(ctx); err != nil {
		return nil, r.fail(0, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.url)
	req.URI().DisablePathNormalizing = true
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			client.metrics.RiotRequests.WithLabelValues(r.endpoint, "error").Inc()
			return nil, r.fail(0, err)
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			client.metrics.RiotRequests.WithLabelValues(r.endpoint, "error").Inc()
			return nil, r.fail(0, err)
		}
	}

	client.updateRateLimit(resp)
	status := resp.StatusCode()
	client.metrics.RiotRequests.WithLabelValues(r.endpoint, statusClass(status)).Inc()

	if status != fasthttp.StatusOK {
		apiErr := r.fail(status, nil)
		if status == fasthttp.StatusTooManyRequests {
			apiErr.RetryAfter = time.Duration(retryAfterSeconds(resp)) * time.Second
		}
		client.logger.Debug().
			Str("endpoint", r.endpoint).
			Str("target", r.target).
			Int("status", status).
			Msg("riot api returned non-200")
		return nil, apiErr
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, r.fail(status, fmt.Errorf("malformed body: %w", err))
	}
	return &result, nil
}

func retryAfterSeconds(resp *fasthttp.Response) int {
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return secs
		}
	}
	return 0
}

func statusClass(status int) string {
	switch {
	case status == fasthttp.StatusTooManyRequests:
		return "429"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "2xx"
	}
}
