package journeyplanner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/imroc/req/v3"
	"golang.org/x/time/rate"

	"itus/internal/config"
	"itus/internal/departure"
	"itus/internal/graphql"
	"itus/internal/telemetry"
)

// Client executes GraphQL documents against the journey planner.
type Client struct {
	limiter  *rate.Limiter
	http     *req.Client
	endpoint string
	metrics  *telemetry.Metrics
	logger   *log.Logger
}

// NewClient builds a client from cfg. limiter and metrics may be nil.
func NewClient(cfg config.JourneyPlannerConfig, limiter *rate.Limiter, metrics *telemetry.Metrics, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.Default()
	}

	httpClient := req.C().
		SetTimeout(cfg.Timeout).
		SetUserAgent(cfg.ClientName).
		SetCommonContentType("application/json").
		SetCommonHeader("ET-Client-Name", cfg.ClientName)

	return &Client{
		limiter:  limiter,
		http:     httpClient,
		endpoint: cfg.Endpoint,
		metrics:  metrics,
		logger:   logger,
	}
}

// NewLimiter converts the configured requests-per-second budget into a limiter.
func NewLimiter(cfg config.JourneyPlannerConfig) *rate.Limiter {
	return rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphQLErrors   `json:"errors"`
}

// Execute sends q and decodes the "data" member of the response into out.
func (c *Client) Execute(ctx context.Context, q graphql.Query, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := c.execute(ctx, q, out)
	c.metrics.ObserveQuery(q.Name, time.Since(start).Seconds(), err)

	var malformed *departure.MalformedResponseError
	if errors.As(err, &malformed) {
		c.metrics.IncMalformed()
	}
	return err
}

func (c *Client) execute(ctx context.Context, q graphql.Query, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBodyJsonMarshal(q).
		Post(c.endpoint)
	if err != nil {
		return &TransportError{Op: q.Name, Err: err}
	}

	body := resp.Bytes()
	if !resp.IsSuccessState() {
		c.logger.Printf("journeyplanner: %s returned status %d", q.Name, resp.StatusCode)
		return &TransportError{
			Op:         q.Name,
			StatusCode: resp.StatusCode,
			Err:        errors.New(describeBody(resp.StatusCode, resp.GetContentType(), body)),
		}
	}

	var envelope response
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &TransportError{Op: q.Name, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(envelope.Errors) > 0 {
		return &TransportError{Op: q.Name, StatusCode: resp.StatusCode, Err: envelope.Errors}
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return departure.Missing("data")
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &departure.MalformedResponseError{Field: "data", Value: q.Name, Err: err}
	}
	return nil
}
