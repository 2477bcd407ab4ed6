package graphql

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

	"log/slog"

	"github.com/cenkalti/backoff/v4"
)

const defaultUserAgent = "projects-migrate/0.1.0"
const defaultTimeout = 30 * time.Second
const defaultRetries429 = 2
const defaultRetries5xx = 3
const defaultMaxWait = 60 * time.Second

type Client struct {
	Endpoint              string
	HTTPClient            *http.Client
	Auth                  AuthProvider
	Logger                *slog.Logger
	MaxRetries429         int
	MaxRetries5xx         int
	MaxWait               time.Duration
	EnableLocalThrottling bool
	UserAgent             string
	Now                   func() time.Time
	Sleep                 func(time.Duration)

	localBucket *tokenBucket
}

// Execute posts one GraphQL request and decodes the response envelope.
// 429 responses are retried per Retry-After, server errors are retried
// with exponential backoff, both within bounded attempt counts. A response
// carrying an errors array is returned as-is; callers decide whether
// partial data is usable.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, operationName string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query must be provided")
	}
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		return nil, errors.New("Endpoint is required")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	nowFn := c.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	sleepFn := c.Sleep
	if sleepFn == nil {
		sleepFn = time.Sleep
	}

	maxRetries429 := c.MaxRetries429
	if maxRetries429 == 0 {
		maxRetries429 = defaultRetries429
	}
	if maxRetries429 < 0 {
		maxRetries429 = 0
	}
	maxRetries5xx := c.MaxRetries5xx
	if maxRetries5xx == 0 {
		maxRetries5xx = defaultRetries5xx
	}
	if maxRetries5xx < 0 {
		maxRetries5xx = 0
	}
	maxWait := c.MaxWait
	if maxWait <= 0 {
		maxWait = defaultMaxWait
	}

	var bucket *tokenBucket
	if c.EnableLocalThrottling {
		if c.localBucket == nil {
			c.localBucket = newTokenBucket(nowFn, sleepFn)
		} else {
			c.localBucket.now = nowFn
			c.localBucket.sleep = sleepFn
		}
		bucket = c.localBucket
	}

	payload := Request{
		Query:         query,
		Variables:     variables,
		OperationName: operationName,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	serverBackoff := backoff.NewExponentialBackOff()
	serverBackoff.MaxElapsedTime = maxWait

	attempt := 0
	attempts5xx := 0
	for {
		attempt++
		if bucket != nil {
			waited, err := bucket.consume(1, maxWait)
			if err != nil {
				return nil, err
			}
			if c.Logger != nil && waited > 0 {
				c.Logger.Debug(
					"local throttling applied",
					slog.Duration("wait", waited),
					slog.String("endpoint", endpoint),
				)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		headers := req.Header
		headers.Set("Content-Type", "application/json")
		headers.Set("Accept", "application/vnd.github+json")
		ua := c.UserAgent
		if ua == "" {
			ua = defaultUserAgent
		}
		headers.Set("User-Agent", ua)

		if c.Auth != nil {
			if err := c.Auth.Apply(req); err != nil {
				return nil, fmt.Errorf("apply auth: %w", err)
			}
		}

		start := nowFn()
		resp, err := httpClient.Do(req)
		duration := nowFn().Sub(start)
		if c.Logger != nil {
			c.Logger.Debug(
				"graphql request",
				slog.String("operationName", operationName),
				slog.Int("attempt", attempt),
				slog.Duration("duration", duration),
				slog.Any("headers", SanitizeHeaders(req.Header)),
			)
		}
		if err != nil {
			return nil, fmt.Errorf("execute request: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryHeader := resp.Header.Get("Retry-After")
			retryAt, parserUsed, parseErr := ParseRetryAfter(retryHeader, nowFn())
			if parseErr != nil {
				return nil, &RateLimitError{
					Attempts:    attempt,
					HeaderValue: retryHeader,
				}
			}
			if c.Logger != nil {
				c.Logger.Debug(
					"parsed Retry-After header",
					slog.String("retryAfter", retryHeader),
					slog.String("parser", parserUsed),
					slog.String("retryAt", retryAt.UTC().Format(time.RFC3339)),
					slog.String("operationName", operationName),
				)
			}

			computedWait := retryAt.Sub(nowFn()).Seconds()
			waitSeconds := computedWait
			if waitSeconds < 0 {
				waitSeconds = 0
			}

			retryAllowed := (attempt - 1) < maxRetries429
			overCap := computedWait > maxWait.Seconds()

			if c.Logger != nil {
				c.Logger.Warn(
					"rate limited on GraphQL request",
					slog.Int("attempt", attempt),
					slog.String("operationName", operationName),
					slog.String("retryAt", retryAt.UTC().Format(time.RFC3339)),
					slog.Float64("waitSeconds", waitSeconds),
					slog.Bool("retrying", retryAllowed && !overCap),
				)
			}

			if overCap || !retryAllowed {
				return nil, &RateLimitError{
					RetryAfter:  retryAt,
					Attempts:    attempt,
					HeaderValue: retryHeader,
					WaitSeconds: computedWait,
				}
			}

			if waitSeconds > 0 {
				sleepFn(time.Duration(waitSeconds * float64(time.Second)))
			}
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError {
			attempts5xx++
			wait := serverBackoff.NextBackOff()
			if attempts5xx > maxRetries5xx || wait == backoff.Stop {
				return nil, &TransportError{
					StatusCode:  resp.StatusCode,
					Attempts:    attempt,
					BodySnippet: string(body),
				}
			}
			if c.Logger != nil {
				c.Logger.Warn(
					"server error on GraphQL request",
					slog.Int("status", resp.StatusCode),
					slog.Int("attempt", attempt),
					slog.Duration("backoff", wait),
					slog.String("operationName", operationName),
				)
			}
			sleepFn(wait)
			continue
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, &TransportError{
				StatusCode:  resp.StatusCode,
				Attempts:    attempt,
				BodySnippet: string(body),
			}
		}

		var result Result
		if len(body) > 0 {
			if err := json.Unmarshal(body, &result); err != nil {
				return nil, &JSONError{Err: err}
			}
		}

		return &result, nil
	}
}

// Query runs an operation and requires a clean data payload: any errors
// array or absent data is reported through the error taxonomy.
func (c *Client) Query(ctx context.Context, query string, variables map[string]any, operationName string) (map[string]any, error) {
	result, err := c.Execute(ctx, query, variables, operationName)
	if err != nil {
		return nil, err
	}
	if len(result.Errors) > 0 {
		return nil, &OperationError{
			Operation:   operationName,
			Errors:      result.Errors,
			PartialData: result.Data,
		}
	}
	if result.Data == nil {
		return nil, &MissingDataError{Operation: operationName}
	}
	return result.Data, nil
}
