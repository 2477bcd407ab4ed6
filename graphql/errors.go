package graphql

import (
	"fmt"
	"strings"
	"time"
)

type TransportError struct {
	StatusCode  int
	Attempts    int
	BodySnippet string
}

func (e *TransportError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("unexpected HTTP status %d after %d attempt(s)", e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

type RateLimitError struct {
	RetryAfter  time.Time
	Attempts    int
	HeaderValue string
	WaitSeconds float64
}

func (e *RateLimitError) Error() string {
	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("rate limited after %d attempt(s)", e.Attempts))
	if !e.RetryAfter.IsZero() {
		builder.WriteString("; retry_at=")
		builder.WriteString(e.RetryAfter.UTC().Format(time.RFC3339))
	}
	if e.HeaderValue != "" {
		builder.WriteString("; retry-after=")
		builder.WriteString(e.HeaderValue)
	}
	return builder.String()
}

type LocalRateLimitError struct {
	EstimatedCost  float64
	WaitSeconds    float64
	MaxWaitSeconds float64
}

func (e *LocalRateLimitError) Error() string {
	return fmt.Sprintf(
		"local rate limit exceeded; estimated_cost=%.2f; wait_seconds=%.3f exceeds max_wait_seconds=%.3f",
		e.EstimatedCost,
		e.WaitSeconds,
		e.MaxWaitSeconds,
	)
}

// OperationError reports an API-level rejection: the response carried an
// errors array instead of (or alongside) data.
type OperationError struct {
	Operation   string
	Errors      []Error
	PartialData map[string]any
}

func (e *OperationError) Error() string {
	if len(e.Errors) == 0 {
		return "graphql operation failed"
	}
	first := e.Errors[0]
	builder := strings.Builder{}
	if e.Operation != "" {
		builder.WriteString(e.Operation)
		builder.WriteString(": ")
	}
	builder.WriteString(first.Message)
	if first.Type != "" {
		builder.WriteString(" type=")
		builder.WriteString(first.Type)
	}
	if len(first.Path) > 0 {
		builder.WriteString(" path=")
		builder.WriteString(fmt.Sprint(first.Path))
	}
	return builder.String()
}

// MissingDataError reports a response that parsed as JSON but lacked the
// expected key along the extraction path.
type MissingDataError struct {
	Operation string
	Path      []string
}

func (e *MissingDataError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("%s: missing data in response", e.Operation)
	}
	return fmt.Sprintf("%s: missing %q in response data", e.Operation, strings.Join(e.Path, "."))
}

type JSONError struct {
	Err error
}

func (e *JSONError) Error() string {
	return fmt.Sprintf("decode response: %v", e.Err)
}

func (e *JSONError) Unwrap() error {
	return e.Err
}
