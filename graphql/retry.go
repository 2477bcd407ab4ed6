package graphql

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ParseRetryAfter accepts the delta-seconds form first (what the platform
// sends for secondary rate limits), then timestamp forms.
func ParseRetryAfter(value string, now time.Time) (time.Time, string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, "", errors.New("retry-after header missing or empty")
	}
	if seconds, err := strconv.Atoi(trimmed); err == nil {
		if seconds < 0 {
			seconds = 0
		}
		return now.Add(time.Duration(seconds) * time.Second).UTC(), "delta-seconds", nil
	}

	cleaned := trimmed
	if strings.HasSuffix(cleaned, "Z") {
		cleaned = strings.TrimSuffix(cleaned, "Z") + "+00:00"
	}
	layouts := []struct {
		layout string
		label  string
	}{
		{time.RFC3339, "rfc3339"},
		{"2006-01-02T15:04Z07:00", "rfc3339-minute"},
		{time.RFC3339Nano, "rfc3339-nano"},
	}
	for _, candidate := range layouts {
		if parsed, err := time.Parse(candidate.layout, cleaned); err == nil {
			return parsed.UTC(), candidate.label, nil
		}
	}
	if parsed, err := http.ParseTime(trimmed); err == nil {
		return parsed.UTC(), "http-date", nil
	}
	return time.Time{}, "", errors.New("unable to parse Retry-After header")
}
