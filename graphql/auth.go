package graphql

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type AuthProvider interface {
	Apply(req *http.Request) error
}

type BearerAuth struct {
	TokenGetter func() (string, error)
}

func (a BearerAuth) Apply(req *http.Request) error {
	if a.TokenGetter == nil {
		return errors.New("token getter is required")
	}
	token, err := a.TokenGetter()
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	token = strings.TrimSpace(token)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[len("bearer "):])
	}
	if token == "" {
		return errors.New("empty bearer token")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// StaticToken builds a BearerAuth around a fixed token string.
func StaticToken(token string) BearerAuth {
	return BearerAuth{TokenGetter: func() (string, error) {
		return token, nil
	}}
}

func SanitizeHeaders(h http.Header) http.Header {
	clean := http.Header{}
	for k, vals := range h {
		switch strings.ToLower(k) {
		case "authorization", "cookie":
			clean[k] = []string{"<redacted>"}
		default:
			clean[k] = append([]string{}, vals...)
		}
	}
	return clean
}
