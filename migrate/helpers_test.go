package migrate

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"projects-migrate/github"
	"projects-migrate/graphql"
)

// fakeHandler answers one operation. Returning a map becomes the data
// payload; returning apiError becomes an errors array.
type fakeHandler func(op string, vars map[string]any) any

type apiError string

type apiCall struct {
	Op   string
	Vars map[string]any
}

type recorder struct {
	calls []apiCall
}

func (r *recorder) byOp(op string) []apiCall {
	var out []apiCall
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *recorder) count(op string) int {
	return len(r.byOp(op))
}

func fakeGitHub(t *testing.T, org string, handle fakeHandler) (*github.Client, *recorder) {
	t.Helper()
	rec := &recorder{}

	transport := func(req *http.Request) *http.Response {
		var payload graphql.Request
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		rec.calls = append(rec.calls, apiCall{Op: payload.OperationName, Vars: payload.Variables})

		var body map[string]any
		switch v := handle(payload.OperationName, payload.Variables).(type) {
		case apiError:
			body = map[string]any{"errors": []any{map[string]any{"message": string(v)}}}
		case map[string]any:
			body = map[string]any{"data": v}
		default:
			t.Fatalf("unhandled operation %q", payload.OperationName)
		}
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode response: %v", err)
		}
		h := http.Header{}
		h.Set("Content-Type", "application/json")
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     h,
			Body:       io.NopCloser(strings.NewReader(string(encoded))),
			Request:    req,
		}
	}

	client := github.NewClient(org, &graphql.Client{
		Endpoint:   "http://example",
		Auth:       graphql.StaticToken("test-token"),
		HTTPClient: &http.Client{Transport: roundTripFunc(transport)},
	})
	return client, rec
}

type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func connection(nodes ...map[string]any) map[string]any {
	list := make([]any, 0, len(nodes))
	for _, n := range nodes {
		list = append(list, n)
	}
	return map[string]any{
		"nodes":    list,
		"pageInfo": map[string]any{"hasNextPage": false, "endCursor": nil},
	}
}

func fieldNode(id, name, dataType string) map[string]any {
	return map[string]any{"id": id, "name": name, "dataType": dataType}
}
