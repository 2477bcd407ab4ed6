package graphql

import (
	"context"
	"errors"
	"strings"
)

// Page holds the nodes of one connection page in response order.
type Page []map[string]any

// FlattenPages concatenates pages in page order.
func FlattenPages(pages []Page) []map[string]any {
	var out []map[string]any
	for _, page := range pages {
		out = append(out, page...)
	}
	return out
}

// dataAt walks nested objects by key. Each missing or non-object step is a
// MissingDataError naming the path walked so far.
func dataAt(operation string, data map[string]any, path ...string) (map[string]any, error) {
	current := data
	for i, key := range path {
		raw, ok := current[key]
		if !ok || raw == nil {
			return nil, &MissingDataError{Operation: operation, Path: path[:i+1]}
		}
		next, ok := raw.(map[string]any)
		if !ok {
			return nil, &MissingDataError{Operation: operation, Path: path[:i+1]}
		}
		current = next
	}
	return current, nil
}

// Paginate runs the query repeatedly, binding each page's endCursor to the
// $cursor variable, and accumulates every page until hasNextPage is false.
// The page size is part of the query text, not a parameter. The path names
// the connection object holding {nodes, pageInfo} inside the data payload.
func (c *Client) Paginate(ctx context.Context, query string, variables map[string]any, operationName string, path ...string) ([]Page, error) {
	if len(path) == 0 {
		return nil, errors.New("extraction path must be provided")
	}

	vars := make(map[string]any, len(variables)+1)
	for k, v := range variables {
		vars[k] = v
	}
	vars["cursor"] = nil

	var pages []Page
	seenCursors := map[string]struct{}{}

	for {
		data, err := c.Query(ctx, query, vars, operationName)
		if err != nil {
			return nil, err
		}

		conn, err := dataAt(operationName, data, path...)
		if err != nil {
			return nil, err
		}

		rawNodes, ok := conn["nodes"]
		if !ok || rawNodes == nil {
			return nil, &MissingDataError{Operation: operationName, Path: append(append([]string{}, path...), "nodes")}
		}
		nodeList, ok := rawNodes.([]any)
		if !ok {
			return nil, &MissingDataError{Operation: operationName, Path: append(append([]string{}, path...), "nodes")}
		}
		page := make(Page, 0, len(nodeList))
		for _, raw := range nodeList {
			node, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			page = append(page, node)
		}
		pages = append(pages, page)

		pageInfo, err := dataAt(operationName, conn, "pageInfo")
		if err != nil {
			return nil, err
		}
		hasNext, _ := pageInfo["hasNextPage"].(bool)
		if !hasNext {
			break
		}
		endCursor, _ := pageInfo["endCursor"].(string)
		endCursor = strings.TrimSpace(endCursor)
		if endCursor == "" {
			return nil, errors.New(operationName + ": pagination cursor missing despite hasNextPage")
		}
		if _, exists := seenCursors[endCursor]; exists {
			return nil, errors.New(operationName + ": pagination cursor repeated; aborting to prevent infinite loop")
		}
		seenCursors[endCursor] = struct{}{}
		vars["cursor"] = endCursor
	}

	return pages, nil
}
