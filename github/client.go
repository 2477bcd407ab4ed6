// Package github exposes the platform operations the migration needs:
// organization-scoped reads of Projects V2 data and the mutations that
// recreate projects, fields, and items.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"projects-migrate/graphql"
	"projects-migrate/projects"
)

type Client struct {
	Org     string
	GraphQL *graphql.Client
}

func NewClient(org string, gql *graphql.Client) *Client {
	return &Client{Org: org, GraphQL: gql}
}

func stringAt(operation string, data map[string]any, path ...string) (string, error) {
	current := data
	for i, key := range path[:len(path)-1] {
		raw, ok := current[key]
		if !ok || raw == nil {
			return "", &graphql.MissingDataError{Operation: operation, Path: path[:i+1]}
		}
		next, ok := raw.(map[string]any)
		if !ok {
			return "", &graphql.MissingDataError{Operation: operation, Path: path[:i+1]}
		}
		current = next
	}
	leaf := path[len(path)-1]
	value, ok := current[leaf].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", &graphql.MissingDataError{Operation: operation, Path: path}
	}
	return value, nil
}

// OwnerID resolves the organization-level owner identifier, required once
// per import run before any project can be created.
func (c *Client) OwnerID(ctx context.Context) (string, error) {
	org := strings.TrimSpace(c.Org)
	if org == "" {
		return "", errors.New("organization login is required")
	}
	data, err := c.GraphQL.Query(ctx, organizationIDQuery, map[string]any{"login": org}, "OrganizationID")
	if err != nil {
		return "", err
	}
	return stringAt("OrganizationID", data, "organization", "id")
}

// ListProjects returns every project metadata node owned by the
// organization, following the cursor across pages of 100.
func (c *Client) ListProjects(ctx context.Context) ([]map[string]any, error) {
	org := strings.TrimSpace(c.Org)
	if org == "" {
		return nil, errors.New("organization login is required")
	}
	pages, err := c.GraphQL.Paginate(ctx, organizationProjectsQuery,
		map[string]any{"organization": org}, "OrganizationProjects",
		"organization", "projectsV2")
	if err != nil {
		return nil, err
	}
	return graphql.FlattenPages(pages), nil
}

// ProjectFields fetches all field pages for one project. Pages are kept
// separate; the snapshot layout preserves page boundaries.
func (c *Client) ProjectFields(ctx context.Context, projectID string) ([]graphql.Page, error) {
	return c.projectConnection(ctx, projectFieldsQuery, projectID, "ProjectFields", "fields")
}

func (c *Client) ProjectViews(ctx context.Context, projectID string) ([]graphql.Page, error) {
	return c.projectConnection(ctx, projectViewsQuery, projectID, "ProjectViews", "views")
}

func (c *Client) ProjectItems(ctx context.Context, projectID string) ([]graphql.Page, error) {
	return c.projectConnection(ctx, projectItemsQuery, projectID, "ProjectItems", "items")
}

func (c *Client) projectConnection(ctx context.Context, query, projectID, operation, connection string) ([]graphql.Page, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("project id is required")
	}
	return c.GraphQL.Paginate(ctx, query,
		map[string]any{"id": projectID}, operation,
		"node", connection)
}

// ProjectItemCount reads the live item totalCount for reconciliation
// checks after a migration pass.
func (c *Client) ProjectItemCount(ctx context.Context, projectID string) (int, error) {
	if strings.TrimSpace(projectID) == "" {
		return 0, errors.New("project id is required")
	}
	data, err := c.GraphQL.Query(ctx, projectItemCountQuery, map[string]any{"id": projectID}, "ProjectItemCount")
	if err != nil {
		return 0, err
	}
	node, ok := data["node"].(map[string]any)
	if !ok {
		return 0, &graphql.MissingDataError{Operation: "ProjectItemCount", Path: []string{"node"}}
	}
	items, ok := node["items"].(map[string]any)
	if !ok {
		return 0, &graphql.MissingDataError{Operation: "ProjectItemCount", Path: []string{"node", "items"}}
	}
	count, ok := items["totalCount"].(float64)
	if !ok {
		return 0, &graphql.MissingDataError{Operation: "ProjectItemCount", Path: []string{"node", "items", "totalCount"}}
	}
	return int(count), nil
}

// IssueOrPullRequestID resolves target-side content by repository name and
// number. Numbers are assumed stable across accounts; that precondition
// belongs to the migration environment, not this client.
func (c *Client) IssueOrPullRequestID(ctx context.Context, repository string, number int) (string, error) {
	if strings.TrimSpace(repository) == "" {
		return "", errors.New("repository name is required")
	}
	data, err := c.GraphQL.Query(ctx, issueOrPullRequestQuery, map[string]any{
		"owner":      c.Org,
		"repository": repository,
		"number":     number,
	}, "IssueOrPullRequest")
	if err != nil {
		return "", err
	}
	return stringAt("IssueOrPullRequest", data, "repository", "issueOrPullRequest", "id")
}

// CreateProject creates a bare project; only title and owner are accepted
// by the creation API, everything else goes through UpdateProject.
func (c *Client) CreateProject(ctx context.Context, title, ownerID string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("project title is required")
	}
	if strings.TrimSpace(ownerID) == "" {
		return "", errors.New("owner id is required")
	}
	data, err := c.GraphQL.Query(ctx, createProjectMutation, map[string]any{
		"title":   title,
		"ownerId": ownerID,
	}, "CreateProject")
	if err != nil {
		return "", err
	}
	return stringAt("CreateProject", data, "createProjectV2", "projectV2", "id")
}

func (c *Client) UpdateProject(ctx context.Context, projectID string, meta projects.Project) error {
	if strings.TrimSpace(projectID) == "" {
		return errors.New("project id is required")
	}
	data, err := c.GraphQL.Query(ctx, updateProjectMutation, map[string]any{
		"id":               projectID,
		"title":            meta.Title,
		"closed":           meta.Closed,
		"public":           meta.Public,
		"readme":           meta.Readme,
		"shortDescription": meta.ShortDescription,
	}, "UpdateProject")
	if err != nil {
		return err
	}
	_, err = stringAt("UpdateProject", data, "updateProjectV2", "projectV2", "id")
	return err
}

func (c *Client) CreateField(ctx context.Context, projectID, name, dataType string) error {
	if strings.TrimSpace(dataType) == "" {
		return errors.New("field dataType is required")
	}
	_, err := c.GraphQL.Query(ctx, createFieldMutation, map[string]any{
		"projectId": projectID,
		"dataType":  dataType,
		"name":      name,
	}, "CreateField")
	return err
}

// CreateSingleSelectField creates the field with its option list. Option
// color and description are carried from the source; a missing color falls
// back to GRAY because the input type requires one.
func (c *Client) CreateSingleSelectField(ctx context.Context, projectID, name string, options []projects.FieldOption) error {
	inputs := make([]map[string]any, 0, len(options))
	for _, opt := range options {
		color := opt.Color
		if strings.TrimSpace(color) == "" {
			color = "GRAY"
		}
		inputs = append(inputs, map[string]any{
			"name":        opt.Name,
			"color":       color,
			"description": opt.Description,
		})
	}
	_, err := c.GraphQL.Query(ctx, createSingleSelectFieldMutation, map[string]any{
		"projectId": projectID,
		"name":      name,
		"options":   inputs,
	}, "CreateSingleSelectField")
	return err
}

// AddItem attaches existing content to the project and returns the new
// item identifier.
func (c *Client) AddItem(ctx context.Context, projectID, contentID string) (string, error) {
	data, err := c.GraphQL.Query(ctx, addItemMutation, map[string]any{
		"projectId": projectID,
		"contentId": contentID,
	}, "AddItem")
	if err != nil {
		return "", err
	}
	return stringAt("AddItem", data, "addProjectV2ItemById", "item", "id")
}

func (c *Client) AddDraftIssue(ctx context.Context, projectID, title, body string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.New("draft issue title is required")
	}
	data, err := c.GraphQL.Query(ctx, addDraftIssueMutation, map[string]any{
		"projectId": projectID,
		"title":     title,
		"body":      body,
	}, "AddDraftIssue")
	if err != nil {
		return "", err
	}
	return stringAt("AddDraftIssue", data, "addProjectV2DraftIssue", "projectItem", "id")
}

func (c *Client) setFieldValue(ctx context.Context, projectID, itemID, fieldID string, value map[string]any) error {
	_, err := c.GraphQL.Query(ctx, updateItemFieldValueMutation, map[string]any{
		"projectId": projectID,
		"itemId":    itemID,
		"fieldId":   fieldID,
		"value":     value,
	}, "UpdateItemFieldValue")
	return err
}

func (c *Client) SetTextValue(ctx context.Context, projectID, itemID, fieldID, text string) error {
	return c.setFieldValue(ctx, projectID, itemID, fieldID, map[string]any{"text": text})
}

func (c *Client) SetNumberValue(ctx context.Context, projectID, itemID, fieldID string, number float64) error {
	return c.setFieldValue(ctx, projectID, itemID, fieldID, map[string]any{"number": number})
}

func (c *Client) SetDateValue(ctx context.Context, projectID, itemID, fieldID, date string) error {
	return c.setFieldValue(ctx, projectID, itemID, fieldID, map[string]any{"date": date})
}

func (c *Client) SetSingleSelectValue(ctx context.Context, projectID, itemID, fieldID, optionID string) error {
	return c.setFieldValue(ctx, projectID, itemID, fieldID, map[string]any{"singleSelectOptionId": optionID})
}

func (c *Client) SetIterationValue(ctx context.Context, projectID, itemID, fieldID, iterationID string) error {
	return c.setFieldValue(ctx, projectID, itemID, fieldID, map[string]any{"iterationId": iterationID})
}

// TargetFields fetches and decodes the live field list of a project,
// skipping nodes that fail shape checks.
func (c *Client) TargetFields(ctx context.Context, projectID string) ([]projects.Field, error) {
	pages, err := c.ProjectFields(ctx, projectID)
	if err != nil {
		return nil, err
	}
	fields, malformed := projects.DecodeFields(graphql.FlattenPages(pages))
	if len(malformed) > 0 && c.GraphQL.Logger != nil {
		for _, decodeErr := range malformed {
			c.GraphQL.Logger.Warn("skipping malformed live field node",
				"project_id", projectID, "error", fmt.Sprint(decodeErr))
		}
	}
	return fields, nil
}
