package projects

import (
	"fmt"
	"strings"
)

func requireStringField(obj map[string]any, key string, path string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s.%s is required", path, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s.%s must be a string", path, key)
	}
	clean := strings.TrimSpace(s)
	if clean == "" {
		return "", fmt.Errorf("%s.%s is required", path, key)
	}
	return clean, nil
}

func optionalStringField(obj map[string]any, key string) string {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return ""
	}
	s, _ := raw.(string)
	return s
}

func optionalBoolField(obj map[string]any, key string) bool {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return false
	}
	b, _ := raw.(bool)
	return b
}

func optionalNumberField(obj map[string]any, key string) float64 {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0
	}
	n, _ := raw.(float64)
	return n
}

func optionalMapField(obj map[string]any, key string) map[string]any {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil
	}
	m, _ := raw.(map[string]any)
	return m
}

func optionalListField(obj map[string]any, key string) []any {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil
	}
	l, _ := raw.([]any)
	return l
}

// DecodeProject decodes a project metadata node.
func DecodeProject(node map[string]any) (Project, error) {
	id, err := requireStringField(node, "id", "project")
	if err != nil {
		return Project{}, err
	}
	title, err := requireStringField(node, "title", "project")
	if err != nil {
		return Project{}, err
	}
	return Project{
		ID:               id,
		Title:            title,
		ShortDescription: optionalStringField(node, "shortDescription"),
		Readme:           optionalStringField(node, "readme"),
		Closed:           optionalBoolField(node, "closed"),
		Public:           optionalBoolField(node, "public"),
	}, nil
}

// DecodeField decodes a polymorphic field node. The {id, name, dataType}
// triple is mandatory for every variant; single-select options and
// iteration configuration ride along when present.
func DecodeField(node map[string]any) (Field, error) {
	id, err := requireStringField(node, "id", "field")
	if err != nil {
		return Field{}, err
	}
	name, err := requireStringField(node, "name", "field")
	if err != nil {
		return Field{}, err
	}
	dataType, err := requireStringField(node, "dataType", "field")
	if err != nil {
		return Field{}, err
	}

	field := Field{ID: id, Name: name, DataType: dataType}

	if dataType == FieldTypeSingleSelect {
		for _, raw := range optionalListField(node, "options") {
			opt, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			optName, err := requireStringField(opt, "name", "field.options")
			if err != nil {
				return Field{}, err
			}
			field.Options = append(field.Options, FieldOption{
				ID:          optionalStringField(opt, "id"),
				Name:        optName,
				Color:       optionalStringField(opt, "color"),
				Description: optionalStringField(opt, "description"),
			})
		}
	}

	if dataType == FieldTypeIteration {
		if config := optionalMapField(node, "configuration"); config != nil {
			field.Configuration = &IterationConfiguration{
				Iterations:          decodeIterations(optionalListField(config, "iterations")),
				CompletedIterations: decodeIterations(optionalListField(config, "completedIterations")),
			}
		}
	}

	return field, nil
}

func decodeIterations(raw []any) []Iteration {
	var out []Iteration
	for _, entry := range raw {
		node, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Iteration{
			ID:        optionalStringField(node, "id"),
			Title:     optionalStringField(node, "title"),
			StartDate: optionalStringField(node, "startDate"),
			Duration:  int(optionalNumberField(node, "duration")),
		})
	}
	return out
}

// DecodeFields decodes a flat list of field nodes, returning decoded
// fields alongside the raw nodes that failed shape checks.
func DecodeFields(nodes []map[string]any) ([]Field, []error) {
	var fields []Field
	var malformed []error
	for _, node := range nodes {
		field, err := DecodeField(node)
		if err != nil {
			malformed = append(malformed, err)
			continue
		}
		fields = append(fields, field)
	}
	return fields, malformed
}

// DecodeItem decodes an item node with its content union and field values.
// An item without content decodes with Content nil; field values that do
// not match a known variant decode as ValueUnknown for the caller to log.
func DecodeItem(node map[string]any) (Item, error) {
	id, err := requireStringField(node, "id", "item")
	if err != nil {
		return Item{}, err
	}
	item := Item{ID: id}

	if content := optionalMapField(node, "content"); len(content) > 0 {
		contentID, err := requireStringField(content, "id", "item.content")
		if err != nil {
			return Item{}, err
		}
		decoded := &Content{
			ID:     contentID,
			Title:  optionalStringField(content, "title"),
			Body:   optionalStringField(content, "body"),
			Number: int(optionalNumberField(content, "number")),
		}
		if repo := optionalMapField(content, "repository"); repo != nil {
			decoded.Repository = optionalStringField(repo, "name")
		}
		item.Content = decoded
	}

	if fieldValues := optionalMapField(node, "fieldValues"); fieldValues != nil {
		for _, raw := range optionalListField(fieldValues, "nodes") {
			valueNode, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			item.FieldValues = append(item.FieldValues, DecodeFieldValue(valueNode))
		}
	}

	return item, nil
}

// DecodeFieldValue maps a fieldValues node onto the closed value variant
// set by __typename. Unrecognized or empty nodes come back as ValueUnknown
// rather than an error; a single odd value must not sink the item.
func DecodeFieldValue(node map[string]any) FieldValue {
	fieldName := ""
	if field := optionalMapField(node, "field"); field != nil {
		fieldName = optionalStringField(field, "name")
	}

	typename := optionalStringField(node, "__typename")
	switch typename {
	case "ProjectV2ItemFieldTextValue":
		return FieldValue{Kind: ValueText, Field: fieldName, Text: optionalStringField(node, "text")}
	case "ProjectV2ItemFieldNumberValue":
		return FieldValue{Kind: ValueNumber, Field: fieldName, Number: optionalNumberField(node, "number")}
	case "ProjectV2ItemFieldDateValue":
		return FieldValue{Kind: ValueDate, Field: fieldName, Date: optionalStringField(node, "date")}
	case "ProjectV2ItemFieldSingleSelectValue":
		return FieldValue{Kind: ValueSingleSelect, Field: fieldName, Option: optionalStringField(node, "name")}
	case "ProjectV2ItemFieldIterationValue":
		return FieldValue{Kind: ValueIteration, Field: fieldName, Iteration: optionalStringField(node, "title")}
	default:
		return FieldValue{Kind: ValueUnknown, Field: fieldName}
	}
}
