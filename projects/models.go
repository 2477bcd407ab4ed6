// Package projects holds the canonical shapes for project data exchanged
// with the platform, decoded once at the API boundary.
package projects

import "strings"

// Field data types as reported by the platform.
const (
	FieldTypeText         = "TEXT"
	FieldTypeNumber       = "NUMBER"
	FieldTypeDate         = "DATE"
	FieldTypeSingleSelect = "SINGLE_SELECT"
	FieldTypeIteration    = "ITERATION"
)

// Draft issue content identifiers carry this prefix; linked issues and
// pull requests do not.
const DraftIssuePrefix = "DI_"

type Project struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Readme           string `json:"readme"`
	Closed           bool   `json:"closed"`
	Public           bool   `json:"public"`
}

type FieldOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type Iteration struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StartDate string `json:"startDate"`
	Duration  int    `json:"duration"`
}

type IterationConfiguration struct {
	Iterations          []Iteration `json:"iterations"`
	CompletedIterations []Iteration `json:"completedIterations"`
}

type Field struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	DataType      string                  `json:"dataType"`
	Options       []FieldOption           `json:"options,omitempty"`
	Configuration *IterationConfiguration `json:"configuration,omitempty"`
}

func (f Field) IsSingleSelect() bool {
	return f.DataType == FieldTypeSingleSelect
}

func (f Field) IsIteration() bool {
	return f.DataType == FieldTypeIteration
}

// OptionID resolves a single-select option identifier by option name.
func (f Field) OptionID(name string) (string, bool) {
	for _, opt := range f.Options {
		if opt.Name == name {
			return opt.ID, true
		}
	}
	return "", false
}

// IterationID resolves an iteration identifier by title, searching active
// iterations before completed ones.
func (f Field) IterationID(title string) (string, bool) {
	if f.Configuration == nil {
		return "", false
	}
	for _, it := range f.Configuration.Iterations {
		if it.Title == title {
			return it.ID, true
		}
	}
	for _, it := range f.Configuration.CompletedIterations {
		if it.Title == title {
			return it.ID, true
		}
	}
	return "", false
}

type Content struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Repository string `json:"repository"`
	Number     int    `json:"number"`
}

func (c Content) IsDraft() bool {
	return strings.HasPrefix(c.ID, DraftIssuePrefix)
}

type ValueKind string

const (
	ValueText         ValueKind = "text"
	ValueNumber       ValueKind = "number"
	ValueDate         ValueKind = "date"
	ValueSingleSelect ValueKind = "single_select"
	ValueIteration    ValueKind = "iteration"
	ValueUnknown      ValueKind = "unknown"
)

// FieldValue is a closed variant over the value shapes an item can carry.
// Kind selects which payload field is meaningful.
type FieldValue struct {
	Kind      ValueKind
	Field     string
	Text      string
	Number    float64
	Date      string
	Option    string
	Iteration string
}

type Item struct {
	ID          string
	Content     *Content
	FieldValues []FieldValue
}
