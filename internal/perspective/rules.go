// Package perspective evaluates saved views over the task graph: declarative
// filter and sort rules, the built-in perspective pipelines, and the query
// orchestrator that ties the entity store, the sequencing resolver, and the
// availability evaluator together.
package perspective

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/doablehq/doable/internal/avail"
	"github.com/doablehq/doable/internal/models"
)

// FilterRule is one stored filter condition. Rules within a perspective are
// ANDed together.
type FilterRule struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value,omitempty"`
}

// SortRule is one stored sort key. Rules apply in array order as a stable
// multi-key sort.
type SortRule struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// SkippedRule records a stored rule that could not be applied. Malformed
// rules are skipped, never fatal: the view renders from the rules that do
// parse.
type SkippedRule struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Reason   string `json:"reason"`
}

// Diagnostics collects per-query rule anomalies for operator visibility.
type Diagnostics struct {
	Skipped []SkippedRule
}

func (d *Diagnostics) skip(field, operator, reason string) {
	d.Skipped = append(d.Skipped, SkippedRule{Field: field, Operator: operator, Reason: reason})
	log.Printf("perspective: skipping rule field=%q operator=%q: %s", field, operator, reason)
}

// decodeFilterRules parses the stored JSON rule list. An empty column means
// no rules.
func decodeFilterRules(raw string) ([]FilterRule, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var rules []FilterRule
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return nil, fmt.Errorf("perspective: decode filter rules: %w", err)
	}
	return rules, nil
}

// decodeSortRules parses the stored JSON sort list.
func decodeSortRules(raw string) ([]SortRule, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var rules []SortRule
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return nil, fmt.Errorf("perspective: decode sort rules: %w", err)
	}
	return rules, nil
}

// compileFilter maps a (field, operator) pair to a predicate over actions.
// The supported pairs form a closed set; an unrecognized pair returns an
// error and the caller routes it to the skip-and-log path. The "available"
// field is computed through the sequencing and availability pipeline, never
// read from storage.
func compileFilter(rule FilterRule, e *env) (func(*models.Action) bool, error) {
	switch rule.Field {
	case "status":
		switch rule.Operator {
		case "eq":
			return func(a *models.Action) bool { return a.Status == rule.Value }, nil
		case "neq":
			return func(a *models.Action) bool { return a.Status != rule.Value }, nil
		}

	case "flagged":
		if rule.Operator == "eq" {
			want, err := strconv.ParseBool(rule.Value)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a bool", rule.Value)
			}
			return func(a *models.Action) bool { return a.Flagged == want }, nil
		}

	case "project":
		switch rule.Operator {
		case "isnull":
			return func(a *models.Action) bool { return a.ProjectID == nil }, nil
		case "notnull":
			return func(a *models.Action) bool { return a.ProjectID != nil }, nil
		case "eq":
			return func(a *models.Action) bool { return a.ProjectID != nil && *a.ProjectID == rule.Value }, nil
		case "neq":
			return func(a *models.Action) bool { return a.ProjectID == nil || *a.ProjectID != rule.Value }, nil
		}

	case "tag":
		if rule.Operator == "has" {
			return func(a *models.Action) bool {
				for _, tag := range a.Tags {
					if tag.ID == rule.Value || tag.Name == rule.Value {
						return true
					}
				}
				return false
			}, nil
		}

	case "available":
		if rule.Operator == "eq" {
			want, err := strconv.ParseBool(rule.Value)
			if err != nil {
				return nil, fmt.Errorf("value %q is not a bool", rule.Value)
			}
			return func(a *models.Action) bool { return e.available(a) == want }, nil
		}

	case "due":
		switch rule.Operator {
		case "isnull":
			return func(a *models.Action) bool { return a.DueAt == nil }, nil
		case "notnull":
			return func(a *models.Action) bool { return a.DueAt != nil }, nil
		case "within":
			iv, err := avail.ParseInterval(rule.Value)
			if err != nil {
				return nil, fmt.Errorf("value %q is not an interval", rule.Value)
			}
			horizon := iv.Next(e.now)
			return func(a *models.Action) bool {
				return a.DueAt != nil && !a.DueAt.After(horizon)
			}, nil
		}

	case "estimate":
		n, err := strconv.Atoi(rule.Value)
		if err != nil {
			return nil, fmt.Errorf("value %q is not a minute count", rule.Value)
		}
		switch rule.Operator {
		case "lte":
			return func(a *models.Action) bool {
				return a.EstimatedMinutes != nil && *a.EstimatedMinutes <= n
			}, nil
		case "gte":
			return func(a *models.Action) bool {
				return a.EstimatedMinutes != nil && *a.EstimatedMinutes >= n
			}, nil
		}

	default:
		return nil, fmt.Errorf("unknown field %q", rule.Field)
	}
	return nil, fmt.Errorf("operator %q is not supported for field %q", rule.Operator, rule.Field)
}
