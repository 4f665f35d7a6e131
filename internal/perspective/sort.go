package perspective

import (
	"sort"
	"strings"
	"time"

	"github.com/doablehq/doable/internal/models"
)

// defaultSort applies when a perspective stores no sort rules.
var defaultSort = []SortRule{{Field: "position", Direction: "asc"}}

// applySorts orders actions by the given sort keys, first rule primary and
// later rules breaking ties. The sort is stable, so candidate order survives
// where all keys compare equal. Unknown sort fields are skipped with a
// diagnostic.
func applySorts(actions []models.Action, rules []SortRule, diags *Diagnostics) {
	var keys []SortRule
	for _, r := range rules {
		if !knownSortField(r.Field) {
			diags.skip(r.Field, r.Direction, "unknown sort field")
			continue
		}
		keys = append(keys, r)
	}
	if len(keys) == 0 {
		keys = defaultSort
	}

	sort.SliceStable(actions, func(i, j int) bool {
		for _, k := range keys {
			c := compareActions(&actions[i], &actions[j], k.Field)
			if c == 0 {
				continue
			}
			if k.Direction == "desc" {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}

func knownSortField(field string) bool {
	switch field {
	case "position", "title", "due_at", "defer_until", "created_at", "flagged", "estimated_minutes", "status":
		return true
	}
	return false
}

// compareActions compares one sort key on two actions, returning the usual
// negative/zero/positive. Absent optional values sort after present ones so
// undated actions trail dated ones regardless of direction.
func compareActions(a, b *models.Action, field string) int {
	switch field {
	case "position":
		return a.Position - b.Position
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "due_at":
		return compareTimePtr(a.DueAt, b.DueAt)
	case "defer_until":
		return compareTimePtr(a.DeferUntil, b.DeferUntil)
	case "created_at":
		return compareTime(a.CreatedAt, b.CreatedAt)
	case "flagged":
		return compareBool(a.Flagged, b.Flagged)
	case "estimated_minutes":
		return compareIntPtr(a.EstimatedMinutes, b.EstimatedMinutes)
	case "status":
		return strings.Compare(a.Status, b.Status)
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

func compareTimePtr(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return compareTime(*a, *b)
}

func compareIntPtr(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return *a - *b
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	}
	return -1
}

// sortProjects orders review-perspective projects. Only a small key set
// makes sense for projects; anything else falls back to position.
func sortProjects(projects []models.Project, rules []SortRule) {
	field, desc := "position", false
	if len(rules) > 0 {
		switch rules[0].Field {
		case "name", "next_review_at", "position":
			field = rules[0].Field
		}
		desc = rules[0].Direction == "desc"
	}
	sort.SliceStable(projects, func(i, j int) bool {
		var c int
		switch field {
		case "name":
			c = strings.Compare(projects[i].Name, projects[j].Name)
		case "next_review_at":
			c = compareTimePtr(projects[i].NextReviewAt, projects[j].NextReviewAt)
		default:
			c = projects[i].Position - projects[j].Position
		}
		if c == 0 {
			c = strings.Compare(projects[i].ID, projects[j].ID)
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}
