package perspective

import (
	"time"

	"github.com/doablehq/doable/internal/models"
)

// stage is one predicate in a perspective's filter pipeline. Built-in and
// custom perspectives run through the same pipeline executor; they differ
// only in how their stage list is assembled.
type stage struct {
	name string
	keep func(*models.Action) bool
}

// builtinStages maps a built-in perspective's identity to its implicit
// stages. Stored rules, if any, are appended after these by assembleStages.
func builtinStages(slug string, e *env) []stage {
	switch slug {
	case models.SlugInbox:
		return []stage{
			{"no project", func(a *models.Action) bool { return a.ProjectID == nil }},
			{"not done", func(a *models.Action) bool { return !a.Done() }},
			{"available", e.available},
		}

	case models.SlugFlagged:
		return []stage{
			{"flagged", func(a *models.Action) bool { return a.Flagged }},
			{"active", func(a *models.Action) bool { return a.Status == models.ActionActive }},
		}

	case models.SlugForecast:
		cutoff := endOfDay(e.now)
		return []stage{
			{"not done", func(a *models.Action) bool { return !a.Done() }},
			{"due today or overdue", func(a *models.Action) bool {
				return a.DueAt != nil && !a.DueAt.After(cutoff)
			}},
		}

	case models.SlugProjects:
		// One exposed action per active project: the candidate set is the
		// union of each project's sequencing-resolved exposed set, narrowed
		// to what is actually workable now.
		return []stage{
			{"in project", func(a *models.Action) bool { return a.ProjectID != nil }},
			{"exposed", func(a *models.Action) bool { return e.exposed[a.ID] }},
			{"available", e.available},
		}
	}
	return nil
}

// assembleStages builds the full pipeline for a perspective: implicit
// built-in stages first, then whatever stored rules compile. Rules that do
// not compile are skipped and recorded; they never fail the query.
func assembleStages(p *models.Perspective, e *env, diags *Diagnostics) []stage {
	var stages []stage
	if p.BuiltIn {
		stages = append(stages, builtinStages(p.Slug, e)...)
	}

	rules, err := decodeFilterRules(p.FilterRules)
	if err != nil {
		diags.skip("filter_rules", "", "unparseable rule JSON")
		return stages
	}
	for _, r := range rules {
		pred, err := compileFilter(r, e)
		if err != nil {
			diags.skip(r.Field, r.Operator, err.Error())
			continue
		}
		stages = append(stages, stage{name: r.Field + " " + r.Operator, keep: pred})
	}
	return stages
}

// endOfDay returns the last instant of t's calendar day in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
