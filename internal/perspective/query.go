package perspective

import (
	"errors"
	"fmt"
	"time"

	"github.com/doablehq/doable/internal/avail"
	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested perspective does not exist.
// It is the only error class that propagates to the caller; per-rule and
// per-reference anomalies degrade in place.
var ErrNotFound = errors.New("perspective not found")

// Result is the ordered output of one perspective query. The review
// perspective yields projects awaiting review; every other perspective
// yields actions.
type Result struct {
	Perspective models.Perspective
	Actions     []models.Action
	Projects    []models.Project
	Skipped     []SkippedRule
}

// Query resolves a perspective by id or slug and evaluates it against the
// current stored state. The evaluation instant is captured once and reused
// for every per-action decision in the call, so siblings cannot be scored
// against different clocks. The query path is read-only.
func Query(db *gorm.DB, idOrSlug string, now time.Time) (*Result, error) {
	pp, err := resolve(db, idOrSlug)
	if err != nil {
		return nil, err
	}
	p := *pp

	if p.BuiltIn && p.Slug == models.SlugReview {
		return queryReview(db, p, now)
	}
	return queryActions(db, p, now)
}

func queryActions(db *gorm.DB, p models.Perspective, now time.Time) (*Result, error) {
	candidates, err := fetchCandidates(db)
	if err != nil {
		return nil, err
	}

	e := newEnv(candidates, now)
	diags := &Diagnostics{}
	stages := assembleStages(&p, e, diags)

	kept := candidates[:0]
	for i := range candidates {
		a := &candidates[i]
		keep := true
		for _, s := range stages {
			if !s.keep(a) {
				keep = false
				break
			}
		}
		if keep {
			kept = append(kept, *a)
		}
	}

	sortRules, err := decodeSortRules(p.SortRules)
	if err != nil {
		diags.skip("sort_rules", "", "unparseable rule JSON")
		sortRules = nil
	}
	applySorts(kept, sortRules, diags)

	return &Result{Perspective: p, Actions: kept, Skipped: diags.Skipped}, nil
}

// queryReview lists projects due for review: active, with a review interval
// set, and either never reviewed or due on or before today.
func queryReview(db *gorm.DB, p models.Perspective, now time.Time) (*Result, error) {
	var projects []models.Project
	if err := db.Where("status = ? AND review_interval <> ''", models.ProjectActive).
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("perspective: fetch review candidates: %w", err)
	}

	cutoff := endOfDay(now)
	due := projects[:0]
	for _, pr := range projects {
		if pr.NextReviewAt == nil || !pr.NextReviewAt.After(cutoff) {
			due = append(due, pr)
		}
	}

	diags := &Diagnostics{}
	sortRules, err := decodeSortRules(p.SortRules)
	if err != nil {
		diags.skip("sort_rules", "", "unparseable rule JSON")
		sortRules = nil
	}
	sortProjects(due, sortRules)

	return &Result{Perspective: p, Projects: due, Skipped: diags.Skipped}, nil
}

// fetchCandidates pulls the wide candidate set with everything availability
// evaluation needs preloaded: owning project, tags, and direct blocking
// edges with each blocker's status. The heavy narrowing happens in the
// pipeline stages.
func fetchCandidates(db *gorm.DB) ([]models.Action, error) {
	var actions []models.Action
	if err := db.Preload("Project").Preload("Tags").Preload("Deps.Blocker").
		Order("position ASC, id ASC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("perspective: fetch candidates: %w", err)
	}
	return actions, nil
}

// env is the request-scoped evaluation state for one query: the captured
// clock, the sequencing-exposed set, and a per-action availability memo.
// It is discarded when the query returns; nothing here outlives a call.
type env struct {
	now       time.Time
	exposed   map[string]bool
	availMemo map[string]bool
}

func newEnv(actions []models.Action, now time.Time) *env {
	e := &env{
		now:       now,
		exposed:   make(map[string]bool, len(actions)),
		availMemo: make(map[string]bool, len(actions)),
	}

	// Inbox items bypass sequencing; project members go through the
	// resolver grouped by project.
	byProject := make(map[string][]models.Action)
	projects := make(map[string]*models.Project)
	for i := range actions {
		a := &actions[i]
		if a.ProjectID == nil {
			e.exposed[a.ID] = true
			continue
		}
		byProject[*a.ProjectID] = append(byProject[*a.ProjectID], *a)
		if a.Project != nil {
			projects[*a.ProjectID] = a.Project
		}
	}
	for pid, members := range byProject {
		// A dangling project reference resolves to a nil project, which
		// the resolver passes through: the missing record imposes no
		// sequencing constraint.
		for _, x := range avail.Exposed(projects[pid], members) {
			e.exposed[x.ID] = true
		}
	}
	return e
}

// available combines sequencing exposure with the availability conjunction,
// memoized per action for the lifetime of this query.
func (e *env) available(a *models.Action) bool {
	if v, ok := e.availMemo[a.ID]; ok {
		return v
	}
	v := e.exposed[a.ID] && avail.Available(a, avail.Context{
		Project:         a.Project,
		Tags:            a.Tags,
		BlockerStatuses: blockerStatuses(a.Deps),
		Now:             e.now,
	})
	e.availMemo[a.ID] = v
	return v
}

// blockerStatuses collects the statuses of resolvable direct blockers. A
// blocking edge pointing at an id the store cannot resolve imposes no
// constraint.
func blockerStatuses(deps []models.ActionDep) []string {
	var statuses []string
	for _, d := range deps {
		if d.Blocker.ID != "" {
			statuses = append(statuses, d.Blocker.Status)
		}
	}
	return statuses
}
