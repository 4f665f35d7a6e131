package avail

import (
	"sort"

	"github.com/doablehq/doable/internal/models"
)

// Exposed returns the subset of a project's actions that project sequencing
// lets through to availability evaluation. Parallel and single-action
// projects expose every action; a sequential project exposes only its first
// active action in position order, or nothing when no action is active.
//
// Sequencing is a project-level gate: subtasks nested under a parent action
// are not re-gated here, and inbox items (no project) bypass this entirely.
// Ties on position are broken by ascending ID so the pick is deterministic.
func Exposed(p *models.Project, actions []models.Action) []models.Action {
	ordered := SortByPosition(actions)
	if p == nil || p.Type != models.ProjectSequential {
		return ordered
	}
	for _, a := range ordered {
		if a.Status == models.ActionActive {
			return []models.Action{a}
		}
	}
	return nil
}

// SortByPosition returns a copy of actions sorted by position ascending,
// then by ID ascending.
func SortByPosition(actions []models.Action) []models.Action {
	ordered := make([]models.Action, len(actions))
	copy(ordered, actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Position != ordered[j].Position {
			return ordered[i].Position < ordered[j].Position
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}
