package action

import (
	"fmt"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// AddDep creates a blocking dependency: actionID is blocked by blockedBy.
// Validates both IDs exist, prevents self-dependency, and rejects edges that
// would close a cycle. Cycle detection happens only here, on the write path;
// availability evaluation never walks the graph.
func AddDep(db *gorm.DB, actionID, blockedBy string) error {
	if actionID == blockedBy {
		return fmt.Errorf("dep: cannot add self-dependency on %s", actionID)
	}

	for _, id := range []string{actionID, blockedBy} {
		var count int64
		if err := db.Model(&models.Action{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("dep: check action %s: %w", id, err)
		}
		if count == 0 {
			return fmt.Errorf("dep: action not found: %s", id)
		}
	}

	if hasCycle(db, actionID, blockedBy) {
		return fmt.Errorf("dep: adding %s → %s would create a cycle", actionID, blockedBy)
	}

	dep := models.ActionDep{ActionID: actionID, BlockedBy: blockedBy}
	if err := db.Create(&dep).Error; err != nil {
		return fmt.Errorf("dep: create %s → %s: %w", actionID, blockedBy, err)
	}
	return nil
}

// ListDeps returns the blockers of an action (what blocks it) and the
// dependents (what it blocks).
func ListDeps(db *gorm.DB, actionID string) (blockers []models.ActionDep, dependents []models.ActionDep, err error) {
	if err := db.Preload("Blocker").Where("action_id = ?", actionID).Find(&blockers).Error; err != nil {
		return nil, nil, fmt.Errorf("dep: list blockers for %s: %w", actionID, err)
	}
	if err := db.Preload("Action").Where("blocked_by = ?", actionID).Find(&dependents).Error; err != nil {
		return nil, nil, fmt.Errorf("dep: list dependents for %s: %w", actionID, err)
	}
	return blockers, dependents, nil
}

// RemoveDep deletes a dependency relationship.
func RemoveDep(db *gorm.DB, actionID, blockedBy string) error {
	result := db.Where("action_id = ? AND blocked_by = ?", actionID, blockedBy).Delete(&models.ActionDep{})
	if result.Error != nil {
		return fmt.Errorf("dep: remove %s → %s: %w", actionID, blockedBy, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("dep: dependency %s → %s not found", actionID, blockedBy)
	}
	return nil
}

// hasCycle checks if adding actionID → blockedBy would create a cycle.
// It walks the dependency graph from blockedBy to see if it can reach actionID.
func hasCycle(db *gorm.DB, actionID, blockedBy string) bool {
	visited := make(map[string]bool)
	return reachable(db, blockedBy, actionID, visited)
}

// reachable performs a DFS from 'current' following blocked_by edges
// to determine if 'target' is reachable.
func reachable(db *gorm.DB, current, target string, visited map[string]bool) bool {
	if current == target {
		return true
	}
	if visited[current] {
		return false
	}
	visited[current] = true

	var deps []models.ActionDep
	if err := db.Where("action_id = ?", current).Find(&deps).Error; err != nil {
		return false
	}
	for _, d := range deps {
		if reachable(db, d.BlockedBy, target, visited) {
			return true
		}
	}
	return false
}
