// Package action provides action lifecycle operations.
package action

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new action.
type CreateOpts struct {
	Title            string
	Note             string
	ProjectID        string
	ParentID         string
	Flagged          bool
	EstimatedMinutes int
	DueAt            *time.Time
	DeferUntil       *time.Time
	TagIDs           []string
}

// ListFilters holds optional filters for listing actions.
type ListFilters struct {
	Status    string
	ProjectID string
	ParentID  string
	TagID     string
	Flagged   bool
	Inbox     bool
}

// ValidTransitions maps each action status to its valid next statuses.
var ValidTransitions = map[string][]string{
	models.ActionActive:    {models.ActionCompleted, models.ActionDropped},
	models.ActionCompleted: {models.ActionActive},
	models.ActionDropped:   {models.ActionActive},
}

// GenerateID creates a unique action ID in ac-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("action: generate ID: %w", err)
	}
	return "ac-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new action with an auto-generated ID. New actions start
// active and are placed after their siblings.
func Create(db *gorm.DB, opts CreateOpts) (*models.Action, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("action: title is required")
	}

	if opts.ProjectID != "" {
		var count int64
		if err := db.Model(&models.Project{}).Where("id = ?", opts.ProjectID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("action: check project %s: %w", opts.ProjectID, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("action: project not found: %s", opts.ProjectID)
		}
	}
	if opts.ParentID != "" {
		var count int64
		if err := db.Model(&models.Action{}).Where("id = ?", opts.ParentID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("action: check parent %s: %w", opts.ParentID, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("action: parent not found: %s", opts.ParentID)
		}
	}

	var tags []models.Tag
	if len(opts.TagIDs) > 0 {
		if err := db.Where("id IN ?", opts.TagIDs).Find(&tags).Error; err != nil {
			return nil, fmt.Errorf("action: load tags: %w", err)
		}
		if len(tags) != len(opts.TagIDs) {
			return nil, fmt.Errorf("action: %d of %d tags not found", len(opts.TagIDs)-len(tags), len(opts.TagIDs))
		}
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	pos, err := nextPosition(db, opts.ProjectID)
	if err != nil {
		return nil, err
	}

	a := models.Action{
		ID:         id,
		Title:      opts.Title,
		Note:       opts.Note,
		Status:     models.ActionActive,
		Position:   pos,
		Flagged:    opts.Flagged,
		DueAt:      opts.DueAt,
		DeferUntil: opts.DeferUntil,
		Tags:       tags,
	}
	if opts.ProjectID != "" {
		a.ProjectID = &opts.ProjectID
	}
	if opts.ParentID != "" {
		a.ParentID = &opts.ParentID
	}
	if opts.EstimatedMinutes > 0 {
		a.EstimatedMinutes = &opts.EstimatedMinutes
	}

	if err := db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("action: create: %w", err)
	}
	return &a, nil
}

// Get retrieves an action by ID, preloading its project, tags, and blocking
// edges.
func Get(db *gorm.DB, id string) (*models.Action, error) {
	var a models.Action
	if err := db.Preload("Project").Preload("Tags").Preload("Deps.Blocker").
		Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("action: not found: %s", id)
		}
		return nil, fmt.Errorf("action: get %s: %w", id, err)
	}
	return &a, nil
}

// List returns actions matching the given filters, ordered by position then ID.
func List(db *gorm.DB, filters ListFilters) ([]models.Action, error) {
	q := db.Model(&models.Action{}).Preload("Tags")

	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Inbox {
		q = q.Where("project_id IS NULL")
	} else if filters.ProjectID != "" {
		q = q.Where("project_id = ?", filters.ProjectID)
	}
	if filters.ParentID != "" {
		q = q.Where("parent_id = ?", filters.ParentID)
	}
	if filters.Flagged {
		q = q.Where("flagged = ?", true)
	}
	if filters.TagID != "" {
		q = q.Joins("JOIN action_tags ON action_tags.action_id = actions.id").
			Where("action_tags.tag_id = ?", filters.TagID)
	}

	var actions []models.Action
	if err := q.Order("position ASC, id ASC").Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("action: list: %w", err)
	}
	return actions, nil
}

// Update modifies action fields. Status transitions are validated against
// ValidTransitions; completing stamps CompletedAt and reopening clears it.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	var a models.Action
	if err := db.Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("action: not found: %s", id)
		}
		return fmt.Errorf("action: get %s for update: %w", id, err)
	}

	if newStatus, ok := updates["status"].(string); ok && newStatus != a.Status {
		if !isValidTransition(a.Status, newStatus) {
			valid := ValidTransitions[a.Status]
			return fmt.Errorf("action: invalid status transition from %q to %q; valid transitions: %v", a.Status, newStatus, valid)
		}
		switch newStatus {
		case models.ActionCompleted:
			updates["completed_at"] = time.Now()
		case models.ActionActive:
			updates["completed_at"] = nil
		}
	}

	if err := db.Model(&models.Action{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("action: update %s: %w", id, err)
	}
	return nil
}

// Complete marks an action completed.
func Complete(db *gorm.DB, id string) error {
	return Update(db, id, map[string]interface{}{"status": models.ActionCompleted})
}

// Drop marks an action dropped.
func Drop(db *gorm.DB, id string) error {
	return Update(db, id, map[string]interface{}{"status": models.ActionDropped})
}

// Defer hides an action from availability until the given instant.
func Defer(db *gorm.DB, id string, until time.Time) error {
	return Update(db, id, map[string]interface{}{"defer_until": until})
}

// isValidTransition checks whether a status transition is allowed.
func isValidTransition(from, to string) bool {
	for _, v := range ValidTransitions[from] {
		if v == to {
			return true
		}
	}
	return false
}

// nextPosition returns one past the highest sibling position: inbox siblings
// when projectID is empty, project members otherwise.
func nextPosition(db *gorm.DB, projectID string) (int, error) {
	q := db.Model(&models.Action{})
	if projectID == "" {
		q = q.Where("project_id IS NULL")
	} else {
		q = q.Where("project_id = ?", projectID)
	}
	var max *int
	if err := q.Select("MAX(position)").Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("action: next position: %w", err)
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Action{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("action: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("action: failed to generate unique ID after retries")
}
