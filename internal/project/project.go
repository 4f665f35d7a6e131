// Package project provides project lifecycle and review operations.
package project

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/doablehq/doable/internal/avail"
	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new project.
type CreateOpts struct {
	Name           string
	Note           string
	Type           string // sequential, parallel, single_action
	ReviewInterval string // e.g. "1w"
}

// ListFilters holds optional filters for listing projects.
type ListFilters struct {
	Status string
	Type   string
}

// ValidTransitions maps each project status to its valid next statuses.
var ValidTransitions = map[string][]string{
	models.ProjectActive:    {models.ProjectOnHold, models.ProjectCompleted, models.ProjectDropped},
	models.ProjectOnHold:    {models.ProjectActive, models.ProjectCompleted, models.ProjectDropped},
	models.ProjectCompleted: {models.ProjectActive},
	models.ProjectDropped:   {models.ProjectActive},
}

// GenerateID creates a unique project ID in pr-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("project: generate ID: %w", err)
	}
	return "pr-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new project with an auto-generated ID.
func Create(db *gorm.DB, opts CreateOpts) (*models.Project, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("project: name is required")
	}
	if opts.Type == "" {
		opts.Type = models.ProjectParallel
	}
	switch opts.Type {
	case models.ProjectSequential, models.ProjectParallel, models.ProjectSingleAction:
	default:
		return nil, fmt.Errorf("project: type %q is not valid (sequential, parallel, single_action)", opts.Type)
	}
	if opts.ReviewInterval != "" {
		if _, err := avail.ParseInterval(opts.ReviewInterval); err != nil {
			return nil, fmt.Errorf("project: %w", err)
		}
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	var max *int
	if err := db.Model(&models.Project{}).Select("MAX(position)").Scan(&max).Error; err != nil {
		return nil, fmt.Errorf("project: next position: %w", err)
	}
	pos := 0
	if max != nil {
		pos = *max + 1
	}

	p := models.Project{
		ID:             id,
		Name:           opts.Name,
		Note:           opts.Note,
		Type:           opts.Type,
		Status:         models.ProjectActive,
		Position:       pos,
		ReviewInterval: opts.ReviewInterval,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("project: create: %w", err)
	}
	return &p, nil
}

// Get retrieves a project by ID with its member actions ordered by position.
func Get(db *gorm.DB, id string) (*models.Project, error) {
	var p models.Project
	if err := db.Preload("Actions", func(q *gorm.DB) *gorm.DB {
		return q.Order("position ASC, id ASC")
	}).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: not found: %s", id)
		}
		return nil, fmt.Errorf("project: get %s: %w", id, err)
	}
	return &p, nil
}

// List returns projects matching the given filters, ordered by position.
func List(db *gorm.DB, filters ListFilters) ([]models.Project, error) {
	q := db.Model(&models.Project{})
	if filters.Status != "" {
		q = q.Where("status = ?", filters.Status)
	}
	if filters.Type != "" {
		q = q.Where("type = ?", filters.Type)
	}

	var projects []models.Project
	if err := q.Order("position ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("project: list: %w", err)
	}
	return projects, nil
}

// Update modifies project fields. Status transitions are validated against
// ValidTransitions; type and review interval changes are validated too.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	var p models.Project
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("project: not found: %s", id)
		}
		return fmt.Errorf("project: get %s for update: %w", id, err)
	}

	if newStatus, ok := updates["status"].(string); ok && newStatus != p.Status {
		if !isValidTransition(p.Status, newStatus) {
			valid := ValidTransitions[p.Status]
			return fmt.Errorf("project: invalid status transition from %q to %q; valid transitions: %v", p.Status, newStatus, valid)
		}
	}
	if newType, ok := updates["type"].(string); ok {
		switch newType {
		case models.ProjectSequential, models.ProjectParallel, models.ProjectSingleAction:
		default:
			return fmt.Errorf("project: type %q is not valid", newType)
		}
	}
	if iv, ok := updates["review_interval"].(string); ok && iv != "" {
		if _, err := avail.ParseInterval(iv); err != nil {
			return fmt.Errorf("project: %w", err)
		}
	}

	if err := db.Model(&models.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("project: update %s: %w", id, err)
	}
	return nil
}

// MarkReviewed records a review at the given instant and schedules the next
// one from the project's review interval. This is the only path that
// advances review timestamps.
func MarkReviewed(db *gorm.DB, id string, at time.Time) (*models.Project, error) {
	var p models.Project
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project: not found: %s", id)
		}
		return nil, fmt.Errorf("project: get %s for review: %w", id, err)
	}
	if p.ReviewInterval == "" {
		return nil, fmt.Errorf("project: %s has no review interval", id)
	}
	iv, err := avail.ParseInterval(p.ReviewInterval)
	if err != nil {
		return nil, fmt.Errorf("project: %s: %w", id, err)
	}

	next := iv.Next(at)
	if err := db.Model(&models.Project{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_reviewed_at": at,
		"next_review_at":   next,
	}).Error; err != nil {
		return nil, fmt.Errorf("project: mark %s reviewed: %w", id, err)
	}

	p.LastReviewedAt = &at
	p.NextReviewAt = &next
	return &p, nil
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

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("project: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("project: failed to generate unique ID after retries")
}
