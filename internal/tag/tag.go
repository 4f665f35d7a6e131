// Package tag provides tag operations, including availability windows.
package tag

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/doablehq/doable/internal/avail"
	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new tag.
type CreateOpts struct {
	Name           string
	ParentID       string
	AvailableFrom  string // "HH:MM", optional
	AvailableUntil string // "HH:MM", optional
}

// GenerateID creates a unique tag ID in tg-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tag: generate ID: %w", err)
	}
	return "tg-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a new tag. Window bounds must parse as "HH:MM" when set;
// a tag only gates availability once both bounds are present.
func Create(db *gorm.DB, opts CreateOpts) (*models.Tag, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("tag: name is required")
	}
	for _, bound := range []string{opts.AvailableFrom, opts.AvailableUntil} {
		if bound == "" {
			continue
		}
		if _, err := avail.ParseTimeOfDay(bound); err != nil {
			return nil, fmt.Errorf("tag: %w", err)
		}
	}

	if opts.ParentID != "" {
		var count int64
		if err := db.Model(&models.Tag{}).Where("id = ?", opts.ParentID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("tag: check parent %s: %w", opts.ParentID, err)
		}
		if count == 0 {
			return nil, fmt.Errorf("tag: parent not found: %s", opts.ParentID)
		}
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	tg := models.Tag{ID: id, Name: opts.Name}
	if opts.ParentID != "" {
		tg.ParentID = &opts.ParentID
	}
	if opts.AvailableFrom != "" {
		tg.AvailableFrom = &opts.AvailableFrom
	}
	if opts.AvailableUntil != "" {
		tg.AvailableUntil = &opts.AvailableUntil
	}

	if err := db.Create(&tg).Error; err != nil {
		return nil, fmt.Errorf("tag: create: %w", err)
	}
	return &tg, nil
}

// Get retrieves a tag by ID, preloading its children for display grouping.
func Get(db *gorm.DB, id string) (*models.Tag, error) {
	var tg models.Tag
	if err := db.Preload("Children").Where("id = ?", id).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("tag: not found: %s", id)
		}
		return nil, fmt.Errorf("tag: get %s: %w", id, err)
	}
	return &tg, nil
}

// List returns all tags ordered by name.
func List(db *gorm.DB) ([]models.Tag, error) {
	var tags []models.Tag
	if err := db.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("tag: list: %w", err)
	}
	return tags, nil
}

// Update modifies tag fields, validating window bounds.
func Update(db *gorm.DB, id string, updates map[string]interface{}) error {
	var tg models.Tag
	if err := db.Where("id = ?", id).First(&tg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tag: not found: %s", id)
		}
		return fmt.Errorf("tag: get %s for update: %w", id, err)
	}

	for _, field := range []string{"available_from", "available_until"} {
		if bound, ok := updates[field].(string); ok && bound != "" {
			if _, err := avail.ParseTimeOfDay(bound); err != nil {
				return fmt.Errorf("tag: %w", err)
			}
		}
	}

	if err := db.Model(&models.Tag{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("tag: update %s: %w", id, err)
	}
	return nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Tag{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("tag: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("tag: failed to generate unique ID after retries")
}
