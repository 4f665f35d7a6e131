package perspective

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a custom perspective.
type CreateOpts struct {
	Slug        string
	Name        string
	FilterRules string // JSON array of {field, operator, value}
	SortRules   string // JSON array of {field, direction}
}

// GenerateID creates a unique perspective ID in pe-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("perspective: generate ID: %w", err)
	}
	return "pe-" + hex.EncodeToString(b)[:5], nil
}

// ValidateRules checks that stored rule columns hold decodable JSON arrays.
// Rule contents are not validated here: unknown fields and operators are a
// query-time skip, not a write-time rejection, so older clients can keep
// writing rules a newer engine understands.
func ValidateRules(filterJSON, sortJSON string) error {
	if _, err := decodeFilterRules(filterJSON); err != nil {
		return err
	}
	if _, err := decodeSortRules(sortJSON); err != nil {
		return err
	}
	return nil
}

// Create creates a custom perspective. Built-ins are seeded by the db
// package and never created through this path.
func Create(db *gorm.DB, opts CreateOpts) (*models.Perspective, error) {
	if opts.Slug == "" {
		return nil, fmt.Errorf("perspective: slug is required")
	}
	if opts.Name == "" {
		return nil, fmt.Errorf("perspective: name is required")
	}
	if opts.FilterRules == "" {
		opts.FilterRules = "[]"
	}
	if opts.SortRules == "" {
		opts.SortRules = "[]"
	}
	if err := ValidateRules(opts.FilterRules, opts.SortRules); err != nil {
		return nil, err
	}

	var count int64
	if err := db.Model(&models.Perspective{}).Where("slug = ?", opts.Slug).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("perspective: check slug %q: %w", opts.Slug, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("perspective: slug already in use: %s", opts.Slug)
	}

	id, err := generateUniqueID(db)
	if err != nil {
		return nil, err
	}

	p := models.Perspective{
		ID:          id,
		Slug:        opts.Slug,
		Name:        opts.Name,
		FilterRules: opts.FilterRules,
		SortRules:   opts.SortRules,
	}
	if err := db.Create(&p).Error; err != nil {
		return nil, fmt.Errorf("perspective: create: %w", err)
	}
	return &p, nil
}

// List returns all perspectives: built-ins first in seeded order, then
// custom ones by name.
func List(db *gorm.DB) ([]models.Perspective, error) {
	var perspectives []models.Perspective
	if err := db.Order("built_in DESC, position ASC, name ASC").Find(&perspectives).Error; err != nil {
		return nil, fmt.Errorf("perspective: list: %w", err)
	}
	return perspectives, nil
}

// Update modifies a custom perspective. Built-ins reject edits: their
// filter semantics are implicit and fixed.
func Update(db *gorm.DB, idOrSlug string, updates map[string]interface{}) error {
	p, err := resolve(db, idOrSlug)
	if err != nil {
		return err
	}
	if p.BuiltIn {
		return fmt.Errorf("perspective: %s is built-in and cannot be edited", p.Slug)
	}

	filterJSON, sortJSON := p.FilterRules, p.SortRules
	if v, ok := updates["filter_rules"].(string); ok {
		filterJSON = v
	}
	if v, ok := updates["sort_rules"].(string); ok {
		sortJSON = v
	}
	if err := ValidateRules(filterJSON, sortJSON); err != nil {
		return err
	}

	if err := db.Model(&models.Perspective{}).Where("id = ?", p.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("perspective: update %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes a custom perspective. Built-ins are not deletable.
func Delete(db *gorm.DB, idOrSlug string) error {
	p, err := resolve(db, idOrSlug)
	if err != nil {
		return err
	}
	if p.BuiltIn {
		return fmt.Errorf("perspective: %s is built-in and cannot be deleted", p.Slug)
	}
	if err := db.Delete(&models.Perspective{}, "id = ?", p.ID).Error; err != nil {
		return fmt.Errorf("perspective: delete %s: %w", p.ID, err)
	}
	return nil
}

// resolve fetches a perspective by id or slug.
func resolve(db *gorm.DB, idOrSlug string) (*models.Perspective, error) {
	var p models.Perspective
	if err := db.Where("id = ? OR slug = ?", idOrSlug, idOrSlug).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, idOrSlug)
		}
		return nil, fmt.Errorf("perspective: resolve %s: %w", idOrSlug, err)
	}
	return &p, nil
}

// generateUniqueID generates an ID and retries once on collision.
func generateUniqueID(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		var count int64
		if err := db.Model(&models.Perspective{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return "", fmt.Errorf("perspective: check ID uniqueness: %w", err)
		}
		if count == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("perspective: failed to generate unique ID after retries")
}
