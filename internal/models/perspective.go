package models

import "time"

// Built-in perspective slugs. These are seeded at init and cannot be deleted.
const (
	SlugInbox    = "inbox"
	SlugFlagged  = "flagged"
	SlugForecast = "forecast"
	SlugProjects = "projects"
	SlugReview   = "review"
)

// Perspective is a named, saved view definition: an ordered list of filter
// rules ANDed together, and an ordered list of sort keys. FilterRules and
// SortRules hold JSON arrays of {field, operator, value} and
// {field, direction} records.
type Perspective struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Slug        string    `gorm:"size:64;uniqueIndex" json:"slug"`
	Name        string    `gorm:"not null" json:"name"`
	BuiltIn     bool      `gorm:"default:false" json:"built_in"`
	FilterRules string    `gorm:"type:json" json:"filter_rules"`
	SortRules   string    `gorm:"type:json" json:"sort_rules"`
	Position    int       `gorm:"default:0" json:"position"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
