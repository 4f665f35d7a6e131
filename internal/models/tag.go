package models

import "time"

// Tag is a label, optionally nested under a parent tag and optionally scoped
// to a daily time-of-day availability window. AvailableFrom and AvailableUntil
// hold "HH:MM" local times; the window only gates availability when both are
// set.
type Tag struct {
	ID             string    `gorm:"primaryKey;size:32" json:"id"`
	Name           string    `gorm:"not null;uniqueIndex" json:"name"`
	ParentID       *string   `gorm:"size:32" json:"parent_id,omitempty"`
	AvailableFrom  *string   `gorm:"size:5" json:"available_from,omitempty"`
	AvailableUntil *string   `gorm:"size:5" json:"available_until,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Parent   *Tag  `gorm:"foreignKey:ParentID" json:"-"`
	Children []Tag `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

// Windowed reports whether the tag defines a complete availability window.
func (t *Tag) Windowed() bool {
	return t.AvailableFrom != nil && t.AvailableUntil != nil
}
