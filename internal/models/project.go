package models

import "time"

// Project types.
const (
	ProjectSequential   = "sequential"
	ProjectParallel     = "parallel"
	ProjectSingleAction = "single_action"
)

// Project statuses.
const (
	ProjectActive    = "active"
	ProjectOnHold    = "on_hold"
	ProjectCompleted = "completed"
	ProjectDropped   = "dropped"
)

// Project is a container of actions with a sequencing type and a lifecycle
// status. Only active projects expose available actions.
type Project struct {
	ID             string     `gorm:"primaryKey;size:32" json:"id"`
	Name           string     `gorm:"not null" json:"name"`
	Note           string     `gorm:"type:text" json:"note,omitempty"`
	Type           string     `gorm:"size:16;default:parallel" json:"type"`
	Status         string     `gorm:"size:16;default:active;index" json:"status"`
	Position       int        `gorm:"default:0" json:"position"`
	ReviewInterval string     `gorm:"size:16" json:"review_interval,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Actions []Action `gorm:"foreignKey:ProjectID" json:"actions,omitempty"`
}
