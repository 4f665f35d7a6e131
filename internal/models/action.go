package models

import "time"

// Action statuses.
const (
	ActionActive    = "active"
	ActionCompleted = "completed"
	ActionDropped   = "dropped"
)

// Action is the core work item in Doable. An action with no ProjectID is an
// inbox item.
type Action struct {
	ID               string     `gorm:"primaryKey;size:32" json:"id"`
	Title            string     `gorm:"not null" json:"title"`
	Note             string     `gorm:"type:text" json:"note,omitempty"`
	Status           string     `gorm:"size:16;default:active;index" json:"status"`
	Position         int        `gorm:"default:0" json:"position"`
	Flagged          bool       `gorm:"default:false;index" json:"flagged"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	DueAt            *time.Time `json:"due_at,omitempty"`
	DeferUntil       *time.Time `json:"defer_until,omitempty"`
	ParentID         *string    `gorm:"size:32" json:"parent_id,omitempty"`
	ProjectID        *string    `gorm:"size:32;index" json:"project_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	Project  *Project    `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Parent   *Action     `gorm:"foreignKey:ParentID" json:"-"`
	Children []Action    `gorm:"foreignKey:ParentID" json:"-"`
	Tags     []Tag       `gorm:"many2many:action_tags" json:"tags,omitempty"`
	Deps     []ActionDep `gorm:"foreignKey:ActionID" json:"deps,omitempty"`
}

// Done reports whether the action has reached a terminal status.
func (a *Action) Done() bool {
	return a.Status == ActionCompleted || a.Status == ActionDropped
}

// ActionDep represents a blocking relationship: the action identified by
// ActionID cannot be worked on until the BlockedBy action is done.
type ActionDep struct {
	ActionID  string `gorm:"primaryKey;size:32" json:"action_id"`
	BlockedBy string `gorm:"primaryKey;size:32" json:"blocked_by"`

	Action  Action `gorm:"foreignKey:ActionID" json:"-"`
	Blocker Action `gorm:"foreignKey:BlockedBy" json:"-"`
}
