package remind

import (
	"fmt"
	"strings"
	"time"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
)

// Digest summarizes the work that needs attention at one instant: actions
// past their due time, actions due before the end of the day, and projects
// whose review is pending. The build path is read-only.
type Digest struct {
	At        time.Time
	Overdue   []models.Action
	DueToday  []models.Action
	ReviewDue []models.Project
}

// Empty reports whether the digest has nothing to say. Empty digests are
// suppressed, not delivered.
func (d *Digest) Empty() bool {
	return len(d.Overdue) == 0 && len(d.DueToday) == 0 && len(d.ReviewDue) == 0
}

// BuildDigest queries the store for the given instant.
func BuildDigest(db *gorm.DB, now time.Time) (*Digest, error) {
	d := &Digest{At: now}
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	if err := db.Where("status = ? AND due_at IS NOT NULL AND due_at < ?", models.ActionActive, now).
		Order("due_at ASC").Find(&d.Overdue).Error; err != nil {
		return nil, fmt.Errorf("remind: overdue actions: %w", err)
	}
	if err := db.Where("status = ? AND due_at >= ? AND due_at <= ?", models.ActionActive, now, dayEnd).
		Order("due_at ASC").Find(&d.DueToday).Error; err != nil {
		return nil, fmt.Errorf("remind: due-today actions: %w", err)
	}
	if err := db.Where("status = ? AND review_interval <> '' AND (next_review_at IS NULL OR next_review_at <= ?)",
		models.ProjectActive, dayEnd).
		Order("next_review_at ASC").Find(&d.ReviewDue).Error; err != nil {
		return nil, fmt.Errorf("remind: review-due projects: %w", err)
	}
	return d, nil
}

// Format renders the digest as a title and a plain-text body.
func (d *Digest) Format() (title, body string) {
	var parts []string
	if n := len(d.Overdue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d overdue", n))
	}
	if n := len(d.DueToday); n > 0 {
		parts = append(parts, fmt.Sprintf("%d due today", n))
	}
	if n := len(d.ReviewDue); n > 0 {
		parts = append(parts, fmt.Sprintf("%d reviews pending", n))
	}
	title = "Doable digest: " + strings.Join(parts, ", ")

	var b strings.Builder
	if len(d.Overdue) > 0 {
		b.WriteString("Overdue:\n")
		for _, a := range d.Overdue {
			fmt.Fprintf(&b, "  - %s (due %s)\n", a.Title, a.DueAt.Format("Jan 2 15:04"))
		}
	}
	if len(d.DueToday) > 0 {
		b.WriteString("Due today:\n")
		for _, a := range d.DueToday {
			fmt.Fprintf(&b, "  - %s (due %s)\n", a.Title, a.DueAt.Format("15:04"))
		}
	}
	if len(d.ReviewDue) > 0 {
		b.WriteString("Projects awaiting review:\n")
		for _, p := range d.ReviewDue {
			if p.NextReviewAt != nil {
				fmt.Fprintf(&b, "  - %s (review due %s)\n", p.Name, p.NextReviewAt.Format("Jan 2"))
			} else {
				fmt.Fprintf(&b, "  - %s (never reviewed)\n", p.Name)
			}
		}
	}
	return title, strings.TrimRight(b.String(), "\n")
}
