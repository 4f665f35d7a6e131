package db

import (
	"fmt"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// builtins are the seeded perspectives. Their filter semantics live in the
// perspective registry, not in stored rules; only display order and default
// sorts are stored here.
var builtins = []models.Perspective{
	{ID: "pe-inbox", Slug: models.SlugInbox, Name: "Inbox", Position: 0,
		SortRules: `[{"field":"position","direction":"asc"}]`},
	{ID: "pe-flagged", Slug: models.SlugFlagged, Name: "Flagged", Position: 1,
		SortRules: `[{"field":"due_at","direction":"asc"},{"field":"position","direction":"asc"}]`},
	{ID: "pe-forecast", Slug: models.SlugForecast, Name: "Forecast", Position: 2,
		SortRules: `[{"field":"due_at","direction":"asc"}]`},
	{ID: "pe-projects", Slug: models.SlugProjects, Name: "Projects", Position: 3,
		SortRules: `[{"field":"position","direction":"asc"}]`},
	{ID: "pe-review", Slug: models.SlugReview, Name: "Review", Position: 4,
		SortRules: `[{"field":"position","direction":"asc"}]`},
}

// SeedBuiltins upserts the built-in perspectives. Safe to run repeatedly;
// user-created perspectives are untouched.
func SeedBuiltins(db *gorm.DB) error {
	for _, b := range builtins {
		b.BuiltIn = true
		if b.FilterRules == "" {
			b.FilterRules = "[]"
		}

		result := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "built_in", "position", "sort_rules"}),
		}).Create(&b)
		if result.Error != nil {
			return fmt.Errorf("db: seed perspective %q: %w", b.Slug, result.Error)
		}
	}
	return nil
}
