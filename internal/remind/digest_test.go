package remind

import (
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doablehq/doable/internal/db"
	"github.com/doablehq/doable/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

var digestNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)

func due(t time.Time) *time.Time { return &t }

func TestBuildDigest_Buckets(t *testing.T) {
	gdb := openTestDB(t)

	actions := []models.Action{
		{ID: "ac-00001", Title: "Late", Status: models.ActionActive, DueAt: due(digestNow.Add(-2 * time.Hour))},
		{ID: "ac-00002", Title: "Today", Status: models.ActionActive, DueAt: due(digestNow.Add(6 * time.Hour))},
		{ID: "ac-00003", Title: "Tomorrow", Status: models.ActionActive, DueAt: due(digestNow.Add(30 * time.Hour))},
		{ID: "ac-00004", Title: "Done late", Status: models.ActionCompleted, DueAt: due(digestNow.Add(-2 * time.Hour))},
		{ID: "ac-00005", Title: "No due", Status: models.ActionActive},
	}
	for i := range actions {
		if err := gdb.Create(&actions[i]).Error; err != nil {
			t.Fatalf("create action: %v", err)
		}
	}
	projects := []models.Project{
		{ID: "pr-00001", Name: "Never reviewed", Status: models.ProjectActive, ReviewInterval: "1w"},
		{ID: "pr-00002", Name: "Reviewed recently", Status: models.ProjectActive, ReviewInterval: "1w",
			NextReviewAt: due(digestNow.Add(72 * time.Hour))},
		{ID: "pr-00003", Name: "No interval", Status: models.ProjectActive},
		{ID: "pr-00004", Name: "On hold", Status: models.ProjectOnHold, ReviewInterval: "1w"},
	}
	for i := range projects {
		if err := gdb.Create(&projects[i]).Error; err != nil {
			t.Fatalf("create project: %v", err)
		}
	}

	d, err := BuildDigest(gdb, digestNow)
	if err != nil {
		t.Fatalf("BuildDigest: %v", err)
	}
	if len(d.Overdue) != 1 || d.Overdue[0].Title != "Late" {
		t.Errorf("overdue = %v, want [Late]", titles(d.Overdue))
	}
	if len(d.DueToday) != 1 || d.DueToday[0].Title != "Today" {
		t.Errorf("due today = %v, want [Today]", titles(d.DueToday))
	}
	if len(d.ReviewDue) != 1 || d.ReviewDue[0].Name != "Never reviewed" {
		t.Errorf("review due has %d entries, want just the never-reviewed project", len(d.ReviewDue))
	}
}

func TestBuildDigest_EmptySuppressed(t *testing.T) {
	gdb := openTestDB(t)

	d, err := BuildDigest(gdb, digestNow)
	if err != nil {
		t.Fatalf("BuildDigest: %v", err)
	}
	if !d.Empty() {
		t.Errorf("digest on empty store should be empty, got %+v", d)
	}
}

func TestBuildDigest_ReadOnly(t *testing.T) {
	gdb := openTestDB(t)
	a := models.Action{ID: "ac-00001", Title: "Late", Status: models.ActionActive, DueAt: due(digestNow.Add(-time.Hour))}
	if err := gdb.Create(&a).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	before := a.UpdatedAt

	if _, err := BuildDigest(gdb, digestNow); err != nil {
		t.Fatalf("BuildDigest: %v", err)
	}

	var after models.Action
	if err := gdb.First(&after, "id = ?", "ac-00001").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !after.UpdatedAt.Equal(before) {
		t.Error("digest build modified stored state")
	}
}

func TestDigestFormat(t *testing.T) {
	d := &Digest{
		At: digestNow,
		Overdue: []models.Action{
			{Title: "Late", DueAt: due(time.Date(2026, 3, 9, 17, 0, 0, 0, time.Local))},
		},
		DueToday: []models.Action{
			{Title: "Today", DueAt: due(time.Date(2026, 3, 10, 14, 0, 0, 0, time.Local))},
		},
		ReviewDue: []models.Project{
			{Name: "Remodel"},
		},
	}

	title, body := d.Format()
	if title != "Doable digest: 1 overdue, 1 due today, 1 reviews pending" {
		t.Errorf("title = %q", title)
	}
	for _, want := range []string{"Late (due Mar 9 17:00)", "Today (due 14:00)", "Remodel (never reviewed)"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func titles(actions []models.Action) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Title
	}
	return out
}
