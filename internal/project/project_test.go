package project

import (
	"strings"
	"testing"
	"time"

	"github.com/doablehq/doable/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Project{}, &models.Action{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func TestGenerateID_Format(t *testing.T) {
	id, err := GenerateID()
	if err != nil {
		t.Fatalf("GenerateID() error: %v", err)
	}
	if !strings.HasPrefix(id, "pr-") || len(id) != 8 {
		t.Errorf("ID = %q, want pr- prefix and length 8", id)
	}
}

func TestCreate_Defaults(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "Renovation"})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if p.Type != models.ProjectParallel {
		t.Errorf("Type = %q, want parallel default", p.Type)
	}
	if p.Status != models.ProjectActive {
		t.Errorf("Status = %q, want active", p.Status)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := openTestDB(t)
	if _, err := Create(db, CreateOpts{}); err == nil {
		t.Error("Create() without name: want error")
	}
	if _, err := Create(db, CreateOpts{Name: "x", Type: "cyclical"}); err == nil {
		t.Error("Create() with bad type: want error")
	}
	if _, err := Create(db, CreateOpts{Name: "x", ReviewInterval: "fortnightly"}); err == nil {
		t.Error("Create() with bad review interval: want error")
	}
}

func TestCreate_PositionsAppend(t *testing.T) {
	db := openTestDB(t)
	first, err := Create(db, CreateOpts{Name: "one"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Create(db, CreateOpts{Name: "two"})
	if err != nil {
		t.Fatal(err)
	}
	if first.Position != 0 || second.Position != 1 {
		t.Errorf("positions = %d, %d; want 0, 1", first.Position, second.Position)
	}
}

func TestGet_PreloadsOrderedActions(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "Seq", Type: models.ProjectSequential})
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range []models.Action{
		{ID: "ac-b", Title: "b", Status: models.ActionActive, Position: 1, ProjectID: &p.ID},
		{ID: "ac-a", Title: "a", Status: models.ActionActive, Position: 0, ProjectID: &p.ID},
	} {
		if err := db.Create(&a).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := Get(db, p.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(got.Actions) != 2 || got.Actions[0].ID != "ac-a" {
		t.Errorf("Actions = %v, want position order", got.Actions)
	}
}

func TestUpdate_StatusTransitions(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}

	if err := Update(db, p.ID, map[string]interface{}{"status": models.ProjectOnHold}); err != nil {
		t.Fatalf("active → on_hold: %v", err)
	}
	if err := Update(db, p.ID, map[string]interface{}{"status": models.ProjectActive}); err != nil {
		t.Fatalf("on_hold → active: %v", err)
	}
	if err := Update(db, p.ID, map[string]interface{}{"status": models.ProjectDropped}); err != nil {
		t.Fatal(err)
	}
	if err := Update(db, p.ID, map[string]interface{}{"status": models.ProjectCompleted}); err == nil {
		t.Error("dropped → completed should be rejected")
	}
}

func TestUpdate_RejectsBadType(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Update(db, p.ID, map[string]interface{}{"type": "spiral"}); err == nil {
		t.Error("bad type should be rejected")
	}
}

func TestMarkReviewed_SchedulesNext(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "Weekly", ReviewInterval: "1w"})
	if err != nil {
		t.Fatal(err)
	}

	at := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	got, err := MarkReviewed(db, p.ID, at)
	if err != nil {
		t.Fatalf("MarkReviewed() error: %v", err)
	}

	wantNext := time.Date(2026, 3, 17, 15, 0, 0, 0, time.UTC)
	if got.NextReviewAt == nil || !got.NextReviewAt.Equal(wantNext) {
		t.Errorf("NextReviewAt = %v, want exactly 7 days later (%v)", got.NextReviewAt, wantNext)
	}
	if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(at) {
		t.Errorf("LastReviewedAt = %v, want %v", got.LastReviewedAt, at)
	}

	// Persisted, not just returned.
	var stored models.Project
	if err := db.First(&stored, "id = ?", p.ID).Error; err != nil {
		t.Fatal(err)
	}
	if stored.NextReviewAt == nil || !stored.NextReviewAt.Equal(wantNext) {
		t.Errorf("stored NextReviewAt = %v, want %v", stored.NextReviewAt, wantNext)
	}
}

func TestMarkReviewed_RequiresInterval(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Name: "No cadence"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := MarkReviewed(db, p.ID, time.Now()); err == nil {
		t.Error("MarkReviewed() without interval: want error")
	}
}

func TestMarkReviewed_NotFound(t *testing.T) {
	db := openTestDB(t)
	if _, err := MarkReviewed(db, "pr-nope0", time.Now()); err == nil {
		t.Error("MarkReviewed() on missing project: want error")
	}
}
