package perspective

import (
	"strings"
	"testing"

	"github.com/doablehq/doable/internal/models"
)

func TestCreate_Minimal(t *testing.T) {
	db := openTestDB(t)

	p, err := Create(db, CreateOpts{Slug: "errands", Name: "Errands"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(p.ID, "pe-") || len(p.ID) != 8 {
		t.Errorf("ID = %q, want pe-xxxxx", p.ID)
	}
	if p.BuiltIn {
		t.Error("user perspectives must not be built-in")
	}
	if p.FilterRules != "[]" || p.SortRules != "[]" {
		t.Errorf("empty rules should normalize to [], got %q / %q", p.FilterRules, p.SortRules)
	}
}

func TestCreate_DuplicateSlug(t *testing.T) {
	db := openTestDB(t)

	if _, err := Create(db, CreateOpts{Slug: "errands", Name: "Errands"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := Create(db, CreateOpts{Slug: "errands", Name: "Other"}); err == nil {
		t.Fatal("expected error for duplicate slug")
	}
}

func TestCreate_RejectsUndecodableRules(t *testing.T) {
	db := openTestDB(t)

	if _, err := Create(db, CreateOpts{Slug: "x", Name: "X", FilterRules: "{broken"}); err == nil {
		t.Error("expected error for bad filter rule JSON")
	}
	if _, err := Create(db, CreateOpts{Slug: "y", Name: "Y", SortRules: "nope"}); err == nil {
		t.Error("expected error for bad sort rule JSON")
	}

	// Unknown fields are a query-time skip, not a write-time rejection.
	if _, err := Create(db, CreateOpts{
		Slug: "z", Name: "Z",
		FilterRules: `[{"field":"moon_phase","operator":"eq","value":"full"}]`,
	}); err != nil {
		t.Errorf("unknown field should store fine: %v", err)
	}
}

func TestUpdate_Builtin(t *testing.T) {
	db := openTestDB(t)
	seedBuiltin(t, db, models.SlugInbox, "Inbox")

	err := Update(db, "inbox", map[string]interface{}{"name": "In Tray"})
	if err == nil {
		t.Fatal("expected error editing a builtin")
	}
	if !strings.Contains(err.Error(), "built-in") {
		t.Errorf("error = %q, want built-in mention", err.Error())
	}
}

func TestUpdate_ValidatesRules(t *testing.T) {
	db := openTestDB(t)
	p, err := Create(db, CreateOpts{Slug: "errands", Name: "Errands"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Update(db, p.ID, map[string]interface{}{"filter_rules": "{broken"}); err == nil {
		t.Fatal("expected error for bad rule JSON")
	}
	if err := Update(db, p.Slug, map[string]interface{}{
		"filter_rules": `[{"field":"flagged","operator":"eq","value":"true"}]`,
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	var got models.Perspective
	if err := db.First(&got, "id = ?", p.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !strings.Contains(got.FilterRules, "flagged") {
		t.Errorf("filter rules not persisted: %q", got.FilterRules)
	}
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	seedBuiltin(t, db, models.SlugInbox, "Inbox")
	p, err := Create(db, CreateOpts{Slug: "errands", Name: "Errands"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Delete(db, "inbox"); err == nil {
		t.Fatal("expected error deleting a builtin")
	}
	if err := Delete(db, p.Slug); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := Delete(db, p.Slug); err == nil {
		t.Fatal("expected not-found on second delete")
	}
}

func TestList_BuiltinsFirst(t *testing.T) {
	db := openTestDB(t)
	if _, err := Create(db, CreateOpts{Slug: "aardvark", Name: "Aardvark"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	seedPerspective(t, db, models.Perspective{ID: "pe-review", Slug: "review", Name: "Review", BuiltIn: true, Position: 4})
	seedPerspective(t, db, models.Perspective{ID: "pe-inbox", Slug: "inbox", Name: "Inbox", BuiltIn: true, Position: 0})

	got, err := List(db)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Slug != "inbox" || got[1].Slug != "review" || got[2].Slug != "aardvark" {
		t.Errorf("order = %s, %s, %s; want builtins by position then customs", got[0].Slug, got[1].Slug, got[2].Slug)
	}
}
