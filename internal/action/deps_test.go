package action

import (
	"strings"
	"testing"
)

func TestAddDep_And_ListDeps(t *testing.T) {
	db := openTestDB(t)
	a, _ := Create(db, CreateOpts{Title: "paint wall"})
	b, _ := Create(db, CreateOpts{Title: "buy paint"})

	if err := AddDep(db, a.ID, b.ID); err != nil {
		t.Fatalf("AddDep() error: %v", err)
	}

	blockers, dependents, err := ListDeps(db, a.ID)
	if err != nil {
		t.Fatalf("ListDeps() error: %v", err)
	}
	if len(blockers) != 1 || blockers[0].BlockedBy != b.ID {
		t.Errorf("blockers = %v, want [%s]", blockers, b.ID)
	}
	if blockers[0].Blocker.Title != "buy paint" {
		t.Errorf("blocker not preloaded: %+v", blockers[0].Blocker)
	}
	if len(dependents) != 0 {
		t.Errorf("dependents of %s = %v, want none", a.ID, dependents)
	}

	_, dependents, err = ListDeps(db, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(dependents) != 1 || dependents[0].ActionID != a.ID {
		t.Errorf("dependents of %s = %v, want [%s]", b.ID, dependents, a.ID)
	}
}

func TestAddDep_SelfDependency(t *testing.T) {
	db := openTestDB(t)
	a, _ := Create(db, CreateOpts{Title: "x"})
	if err := AddDep(db, a.ID, a.ID); err == nil {
		t.Fatal("self-dependency should be rejected")
	}
}

func TestAddDep_UnknownAction(t *testing.T) {
	db := openTestDB(t)
	a, _ := Create(db, CreateOpts{Title: "x"})
	if err := AddDep(db, a.ID, "ac-nope0"); err == nil {
		t.Fatal("dep on unknown action should be rejected")
	}
	if err := AddDep(db, "ac-nope0", a.ID); err == nil {
		t.Fatal("dep from unknown action should be rejected")
	}
}

func TestAddDep_RejectsCycle(t *testing.T) {
	db := openTestDB(t)
	a, _ := Create(db, CreateOpts{Title: "a"})
	b, _ := Create(db, CreateOpts{Title: "b"})
	c, _ := Create(db, CreateOpts{Title: "c"})

	if err := AddDep(db, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}
	if err := AddDep(db, b.ID, c.ID); err != nil {
		t.Fatal(err)
	}

	err := AddDep(db, c.ID, a.ID)
	if err == nil {
		t.Fatal("closing a → b → c → a should be rejected")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error %q should mention cycle", err)
	}
}

func TestRemoveDep(t *testing.T) {
	db := openTestDB(t)
	a, _ := Create(db, CreateOpts{Title: "a"})
	b, _ := Create(db, CreateOpts{Title: "b"})
	if err := AddDep(db, a.ID, b.ID); err != nil {
		t.Fatal(err)
	}

	if err := RemoveDep(db, a.ID, b.ID); err != nil {
		t.Fatalf("RemoveDep() error: %v", err)
	}
	blockers, _, err := ListDeps(db, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(blockers) != 0 {
		t.Errorf("blockers after remove = %v, want none", blockers)
	}

	if err := RemoveDep(db, a.ID, b.ID); err == nil {
		t.Error("removing a missing dep should error")
	}
}
