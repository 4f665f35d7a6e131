package avail

import (
	"testing"
	"time"

	"github.com/doablehq/doable/internal/models"
)

// noon on a fixed day, local zone
var noon = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 10, hour, minute, 0, 0, time.Local)
}

func strptr(s string) *string { return &s }

func windowTag(from, until string) models.Tag {
	return models.Tag{ID: "tg-00001", Name: "office", AvailableFrom: &from, AvailableUntil: &until}
}

func TestAvailable_PlainActiveAction(t *testing.T) {
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive}
	if !Available(a, Context{Now: noon}) {
		t.Error("active action with no gates should be available")
	}
}

func TestAvailable_Status(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.ActionActive, true},
		{models.ActionCompleted, false},
		{models.ActionDropped, false},
	}
	for _, tt := range tests {
		a := &models.Action{ID: "ac-00001", Status: tt.status}
		if got := Available(a, Context{Now: noon}); got != tt.want {
			t.Errorf("status %q: Available() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestAvailable_ProjectStatus(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{models.ProjectActive, true},
		{models.ProjectOnHold, false},
		{models.ProjectCompleted, false},
		{models.ProjectDropped, false},
	}
	for _, tt := range tests {
		a := &models.Action{ID: "ac-00001", Status: models.ActionActive}
		ctx := Context{Project: &models.Project{ID: "pr-00001", Status: tt.status}, Now: noon}
		if got := Available(a, ctx); got != tt.want {
			t.Errorf("project status %q: Available() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

// An on-hold project suppresses its actions no matter how clean the action
// itself is.
func TestAvailable_OnHoldOverridesActionState(t *testing.T) {
	past := noon.Add(-time.Hour)
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive, Flagged: true, DeferUntil: &past}
	ctx := Context{Project: &models.Project{ID: "pr-00001", Status: models.ProjectOnHold}, Now: noon}
	if Available(a, ctx) {
		t.Error("action in on-hold project must not be available")
	}
}

func TestAvailable_Defer(t *testing.T) {
	past := noon.Add(-time.Minute)
	future := noon.Add(time.Minute)
	exact := noon

	tests := []struct {
		name       string
		deferUntil *time.Time
		want       bool
	}{
		{"no defer", nil, true},
		{"past defer", &past, true},
		{"defer exactly now", &exact, true},
		{"future defer", &future, false},
	}
	for _, tt := range tests {
		a := &models.Action{ID: "ac-00001", Status: models.ActionActive, DeferUntil: tt.deferUntil}
		if got := Available(a, Context{Now: noon}); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAvailable_Blockers(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     bool
	}{
		{"no blockers", nil, true},
		{"completed blocker", []string{models.ActionCompleted}, true},
		{"dropped blocker", []string{models.ActionDropped}, true},
		{"active blocker", []string{models.ActionActive}, false},
		{"one active among done", []string{models.ActionCompleted, models.ActionActive, models.ActionDropped}, false},
		{"all done", []string{models.ActionCompleted, models.ActionDropped}, true},
	}
	for _, tt := range tests {
		a := &models.Action{ID: "ac-00001", Status: models.ActionActive}
		ctx := Context{BlockerStatuses: tt.statuses, Now: noon}
		if got := Available(a, ctx); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Due dates never affect availability, only presentation.
func TestAvailable_DueDateIrrelevant(t *testing.T) {
	overdue := noon.Add(-48 * time.Hour)
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive, DueAt: &overdue}
	if !Available(a, Context{Now: noon}) {
		t.Error("overdue action should still be available")
	}
}

func TestAvailable_TagWindow(t *testing.T) {
	tag := windowTag("09:00", "17:00")
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before window", at(8, 0), false},
		{"at open bound", at(9, 0), true},
		{"inside window", at(12, 0), true},
		// Both bounds are inclusive: 17:00 itself is inside the window.
		{"at close bound", at(17, 0), true},
		{"just past close", at(17, 1), false},
	}
	for _, tt := range tests {
		a := &models.Action{ID: "ac-00001", Status: models.ActionActive}
		ctx := Context{Tags: []models.Tag{tag}, Now: tt.now}
		if got := Available(a, ctx); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Multiple windowed tags combine with OR: any open window suffices.
func TestAvailable_MultipleTagWindows(t *testing.T) {
	morning := windowTag("06:00", "10:00")
	evening := windowTag("18:00", "22:00")
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"in first window", at(7, 0), true},
		{"in second window", at(19, 0), true},
		{"in neither", at(13, 0), false},
	}
	for _, tt := range tests {
		ctx := Context{Tags: []models.Tag{morning, evening}, Now: tt.now}
		if got := Available(a, ctx); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAvailable_WindowWrapsMidnight(t *testing.T) {
	tag := windowTag("22:00", "06:00")
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"late evening", at(23, 0), true},
		{"early morning", at(5, 0), true},
		{"midday", at(12, 0), false},
	}
	for _, tt := range tests {
		ctx := Context{Tags: []models.Tag{tag}, Now: tt.now}
		if got := Available(a, ctx); got != tt.want {
			t.Errorf("%s: Available() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// Tags missing a bound, or carrying an unparseable bound, impose no gate.
func TestAvailable_PartialOrBadWindowIgnored(t *testing.T) {
	tests := []struct {
		name string
		tag  models.Tag
	}{
		{"no bounds", models.Tag{ID: "tg-00001", Name: "home"}},
		{"from only", models.Tag{ID: "tg-00001", Name: "home", AvailableFrom: strptr("09:00")}},
		{"until only", models.Tag{ID: "tg-00001", Name: "home", AvailableUntil: strptr("17:00")}},
		{"garbage bounds", models.Tag{ID: "tg-00001", Name: "home", AvailableFrom: strptr("soonish"), AvailableUntil: strptr("later")}},
	}
	a := &models.Action{ID: "ac-00001", Status: models.ActionActive}
	for _, tt := range tests {
		ctx := Context{Tags: []models.Tag{tt.tag}, Now: at(3, 0)}
		if !Available(a, ctx) {
			t.Errorf("%s: tag should not gate availability", tt.name)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"17:30", 1050, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"-1:00", 0, true},
		{"noon", 0, true},
		{"", 0, true},
		{"9", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): want error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	if got := MinuteOfDay(at(17, 30)); got != 1050 {
		t.Errorf("MinuteOfDay(17:30) = %d, want 1050", got)
	}
}
