// Package avail decides which actions are currently available to work on.
// Everything here is pure: callers supply the evaluation context, including
// the instant to evaluate against, and nothing is read from or written to
// storage.
package avail

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/doablehq/doable/internal/models"
)

// Context supplies the minimal surroundings needed to evaluate one action:
// its owning project (nil for inbox items), its tags, the statuses of the
// actions that directly block it, and the evaluation instant. Now must be
// captured once per query and reused for every action in that query.
type Context struct {
	Project         *models.Project
	Tags            []models.Tag
	BlockerStatuses []string
	Now             time.Time
}

// Available reports whether the action is currently eligible to be worked on.
// All gates must hold: the action is active, its project (if any) is active,
// its defer date has passed, every direct blocker is done, and at least one
// tag availability window contains the current local time-of-day (when any
// windowed tags are present).
//
// Only the direct blocking set is inspected; the blocking graph is never
// walked transitively, so cyclic or self-referential edges cannot cause
// non-termination. Missing optional data never fails evaluation: it means no
// constraint from that source.
func Available(a *models.Action, ctx Context) bool {
	if a.Status != models.ActionActive {
		return false
	}
	if ctx.Project != nil && ctx.Project.Status != models.ProjectActive {
		return false
	}
	if a.DeferUntil != nil && a.DeferUntil.After(ctx.Now) {
		return false
	}
	for _, status := range ctx.BlockerStatuses {
		if status != models.ActionCompleted && status != models.ActionDropped {
			return false
		}
	}
	return tagWindowsOpen(ctx.Tags, ctx.Now)
}

// tagWindowsOpen checks the tag time-of-day gates. Tags describe contexts
// where the action can be done, so multiple windowed tags combine with OR:
// any one open window is enough. Tags without both bounds, or with bounds
// that fail to parse, impose no constraint.
func tagWindowsOpen(tags []models.Tag, now time.Time) bool {
	gated := false
	tod := MinuteOfDay(now)
	for _, tag := range tags {
		if !tag.Windowed() {
			continue
		}
		from, err := ParseTimeOfDay(*tag.AvailableFrom)
		if err != nil {
			continue
		}
		until, err := ParseTimeOfDay(*tag.AvailableUntil)
		if err != nil {
			continue
		}
		gated = true
		if inWindow(tod, from, until) {
			return true
		}
	}
	return !gated
}

// inWindow reports whether tod falls inside [from, until], both bounds
// inclusive. A window with from > until wraps past midnight (22:00-06:00
// covers late evening and early morning).
func inWindow(tod, from, until int) bool {
	if from <= until {
		return tod >= from && tod <= until
	}
	return tod >= from || tod <= until
}

// MinuteOfDay returns t's local time-of-day in minutes since midnight.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// ParseTimeOfDay parses an "HH:MM" string into minutes since midnight.
func ParseTimeOfDay(s string) (int, error) {
	h, m, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("avail: time-of-day %q: want HH:MM", s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("avail: time-of-day %q: bad hour", s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("avail: time-of-day %q: bad minute", s)
	}
	return hour*60 + minute, nil
}
