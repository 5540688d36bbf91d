// Package roster keeps the named-attendee lists in lockstep with the numeric
// per-tier counts on the registration form.  The rules are mechanical but
// easy to get wrong in a UI: growing a count appends empty slots, shrinking
// removes the most recently added slots (discarding whatever was typed in
// them), and entries that survive a resize keep their names and positions.
// Tiers never interact.
package roster

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MinNameLen is the minimum length of a named-attendee entry once a name is
// present.  Matches the form validation the attendees are entered through.
const MinNameLen = 2

// Tier identifies one age tier of attendees.
type Tier string

const (
	TierAdult      Tier = "adult"
	TierChild9To13 Tier = "child_9_13"
	TierChild3To8  Tier = "child_3_8"
)

// Tiers lists all tiers in display order.
var Tiers = []Tier{TierAdult, TierChild9To13, TierChild3To8}

// Roster holds the named-attendee entries for every tier.  The length of
// each slice must equal the corresponding count after every mutation; Sync
// enforces that.
type Roster struct {
	Adults        []string `json:"adults"`
	Children9To13 []string `json:"children_9_13"`
	Children3To8  []string `json:"children_3_8"`
}

// Sync resizes one tier's list to the desired count.  On growth the new
// trailing slots are empty; on shrink the trailing slots are dropped.  The
// surviving prefix is never reordered or rewritten.  Negative counts are
// treated as zero.
func Sync(entries []string, count int) []string {
	if count < 0 {
		count = 0
	}
	switch {
	case len(entries) > count:
		entries = entries[:count]
	case len(entries) < count:
		grown := make([]string, count)
		copy(grown, entries)
		entries = grown
	}
	return entries
}

// SyncAll applies Sync to every tier, independently.
func (r Roster) SyncAll(adults, children913, children38 int) Roster {
	return Roster{
		Adults:        Sync(r.Adults, adults),
		Children9To13: Sync(r.Children9To13, children913),
		Children3To8:  Sync(r.Children3To8, children38),
	}
}

// Tier returns the entries for one tier.
func (r Roster) Tier(t Tier) []string {
	switch t {
	case TierAdult:
		return r.Adults
	case TierChild9To13:
		return r.Children9To13
	case TierChild3To8:
		return r.Children3To8
	}
	return nil
}

// Validate checks every entry against the name rule: once present, a name
// must be at least MinNameLen characters after trimming.  It returns one
// message per offending slot, keyed "tier[index]", or nil when the roster
// is acceptable.  Empty slots are reported too: by submission time every
// slot must carry a name.
func (r Roster) Validate() map[string]string {
	problems := map[string]string{}
	for _, t := range Tiers {
		for i, name := range r.Tier(t) {
			trimmed := strings.TrimSpace(name)
			if utf8.RuneCountInString(trimmed) < MinNameLen {
				problems[fmt.Sprintf("%s[%d]", t, i)] = "name must be at least 2 characters"
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Joined flattens one tier to the comma-joined string shape the backend
// registration endpoint expects.
func Joined(entries []string) string {
	trimmed := make([]string, 0, len(entries))
	for _, e := range entries {
		trimmed = append(trimmed, strings.TrimSpace(e))
	}
	return strings.Join(trimmed, ",")
}
