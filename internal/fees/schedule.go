package fees // package fees holds the static fee schedule and the pricing engine

import "errors"

// ErrUnknownPackage is returned when a quote references a package id that is
// absent from the schedule.  A correctly constrained selector never produces
// one, but the engine must degrade to a zero quote instead of crashing.
var ErrUnknownPackage = errors.New("unknown package")

// MealPrices lists the per-meal, per-attendee add-on rates for the day
// visitor package.  Each selected meal (breakfast/lunch/dinner) is billed at
// the full per-meal rate per attendee, not pro-rated.
type MealPrices struct {
	AdultCents      int64 `json:"adult_cents"`
	Child9To13Cents int64 `json:"child_9_13_cents"`
	Child3To8Cents  int64 `json:"child_3_8_cents"`
}

// Package is one selectable registration tier.  All amounts are stored in
// cents.  For the day visitor package AdultCents holds the uniform per-head
// entry fee and MealPrices is non-nil; for every other package MealPrices is
// nil.
type Package struct {
	ID              string      `json:"id"`
	Label           string      `json:"label"`
	Description     string      `json:"description"`
	AdultCents      int64       `json:"adult_cents"`
	Child9To13Cents int64       `json:"child_9_13_cents"`
	Child3To8Cents  int64       `json:"child_3_8_cents"`
	IsDayVisitor    bool        `json:"is_day_visitor"`
	MealPrices      *MealPrices `json:"meal_prices,omitempty"`
}

// Schedule is the ordered, versioned set of packages.  It is static data:
// no runtime mutation, lookup only.
type Schedule struct {
	Version  int       `json:"version"`
	Packages []Package `json:"packages"`
}

// DefaultSchedule returns the 2025 conference fee table.  Dollar figures
// come straight from the published fee structure; exactly one package is
// flagged day visitor and only it exposes meal pricing.
func DefaultSchedule() Schedule {
	return Schedule{
		Version: 1,
		Packages: []Package{
			{
				ID:              "4-day",
				Label:           "4-Day Package (Thu-Sun)",
				Description:     "Includes 3 nights accommodation & 9 meals (3*Breakfast included)",
				AdultCents:      33800,
				Child9To13Cents: 25400,
				Child3To8Cents:  16900,
			},
			{
				ID:              "3-day",
				Label:           "3-Day Package (Fri-Sun)",
				Description:     "Includes 2 nights accommodation & 8 meals (2*Breakfast included)",
				AdultCents:      24700,
				Child9To13Cents: 17400,
				Child3To8Cents:  12600,
			},
			{
				ID:              "2-day",
				Label:           "2-Day Package (Sat-Sun)",
				Description:     "Includes 1 night accommodation & 5 meals (1*Breakfast included)",
				AdultCents:      13300,
				Child9To13Cents: 10200,
				Child3To8Cents:  6800,
			},
			{
				ID:              "day-visitor",
				Label:           "Day Visitors",
				Description:     "Entry fee with optional meal add-on",
				AdultCents:      1600,
				Child9To13Cents: 1600,
				Child3To8Cents:  1600,
				IsDayVisitor:    true,
				MealPrices: &MealPrices{
					AdultCents:      1900,
					Child9To13Cents: 1500,
					Child3To8Cents:  1000,
				},
			},
		},
	}
}

// Lookup returns the package with the given id or ErrUnknownPackage.
func (s Schedule) Lookup(id string) (Package, error) {
	for _, p := range s.Packages {
		if p.ID == id {
			return p, nil
		}
	}
	return Package{}, ErrUnknownPackage
}

// DayVisitor returns the single day-visitor package.  The schedule invariant
// guarantees exactly one exists; ok is false only for a malformed schedule.
func (s Schedule) DayVisitor() (Package, bool) {
	for _, p := range s.Packages {
		if p.IsDayVisitor {
			return p, true
		}
	}
	return Package{}, false
}

// Validate checks the schedule invariant: exactly one day-visitor package,
// and meal pricing present on that package only.
func (s Schedule) Validate() error {
	dayVisitors := 0
	for _, p := range s.Packages {
		if p.IsDayVisitor {
			dayVisitors++
			if p.MealPrices == nil {
				return errors.New("day visitor package missing meal prices")
			}
		} else if p.MealPrices != nil {
			return errors.New("meal prices on non day-visitor package " + p.ID)
		}
	}
	if dayVisitors != 1 {
		return errors.New("schedule must contain exactly one day-visitor package")
	}
	return nil
}
