package fees

import "strings"

// Meal identifies one of the optional day-visitor meal add-ons.
type Meal string

// Valid meal selections.  A MealSelection is any subset of these three.
const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
)

// ValidMeal reports whether m names one of the three billable meals.
func ValidMeal(m Meal) bool {
	return m == MealBreakfast || m == MealLunch || m == MealDinner
}

// Counts holds the number of additional attendees per age tier, beyond the
// registering user.  The registering user is an implicit adult, so the
// effective adult count is Adults+1.
type Counts struct {
	Adults        int `json:"adults"`
	Children9To13 int `json:"children_9_13"`
	Children3To8  int `json:"children_3_8"`
}

// clamped returns a copy with every tier forced to >= 0.  Inputs are
// validated upstream; the clamp keeps the engine total over junk anyway.
func (c Counts) clamped() Counts {
	if c.Adults < 0 {
		c.Adults = 0
	}
	if c.Children9To13 < 0 {
		c.Children9To13 = 0
	}
	if c.Children3To8 < 0 {
		c.Children3To8 = 0
	}
	return c
}

// Quote is the itemized result of pricing one registration.  All amounts are
// cents.  SubtotalCents covers package and meal charges before the discount;
// FeeCents is the region surcharge, never discounted.
type Quote struct {
	PackageID       string `json:"package_id"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	DiscountApplied bool   `json:"discount_applied"`
	DiscountedCents int64  `json:"discounted_cents"`
	FeeCents        int64  `json:"fee_cents"`
	TotalCents      int64  `json:"total_cents"`
}

// Engine prices registrations against a schedule.  The promotional knobs
// (which packages are discounted, the discount percent, which home regions
// pay the fixed surcharge and how much it is) are data, not code, because
// the business has changed them between conferences.
type Engine struct {
	Schedule         Schedule
	DiscountPercent  int64    // e.g. 50 for the half-price promotion
	DiscountPackages []string // package ids the discount applies to
	FeeCents         int64    // fixed registration fee surcharge
	FeeRegions       []string // normalized home regions that pay the surcharge
}

// NewEngine builds an engine with the default schedule and the observed
// production pricing rules: 50% off the two most-inclusive packages and a
// $100 surcharge for Victorian residents.
func NewEngine() Engine {
	return Engine{
		Schedule:         DefaultSchedule(),
		DiscountPercent:  50,
		DiscountPackages: []string{"4-day", "3-day"},
		FeeCents:         10000,
		FeeRegions:       []string{"victoria", "vic"},
	}
}

// Quote computes the itemized total for one registration.  It is pure and
// total: identical inputs always produce identical output, nothing is
// mutated, and any well-formed input yields a total >= 0.  The UI calls it
// on every input change, so it must stay cheap and side-effect free.
// An unknown package id yields a zero quote and ErrUnknownPackage; callers
// must treat the quote as invalid rather than charge zero.
func (e Engine) Quote(packageID string, counts Counts, meals []Meal, homeRegion string) (Quote, error) {
	pkg, err := e.Schedule.Lookup(packageID)
	if err != nil {
		return Quote{}, err
	}
	counts = counts.clamped()
	effAdults := int64(counts.Adults) + 1 // registering user always attends
	kids913 := int64(counts.Children9To13)
	kids38 := int64(counts.Children3To8)

	var subtotal int64
	if pkg.IsDayVisitor {
		// Uniform per-head entry fee, stored in AdultCents.
		heads := effAdults + kids913 + kids38
		subtotal = heads * pkg.AdultCents
		// Each selected meal is billed at the full per-meal rate per attendee.
		if mealCount := int64(countMeals(meals)); mealCount > 0 && pkg.MealPrices != nil {
			perMeal := effAdults*pkg.MealPrices.AdultCents +
				kids913*pkg.MealPrices.Child9To13Cents +
				kids38*pkg.MealPrices.Child3To8Cents
			subtotal += mealCount * perMeal
		}
	} else {
		subtotal = effAdults*pkg.AdultCents +
			kids913*pkg.Child9To13Cents +
			kids38*pkg.Child3To8Cents
	}

	q := Quote{
		PackageID:       pkg.ID,
		SubtotalCents:   subtotal,
		DiscountedCents: subtotal,
	}
	if e.discountEligible(pkg.ID) {
		q.DiscountApplied = true
		q.DiscountedCents = subtotal * (100 - e.DiscountPercent) / 100
	}
	// The surcharge is added after the discount and is never discounted.
	if e.feeRegion(homeRegion) {
		q.FeeCents = e.FeeCents
	}
	q.TotalCents = q.DiscountedCents + q.FeeCents
	return q, nil
}

// discountEligible reports whether the package id is in the configured
// discount set.
func (e Engine) discountEligible(id string) bool {
	for _, d := range e.DiscountPackages {
		if d == id {
			return true
		}
	}
	return false
}

// feeRegion reports whether the free-text home region matches one of the
// surcharge regions.  Matching is a case-insensitive literal comparison of
// the trimmed value; misspellings do not match, which mirrors the source
// behaviour this rule was lifted from.
func (e Engine) feeRegion(region string) bool {
	r := strings.ToLower(strings.TrimSpace(region))
	for _, fr := range e.FeeRegions {
		if r == fr {
			return true
		}
	}
	return false
}

// countMeals counts the valid, distinct meals in a selection.  Duplicates
// and unknown values are ignored so a sloppy client cannot inflate the bill.
func countMeals(meals []Meal) int {
	seen := make(map[Meal]struct{}, 3)
	for _, m := range meals {
		if ValidMeal(m) {
			seen[m] = struct{}{}
		}
	}
	return len(seen)
}
