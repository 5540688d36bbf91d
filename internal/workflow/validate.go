package workflow

import (
	"net/mail"
	"strings"

	"github.com/aibf/conference-registration/internal/fees"
	"github.com/aibf/conference-registration/internal/roster"
)

// Form is the editable state of the collecting phase.  The client posts the
// whole form on every change; nothing here is persisted until the details
// submit succeeds.
type Form struct {
	PackageID  string        `json:"package_id"`
	Counts     fees.Counts   `json:"counts"`
	Roster     roster.Roster `json:"roster"`
	Meals      []fees.Meal   `json:"meals"`
	Email      string        `json:"email"`
	HomeRegion string        `json:"home_region"`
}

// FieldErrors maps form fields to user-facing messages.  It implements
// error so validation failures flow through normal error returns while
// handlers can still render them field by field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validateForm applies the collecting→confirming gate: a package must be
// selected and known, the email must be well-formed, and every roster slot
// must carry a name of at least two characters.  The roster is expected to
// be count-synced before validation.  Violations block the transition; no
// partial draft is ever created.
func validateForm(f Form, schedule fees.Schedule) FieldErrors {
	fe := FieldErrors{}
	if strings.TrimSpace(f.PackageID) == "" {
		fe["package_id"] = "select a package"
	} else if _, err := schedule.Lookup(f.PackageID); err != nil {
		fe["package_id"] = "unknown package"
	}
	if !validEmail(f.Email) {
		fe["email"] = "invalid email"
	}
	for field, msg := range f.Roster.Validate() {
		fe[field] = msg
	}
	for _, m := range f.Meals {
		if !fees.ValidMeal(m) {
			fe["meals"] = "unknown meal selection"
			break
		}
	}
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// validEmail accepts addr-spec style addresses with a dotted domain.  The
// extra dot check rejects bare hostnames that net/mail tolerates but the
// backend does not.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	a, err := mail.ParseAddress(s)
	if err != nil || a.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	return strings.Contains(s[at+1:], ".")
}
