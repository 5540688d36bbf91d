package model

// Registration is the backend's record of a confirmed registration, returned
// by POST registrations.  The backend owns this table and the at-most-once
// invariant; the core only submits drafts and reflects the result.
//
// Fields:
//  ID              – backend identifier of the registration.
//  EventID         – event the registration belongs to.
//  Email           – registering user's email.
//  PackageID       – selected fee package.
//  Adults          – adult head count, registering user included.
//  Children9To13   – 9–13 head count.
//  Children3To8    – 3–8 head count.
//  AdultNames      – comma-joined additional adult names.
//  Child9To13Names – comma-joined 9–13 names.
//  Child3To8Names  – comma-joined 3–8 names.
//  Meals           – comma-joined day-visitor meal selections.
//  TotalCents      – total computed client-side; the backend recomputes
//                    authoritatively and rejects mismatches.
//  PaymentReceived – administrative bank-transfer confirmation flag.
type Registration struct {
	ID              uint64 `json:"id"`
	EventID         uint64 `json:"event_id"`
	Email           string `json:"email"`
	PackageID       string `json:"package_id"`
	Adults          int    `json:"adults"`
	Children9To13   int    `json:"children_9_13"`
	Children3To8    int    `json:"children_3_8"`
	AdultNames      string `json:"adult_names"`
	Child9To13Names string `json:"child_9_13_names"`
	Child3To8Names  string `json:"child_3_8_names"`
	Meals           string `json:"meals"`
	TotalCents      int64  `json:"total_cents"`
	PaymentReceived bool   `json:"payment_received"`
}
