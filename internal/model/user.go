package model

import "strings"

// UserProfile mirrors the backend user record consumed by the eligibility
// gate.  Identity issuance itself is delegated to Google plus the backend;
// this service only ever reads profiles and forwards profile updates.
//
// Fields:
//  ID      – backend identifier of the user.
//  Name    – full name as returned by Google sign-in.
//  Email   – unique email address; doubles as the session subject.
//  Phone   – contact phone number.
//  Address – street address.
//  City    – city of residence.
//  State   – home state/region; drives the registration-fee surcharge.
type UserProfile struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
}

// IsComplete reports whether the profile carries everything registration
// needs.  A profile is complete iff city, state, address and phone are all
// non-empty; name and email are guaranteed by the sign-in exchange.
func (p UserProfile) IsComplete() bool {
	return strings.TrimSpace(p.City) != "" &&
		strings.TrimSpace(p.State) != "" &&
		strings.TrimSpace(p.Address) != "" &&
		strings.TrimSpace(p.Phone) != ""
}
