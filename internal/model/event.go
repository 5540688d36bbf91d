package model

// Event is the conference record served by the backend registration
// service via GET events?latest=true.  The core never writes events; it
// reads the latest one to gate registration and to render the conference
// page.  IsRegistered is populated by the backend only when the lookup
// carried an email query parameter.
//
// Fields:
//  ID           – backend identifier of the event.
//  Name         – display name, e.g. "AIBF Annual Conference 2025".
//  Description  – free-text description.
//  StartDate    – first day, "YYYY-MM-DD".
//  EndDate      – last day, "YYYY-MM-DD".
//  StartTime    – opening time, "HH:MM:SS".
//  EndTime      – closing time, "HH:MM:SS".
//  Venue        – venue name.
//  PosterURL    – marketing poster, may be empty.
//  IsRegistered – whether the queried email already holds a registration.
type Event struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Venue        string `json:"venue"`
	PosterURL    string `json:"poster_url"`
	IsRegistered bool   `json:"is_registered"`
}
