package models

// Seat is a single cabin seat. Authoritative seats come from the backend
// manifest for a flight; synthetic seats are generated to fill a fare
// class's declared capacity when the manifest is partial or absent. Only
// authoritative seats carry a backend id.
type Seat struct {
	ID            *int64 `json:"id,omitempty"`
	Name          string `json:"name"`
	Row           int    `json:"row"`
	Column        int    `json:"column"`
	Available     bool   `json:"is_available"`
	Authoritative bool   `json:"-"`
}

// SeatRow groups the seats of one cabin row for rendering. AisleAfter is
// the 1-based seat index the aisle gap follows: after the 2nd seat in a
// 4-wide business layout, after the 3rd in a 6-wide economy layout.
type SeatRow struct {
	Row        int    `json:"row"`
	Seats      []Seat `json:"seats"`
	AisleAfter int    `json:"aisle_after"`
}
