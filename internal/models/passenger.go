package models

// DefaultNationality is pre-filled on newly generated passenger slots.
const DefaultNationality = "Indonesia"

// Passenger is one traveller on the booking. SeatName references the
// current seat selection by label; SeatID is resolved from the backend
// manifest only at reconciliation time and stays nil when no authoritative
// record matches.
type Passenger struct {
	SeatName    string `json:"seat"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	DateOfBirth string `json:"date_of_birth"`
	Nationality string `json:"nationality"`
	SeatID      *int64 `json:"flight_seat_id"`
}

// BlankPassenger returns an empty passenger slot bound to a seat.
func BlankPassenger(seatName string) Passenger {
	return Passenger{
		SeatName:    seatName,
		Nationality: DefaultNationality,
	}
}
