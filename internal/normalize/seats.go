package normalize

import (
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// ExtractSeats pulls the authoritative seat manifest out of a flight
// detail response. Upstream nests the manifest inconsistently, so a fixed
// priority list of known paths is tried on the envelope and then on the
// unwrapped flight record:
//
//	seats, flight_seats, data.seats, data.flight_seats, data.data.seats,
//	then per-segment seats/flight_seats.
//
// The path list is deliberately explicit and bounded; do not replace it
// with a recursive walk.
func ExtractSeats(envelope any, flight Raw) []models.Seat {
	if m, ok := asMap(envelope); ok {
		if seats := seatsAtKnownPaths(m); len(seats) > 0 {
			return seats
		}
	}
	if flight != nil {
		if seats := seatsAtKnownPaths(flight); len(seats) > 0 {
			return seats
		}
	}
	return nil
}

func seatsAtKnownPaths(m Raw) []models.Seat {
	if seats := seatArray(m["seats"]); len(seats) > 0 {
		return seats
	}
	if seats := seatArray(m["flight_seats"]); len(seats) > 0 {
		return seats
	}
	if data, ok := asMap(m["data"]); ok {
		if seats := seatArray(data["seats"]); len(seats) > 0 {
			return seats
		}
		if seats := seatArray(data["flight_seats"]); len(seats) > 0 {
			return seats
		}
		if inner, ok := asMap(data["data"]); ok {
			if seats := seatArray(inner["seats"]); len(seats) > 0 {
				return seats
			}
		}
	}
	if segments, ok := asSlice(m["segments"]); ok {
		var out []models.Seat
		for _, v := range segments {
			seg, ok := asMap(v)
			if !ok {
				continue
			}
			out = append(out, seatArray(seg["seats"])...)
			out = append(out, seatArray(seg["flight_seats"])...)
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func seatArray(v any) []models.Seat {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}
	seats := make([]models.Seat, 0, len(arr))
	for _, item := range arr {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		seats = append(seats, normalizeSeat(m))
	}
	return seats
}

// normalizeSeat converts one manifest record. Availability defaults to
// true when the record omits the flag; the id stays nil when absent so
// downstream code can tell authoritative ids from synthetic seats.
func normalizeSeat(raw Raw) models.Seat {
	s := models.Seat{
		Name:          str(raw, "name", "seat_number"),
		Row:           int(num(raw, "row")),
		Column:        int(num(raw, "column")),
		Available:     true,
		Authoritative: true,
	}
	if id := num(raw, "id"); id != 0 {
		s.ID = &id
	}
	if v, ok := raw["is_available"]; ok {
		if b, ok := v.(bool); ok {
			s.Available = b
		}
	}
	return s
}
