package services

import (
	"fmt"
	"strings"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

const (
	// DefaultSeatCapacity is assumed when a fare class does not declare
	// its capacity (9 rows of 6).
	DefaultSeatCapacity = 54

	businessColumns = 4
	economyColumns  = 6
)

// SeatService synthesizes the seat inventory for a fare class from its
// declared capacity, whatever authoritative manifest records exist, and
// the set of seat names known to be booked.
type SeatService struct{}

// NewSeatService creates a new seat service
func NewSeatService() *SeatService {
	return &SeatService{}
}

// ColumnsFor returns the cabin width for a fare class: 4 across for the
// narrow business cabin, 6 across for economy.
func (s *SeatService) ColumnsFor(class *models.FareClass) int {
	if class != nil && models.IsBusinessClass(class.Type) {
		return businessColumns
	}
	return economyColumns
}

// SynthesizeSeats produces the full seat grid for a fare class in
// row-major order (ascending row, then ascending column). Exactly
// capacity seats are generated; the last row may be partial.
//
// Availability rules, in order:
//   - a name listed in bookedSeatNames is always unavailable, even when
//     an authoritative record says otherwise (a stale manifest must never
//     advertise a known-booked seat);
//   - a matching authoritative record contributes its id and availability;
//   - a purely synthetic seat defaults to available.
func (s *SeatService) SynthesizeSeats(class *models.FareClass, authoritative []models.Seat, bookedSeatNames []string) []models.Seat {
	cols := s.ColumnsFor(class)
	capacity := DefaultSeatCapacity
	if class != nil && class.TotalSeats > 0 {
		capacity = class.TotalSeats
	}
	rows := (capacity + cols - 1) / cols

	byName := make(map[string]models.Seat, len(authoritative))
	for _, seat := range authoritative {
		byName[seat.Name] = seat
	}
	booked := make(map[string]struct{}, len(bookedSeatNames))
	for _, name := range bookedSeatNames {
		booked[name] = struct{}{}
	}

	seats := make([]models.Seat, 0, capacity)
	for r := 1; r <= rows && len(seats) < capacity; r++ {
		for c := 1; c <= cols && len(seats) < capacity; c++ {
			name := SeatName(r, c)
			seat := models.Seat{
				Name:      name,
				Row:       r,
				Column:    c,
				Available: true,
			}
			if real, ok := byName[name]; ok {
				seat.ID = real.ID
				seat.Available = real.Available
				seat.Authoritative = true
			}
			if _, isBooked := booked[name]; isBooked {
				seat.Available = false
			}
			seats = append(seats, seat)
		}
	}
	return seats
}

// GroupRows arranges a row-major seat grid into per-row groups with the
// aisle-gap index renderers need: after the 2nd seat in a 4-wide layout,
// after the 3rd in a 6-wide one.
func (s *SeatService) GroupRows(seats []models.Seat, cols int) []models.SeatRow {
	aisleAfter := cols / 2
	var rows []models.SeatRow
	for _, seat := range seats {
		if len(rows) == 0 || rows[len(rows)-1].Row != seat.Row {
			rows = append(rows, models.SeatRow{Row: seat.Row, AisleAfter: aisleAfter})
		}
		last := &rows[len(rows)-1]
		last.Seats = append(last.Seats, seat)
	}
	return rows
}

// SeatName renders the display label for a grid position, e.g. row 12
// column 3 -> "12C". Column letters start at 'A'.
func SeatName(row, column int) string {
	return fmt.Sprintf("%d%c", row, 'A'+column-1)
}

// NormalizeSeatName canonicalizes a user-supplied seat label for
// comparison against manifest records.
func NormalizeSeatName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
