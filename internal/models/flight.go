package models

import (
	"fmt"
	"strings"
)

// Segment is one leg of a flight. Segments are kept sorted ascending by
// Sequence; the first is the departure leg and the last the arrival leg.
type Segment struct {
	Sequence int     `json:"sequence"`
	Time     string  `json:"time"`
	Airport  Airport `json:"airport"`
}

// FareClass is a bookable cabin class on a flight. Price is in the
// smallest currency unit.
type FareClass struct {
	ID         int64    `json:"id"`
	Type       string   `json:"type"`
	Price      int64    `json:"price"`
	TotalSeats int      `json:"total_seats"`
	Benefits   []string `json:"benefits"`
}

// IsBusinessClass reports whether a fare-class label denotes the business
// cabin. The upstream contract carries class tiers as free text, so this
// substring heuristic is the single place that discrimination lives.
func IsBusinessClass(classType string) bool {
	return strings.Contains(strings.ToLower(classType), "business")
}

// Flight is the canonical flight entity. Display fields (codes, cities,
// times, trip type, starting price) are derived once by the normalizer;
// downstream code never re-derives them from raw aliases.
type Flight struct {
	ID            int64       `json:"id"`
	AirlineName   string      `json:"airline_name"`
	AirlineLogo   string      `json:"airline_logo"`
	FlightNumber  string      `json:"flight_number"`
	Segments      []Segment   `json:"segments"`
	Classes       []FareClass `json:"classes"`
	Duration      string      `json:"duration"`
	TripType      string      `json:"trip_type"`
	DepartureTime string      `json:"departure_time"`
	ArrivalTime   string      `json:"arrival_time"`
	OriginCity    string      `json:"origin_city"`
	OriginCode    string      `json:"origin_code"`
	DestCity      string      `json:"destination_city"`
	DestCode      string      `json:"destination_code"`
	StartingPrice int64       `json:"starting_price"`
	Facilities    []string    `json:"facilities"`
}

// ClassByID returns the fare class with the given id, or nil when the
// flight carries no such class.
func (f *Flight) ClassByID(id int64) *FareClass {
	for i := range f.Classes {
		if f.Classes[i].ID == id {
			return &f.Classes[i]
		}
	}
	return nil
}

// TripTypeFor derives the display trip shape from a segment count.
func TripTypeFor(segmentCount int) string {
	if segmentCount <= 1 {
		return "Direct"
	}
	return fmt.Sprintf("%d Transit", segmentCount-1)
}

// SearchFilter holds the user-entered search criteria. It lives for the
// duration of a search and is merged field-by-field on update.
type SearchFilter struct {
	OriginAirportID      int64  `json:"departure_airport_id"`
	DestinationAirportID int64  `json:"arrival_airport_id"`
	Date                 string `json:"date"`
	Passengers           int    `json:"passengers"`
}
