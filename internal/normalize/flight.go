package normalize

import (
	"sort"
	"strings"
	"time"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// NormalizeFlight converts a raw flight record into the canonical Flight.
// Segments are sorted ascending by sequence (array order when sequence is
// absent); the first sorted segment is the departure leg, the last the
// arrival leg. When segment data is entirely absent, top-level
// departure/origin fields on the record are used instead. Display fields
// are derived here exactly once.
func NormalizeFlight(raw Raw) models.Flight {
	if raw == nil {
		raw = Raw{}
	}

	f := models.Flight{
		ID:           num(raw, "id", "flight_id"),
		FlightNumber: str(raw, "flight_number", "number"),
		Duration:     str(raw, "duration"),
	}
	if f.Duration == "" {
		f.Duration = models.PlaceholderDuration
	}

	// Airline may be nested or flattened.
	if airline, ok := asMap(raw["airline"]); ok {
		f.AirlineName = str(airline, "name")
		f.AirlineLogo = str(airline, "logo")
	}
	if f.AirlineName == "" {
		f.AirlineName = str(raw, "airline_name")
	}
	if f.AirlineLogo == "" {
		f.AirlineLogo = str(raw, "airline_logo")
	}
	if f.AirlineName == "" {
		f.AirlineName = models.PlaceholderAirline
	}

	f.Segments = normalizeSegments(raw)
	f.TripType = models.TripTypeFor(len(f.Segments))
	f.Classes = normalizeClasses(raw)

	// Departure/arrival display fields come from the sorted segments, with
	// top-level fields as fallback for segmentless records.
	var dep, arr *models.Segment
	if len(f.Segments) > 0 {
		dep = &f.Segments[0]
		arr = &f.Segments[len(f.Segments)-1]
	}

	f.DepartureTime = resolveTime(raw, dep, "departure_time")
	f.ArrivalTime = resolveTime(raw, arr, "arrival_time")

	f.OriginCity = resolveCity(dep, str(raw, "origin_city"))
	f.OriginCode = resolveCode(dep, str(raw, "origin_airport_code"))
	f.DestCity = resolveCity(arr, str(raw, "destination_city"))
	f.DestCode = resolveCode(arr, str(raw, "destination_airport_code"))

	// Starting price: cheapest class, else the top-level base price.
	if len(f.Classes) > 0 {
		min := f.Classes[0].Price
		for _, c := range f.Classes[1:] {
			if c.Price < min {
				min = c.Price
			}
		}
		f.StartingPrice = min
	} else {
		f.StartingPrice = num(raw, "base_price")
	}

	// Flight-level facility display: first class's benefits, else a
	// top-level facilities list, else a generic label.
	switch {
	case len(f.Classes) > 0 && len(f.Classes[0].Benefits) > 0:
		f.Facilities = f.Classes[0].Benefits
	default:
		if facs := normalizeFacilities(raw["facilities"]); len(facs) > 0 {
			f.Facilities = facs
		} else {
			f.Facilities = []string{"Standard Amenities"}
		}
	}

	return f
}

func normalizeSegments(raw Raw) []models.Segment {
	arr, ok := asSlice(raw["segments"])
	if !ok {
		return nil
	}
	segments := make([]models.Segment, 0, len(arr))
	for _, v := range arr {
		seg, ok := asMap(v)
		if !ok {
			continue
		}
		s := models.Segment{
			Sequence: int(num(seg, "sequence")),
			Time:     str(seg, "time"),
		}
		if airport, ok := asMap(seg["airport"]); ok {
			s.Airport = NormalizeAirport(airport)
		} else {
			s.Airport = NormalizeAirport(nil)
		}
		segments = append(segments, s)
	}
	// Stable sort keeps array order for records without sequence numbers.
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].Sequence < segments[j].Sequence
	})
	return segments
}

func normalizeClasses(raw Raw) []models.FareClass {
	arr, ok := asSlice(raw["classes"])
	if !ok {
		if data, ok2 := asMap(raw["data"]); ok2 {
			arr, ok = asSlice(data["classes"])
		}
	}
	if !ok {
		return nil
	}
	classes := make([]models.FareClass, 0, len(arr))
	for _, v := range arr {
		c, ok := asMap(v)
		if !ok {
			continue
		}
		fc := models.FareClass{
			ID:         num(c, "id"),
			Type:       str(c, "class_type", "type"),
			Price:      num(c, "price"),
			TotalSeats: int(num(c, "total_seats")),
			Benefits:   normalizeFacilities(c["facilities"]),
		}
		if len(fc.Benefits) == 0 {
			fc.Benefits = []string{"Standard Benefits"}
		}
		classes = append(classes, fc)
	}
	return classes
}

// normalizeFacilities accepts a list of bare strings or {name: string}
// objects and returns deduplicated names in first-seen order.
func normalizeFacilities(v any) []string {
	arr, ok := asSlice(v)
	if !ok {
		return nil
	}
	seen := make(map[string]struct{}, len(arr))
	var out []string
	for _, item := range arr {
		var name string
		switch t := item.(type) {
		case string:
			name = t
		case map[string]any:
			name = str(t, "name")
		}
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// resolveTime prefers the top-level field, then the segment time, and
// formats RFC3339 timestamps to HH:MM for display.
func resolveTime(raw Raw, seg *models.Segment, topKey string) string {
	t := str(raw, topKey)
	if t == "" && seg != nil {
		t = seg.Time
	}
	if t == "" {
		return models.PlaceholderTime
	}
	return FormatClock(t)
}

// FormatClock renders an upstream time value as HH:MM. RFC3339 timestamps
// are reformatted; anything else is passed through as already display
// ready.
func FormatClock(v string) string {
	if !strings.Contains(v, "T") {
		return v
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.Format("15:04")
		}
	}
	return v
}

func resolveCity(seg *models.Segment, fallback string) string {
	if seg != nil && seg.Airport.City != "" && seg.Airport.City != models.PlaceholderCity {
		return seg.Airport.City
	}
	if fallback != "" {
		return fallback
	}
	return models.PlaceholderCity
}

func resolveCode(seg *models.Segment, fallback string) string {
	if seg != nil && seg.Airport.HasCode() {
		return seg.Airport.Code
	}
	if fallback != "" {
		return fallback
	}
	return models.PlaceholderCode
}
