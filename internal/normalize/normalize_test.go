package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// decode parses a JSON literal the way the upstream client does, so raw
// values carry JSON types (float64 numbers, map[string]any objects).
func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func decodeRaw(t *testing.T, s string) Raw {
	t.Helper()
	m, ok := asMap(decode(t, s))
	require.True(t, ok)
	return m
}

func TestNormalizeAirport(t *testing.T) {
	t.Run("CodeAliases", func(t *testing.T) {
		cases := map[string]string{
			"code":         `{"id": 1, "name": "Soekarno-Hatta", "city": "Jakarta", "code": "CGK"}`,
			"iata":         `{"id": 1, "name": "Soekarno-Hatta", "city": "Jakarta", "iata": "CGK"}`,
			"iata_code":    `{"id": 1, "name": "Soekarno-Hatta", "city": "Jakarta", "iata_code": "CGK"}`,
			"airport_code": `{"id": 1, "name": "Soekarno-Hatta", "city": "Jakarta", "airport_code": "CGK"}`,
		}
		for alias, payload := range cases {
			a := NormalizeAirport(decodeRaw(t, payload))
			assert.Equal(t, "CGK", a.Code, "alias %s", alias)
			assert.Equal(t, "Jakarta", a.City)
			assert.True(t, a.HasCode())
		}
	})

	t.Run("AliasPriority", func(t *testing.T) {
		a := NormalizeAirport(decodeRaw(t, `{"code": "CGK", "iata": "XXX"}`))
		assert.Equal(t, "CGK", a.Code)
	})

	t.Run("Placeholders", func(t *testing.T) {
		a := NormalizeAirport(decodeRaw(t, `{"id": 7}`))
		assert.Equal(t, models.PlaceholderCode, a.Code)
		assert.Equal(t, models.PlaceholderCity, a.City)
		assert.Equal(t, models.PlaceholderCity, a.Name)
		assert.False(t, a.HasCode())
	})

	t.Run("NilRecord", func(t *testing.T) {
		a := NormalizeAirport(nil)
		assert.Equal(t, models.PlaceholderCode, a.Code)
		assert.Equal(t, models.PlaceholderCity, a.City)
	})

	t.Run("NumericStringID", func(t *testing.T) {
		a := NormalizeAirport(decodeRaw(t, `{"id": "42", "code": "DPS"}`))
		assert.Equal(t, int64(42), a.ID)
	})
}

func TestUnwrapAirportList(t *testing.T) {
	t.Run("BareArray", func(t *testing.T) {
		records := UnwrapAirportList(decode(t, `[{"code": "CGK"}, {"code": "DPS"}]`))
		assert.Len(t, records, 2)
	})

	t.Run("DataEnvelope", func(t *testing.T) {
		records := UnwrapAirportList(decode(t, `{"success": true, "data": [{"code": "CGK"}]}`))
		assert.Len(t, records, 1)
	})

	t.Run("DoubleNested", func(t *testing.T) {
		records := UnwrapAirportList(decode(t, `{"data": {"data": [{"code": "CGK"}]}}`))
		assert.Len(t, records, 1)
	})

	t.Run("Unrecognized", func(t *testing.T) {
		assert.Nil(t, UnwrapAirportList(decode(t, `{"message": "nope"}`)))
	})
}

func TestNormalizeFlight(t *testing.T) {
	t.Run("SegmentsSortedBySequence", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 10,
			"flight_number": "GA-204",
			"airline": {"name": "Garuda", "logo": "garuda.png"},
			"segments": [
				{"sequence": 2, "time": "2026-03-01T14:30:00Z", "airport": {"city": "Denpasar", "code": "DPS"}},
				{"sequence": 1, "time": "2026-03-01T09:15:00Z", "airport": {"city": "Jakarta", "code": "CGK"}}
			]
		}`))

		require.Len(t, f.Segments, 2)
		assert.Equal(t, 1, f.Segments[0].Sequence)
		assert.Equal(t, "Jakarta", f.OriginCity)
		assert.Equal(t, "CGK", f.OriginCode)
		assert.Equal(t, "Denpasar", f.DestCity)
		assert.Equal(t, "DPS", f.DestCode)
		assert.Equal(t, "09:15", f.DepartureTime)
		assert.Equal(t, "14:30", f.ArrivalTime)
		assert.Equal(t, "1 Transit", f.TripType)
		assert.Equal(t, "Garuda", f.AirlineName)
	})

	t.Run("DirectFlight", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 3,
			"segments": [{"sequence": 1, "time": "08:00", "airport": {"code": "CGK"}}]
		}`))
		assert.Equal(t, "Direct", f.TripType)
		assert.Equal(t, "08:00", f.DepartureTime)
	})

	t.Run("SegmentlessFallsBackToTopLevelFields", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 5,
			"departure_time": "2026-03-01T06:45:00Z",
			"origin_city": "Jakarta",
			"origin_airport_code": "CGK"
		}`))
		assert.Equal(t, "06:45", f.DepartureTime)
		assert.Equal(t, models.PlaceholderTime, f.ArrivalTime)
		assert.Equal(t, "Jakarta", f.OriginCity)
		assert.Equal(t, "CGK", f.OriginCode)
		assert.Equal(t, models.PlaceholderCity, f.DestCity)
		assert.Equal(t, models.PlaceholderCode, f.DestCode)
	})

	t.Run("Placeholders", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{"id": 1}`))
		assert.Equal(t, models.PlaceholderAirline, f.AirlineName)
		assert.Equal(t, models.PlaceholderDuration, f.Duration)
		assert.Equal(t, models.PlaceholderTime, f.DepartureTime)
		assert.Equal(t, []string{"Standard Amenities"}, f.Facilities)
	})

	t.Run("ClassTypeAlias", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 2,
			"classes": [
				{"id": 21, "class_type": "Economy", "price": 1500000, "total_seats": 54},
				{"id": 22, "type": "Business", "price": 4000000, "total_seats": 12}
			]
		}`))
		require.Len(t, f.Classes, 2)
		assert.Equal(t, "Economy", f.Classes[0].Type)
		assert.Equal(t, "Business", f.Classes[1].Type)
		assert.Equal(t, int64(1500000), f.StartingPrice)
	})

	t.Run("ClassesUnderDataEnvelope", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 2,
			"data": {"classes": [{"id": 30, "class_type": "Economy", "price": 900000}]}
		}`))
		require.Len(t, f.Classes, 1)
		assert.Equal(t, int64(30), f.Classes[0].ID)
	})

	t.Run("StartingPriceFallsBackToBasePrice", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{"id": 4, "base_price": 750000}`))
		assert.Equal(t, int64(750000), f.StartingPrice)
	})

	t.Run("FacilitiesDeduplicated", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 6,
			"classes": [{"id": 61, "class_type": "Economy", "price": 1,
				"facilities": ["WiFi", {"name": "Meal"}, "WiFi", {"name": ""}]}]
		}`))
		require.Len(t, f.Classes, 1)
		assert.Equal(t, []string{"WiFi", "Meal"}, f.Classes[0].Benefits)
		assert.Equal(t, []string{"WiFi", "Meal"}, f.Facilities)
	})

	t.Run("EmptyClassBenefitsGetDefault", func(t *testing.T) {
		f := NormalizeFlight(decodeRaw(t, `{
			"id": 7,
			"classes": [{"id": 71, "class_type": "Economy", "price": 1}]
		}`))
		assert.Equal(t, []string{"Standard Benefits"}, f.Classes[0].Benefits)
	})
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:15", FormatClock("2026-03-01T09:15:00Z"))
	assert.Equal(t, "23:05", FormatClock("2026-03-01T23:05:00"))
	assert.Equal(t, "08:30", FormatClock("08:30"))
	assert.Equal(t, "--:--", FormatClock("--:--"))
}

func TestResponseOK(t *testing.T) {
	assert.True(t, ResponseOK(decode(t, `{"success": true}`)))
	assert.True(t, ResponseOK(decode(t, `{"status": "success"}`)))
	assert.True(t, ResponseOK(decode(t, `[1, 2]`)))
	assert.False(t, ResponseOK(decode(t, `{"success": false, "message": "Seat taken"}`)))
	assert.False(t, ResponseOK(decode(t, `{"status": "error"}`)))
	assert.False(t, ResponseOK(nil))
}

func TestUnwrapFlightDetail(t *testing.T) {
	t.Run("DataFlight", func(t *testing.T) {
		raw := UnwrapFlightDetail(decode(t, `{"data": {"flight": {"id": 9}}}`))
		require.NotNil(t, raw)
		assert.EqualValues(t, 9, num(raw, "id"))
	})

	t.Run("DataWithID", func(t *testing.T) {
		raw := UnwrapFlightDetail(decode(t, `{"data": {"id": 9, "flight_number": "GA-1"}}`))
		require.NotNil(t, raw)
		assert.EqualValues(t, 9, num(raw, "id"))
	})

	t.Run("RootFlightKey", func(t *testing.T) {
		raw := UnwrapFlightDetail(decode(t, `{"flight": {"id": 9}}`))
		require.NotNil(t, raw)
		assert.EqualValues(t, 9, num(raw, "id"))
	})

	t.Run("RootItself", func(t *testing.T) {
		raw := UnwrapFlightDetail(decode(t, `{"id": 9}`))
		require.NotNil(t, raw)
		assert.EqualValues(t, 9, num(raw, "id"))
	})
}

func TestExtractSeats(t *testing.T) {
	t.Run("TopLevelSeats", func(t *testing.T) {
		body := decode(t, `{"seats": [{"id": 100, "name": "1A", "is_available": false}]}`)
		seats := ExtractSeats(body, nil)
		require.Len(t, seats, 1)
		require.NotNil(t, seats[0].ID)
		assert.Equal(t, int64(100), *seats[0].ID)
		assert.Equal(t, "1A", seats[0].Name)
		assert.False(t, seats[0].Available)
		assert.True(t, seats[0].Authoritative)
	})

	t.Run("NestedPaths", func(t *testing.T) {
		cases := []string{
			`{"flight_seats": [{"name": "1A"}]}`,
			`{"data": {"seats": [{"name": "1A"}]}}`,
			`{"data": {"flight_seats": [{"name": "1A"}]}}`,
			`{"data": {"data": {"seats": [{"name": "1A"}]}}}`,
		}
		for _, payload := range cases {
			seats := ExtractSeats(decode(t, payload), nil)
			require.Len(t, seats, 1, payload)
			assert.Equal(t, "1A", seats[0].Name)
		}
	})

	t.Run("PerSegmentSeats", func(t *testing.T) {
		flight := decodeRaw(t, `{
			"id": 1,
			"segments": [
				{"sequence": 1, "seats": [{"name": "1A"}]},
				{"sequence": 2, "flight_seats": [{"name": "2B"}]}
			]
		}`)
		seats := ExtractSeats(decode(t, `{"irrelevant": true}`), flight)
		require.Len(t, seats, 2)
	})

	t.Run("SeatNumberAlias", func(t *testing.T) {
		seats := ExtractSeats(decode(t, `{"seats": [{"seat_number": "12C"}]}`), nil)
		require.Len(t, seats, 1)
		assert.Equal(t, "12C", seats[0].Name)
	})

	t.Run("AvailabilityDefaultsTrue", func(t *testing.T) {
		seats := ExtractSeats(decode(t, `{"seats": [{"name": "3D"}]}`), nil)
		require.Len(t, seats, 1)
		assert.True(t, seats[0].Available)
		assert.Nil(t, seats[0].ID)
	})

	t.Run("NoManifest", func(t *testing.T) {
		assert.Nil(t, ExtractSeats(decode(t, `{"data": {"id": 1}}`), decodeRaw(t, `{"id": 1}`)))
	})
}
