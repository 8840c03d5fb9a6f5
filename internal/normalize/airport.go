package normalize

import (
	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

// NormalizeAirport resolves an upstream airport record into the canonical
// Airport. The IATA code may arrive under any alias in
// airportCodeAliases; name and city fall back to placeholders.
func NormalizeAirport(raw Raw) models.Airport {
	if raw == nil {
		return models.Airport{
			Name: models.PlaceholderCity,
			City: models.PlaceholderCity,
			Code: models.PlaceholderCode,
		}
	}

	a := models.Airport{
		ID:   num(raw, "id", "airport_id"),
		Name: str(raw, "name", "airport_name"),
		City: str(raw, "city"),
		Code: str(raw, airportCodeAliases...),
	}
	if a.Name == "" {
		a.Name = models.PlaceholderCity
	}
	if a.City == "" {
		a.City = models.PlaceholderCity
	}
	if a.Code == "" {
		a.Code = models.PlaceholderCode
	}
	return a
}

// UnwrapAirportList extracts the airport record array from any of the
// supported response envelopes: a bare array, {data: [...]}, or
// {success, data: [...]}.
func UnwrapAirportList(body any) []Raw {
	if arr, ok := asSlice(body); ok {
		return toRawSlice(arr)
	}
	if m, ok := asMap(body); ok {
		if arr, ok := asSlice(m["data"]); ok {
			return toRawSlice(arr)
		}
		if inner, ok := asMap(m["data"]); ok {
			if arr, ok := asSlice(inner["data"]); ok {
				return toRawSlice(arr)
			}
		}
	}
	return nil
}

func toRawSlice(arr []any) []Raw {
	out := make([]Raw, 0, len(arr))
	for _, v := range arr {
		if m, ok := asMap(v); ok {
			out = append(out, m)
		}
	}
	return out
}
