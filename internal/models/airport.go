package models

// Placeholder values substituted by the normalizer when an upstream field
// cannot be resolved. Callers that need strict data check for these
// explicitly; the normalizer itself never fails.
const (
	PlaceholderCode     = "---"
	PlaceholderTime     = "--:--"
	PlaceholderCity     = "Unknown"
	PlaceholderAirline  = "Unknown Airline"
	PlaceholderDuration = "2h 30m"
)

// Airport is the canonical airport entity. Upstream payloads may carry the
// IATA code under several aliases; once normalized, only Code is read.
type Airport struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	City string `json:"city"`
	Code string `json:"code"`
}

// HasCode reports whether the airport carries a resolved IATA code rather
// than the normalizer placeholder.
func (a Airport) HasCode() bool {
	return a.Code != "" && a.Code != PlaceholderCode
}
