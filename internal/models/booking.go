package models

// BookingStep is a state of the wizard step machine.
type BookingStep string

const (
	StepIdle              BookingStep = "idle"
	StepSearching         BookingStep = "searching"
	StepFlightListed      BookingStep = "flight_listed"
	StepFlightSelected    BookingStep = "flight_selected"
	StepClassSelected     BookingStep = "class_selected"
	StepSeatsSelected     BookingStep = "seats_selected"
	StepPassengersEntered BookingStep = "passengers_entered"
	StepPaymentPending    BookingStep = "payment_pending"
	StepCompleted         BookingStep = "completed"
	StepFailed            BookingStep = "failed"
)

// stepOrder maps each forward state to its position in the wizard.
// Terminal states are not ordered.
var stepOrder = map[BookingStep]int{
	StepIdle:              0,
	StepSearching:         1,
	StepFlightListed:      2,
	StepFlightSelected:    3,
	StepClassSelected:     4,
	StepSeatsSelected:     5,
	StepPassengersEntered: 6,
	StepPaymentPending:    7,
}

// Before reports whether s precedes other in the forward wizard order.
func (s BookingStep) Before(other BookingStep) bool {
	a, ok := stepOrder[s]
	b, ok2 := stepOrder[other]
	return ok && ok2 && a < b
}

// Pricing is the derived money snapshot shown on every step that displays
// amounts. All values are in the smallest currency unit.
type Pricing struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// PromoResult reports the outcome of applying a promo code.
type PromoResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AmountApplied int64  `json:"amount_applied"`
}

// TransactionPassenger is one passenger entry of the transaction payload.
// FlightSeatID stays nil when reconciliation found no authoritative seat;
// the transaction API decides whether to accept the seat number alone.
type TransactionPassenger struct {
	Name         string `json:"name"`
	DateOfBirth  string `json:"date_of_birth"`
	Nationality  string `json:"nationality"`
	FlightSeatID *int64 `json:"flight_seat_id"`
	SeatNumber   string `json:"seat_number"`
}

// TransactionRequest is the payload submitted to the external transaction
// API at the end of the wizard.
type TransactionRequest struct {
	FlightID      int64                  `json:"flight_id"`
	FlightClassID int64                  `json:"flight_class_id"`
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	PromoCode     *string                `json:"promo_code"`
	Passengers    []TransactionPassenger `json:"passengers"`
	PaymentMethod string                 `json:"payment_method"`
}

// SearchRequest is the body of the search step endpoint.
type SearchRequest struct {
	OriginAirportID      int64  `json:"departure_airport_id"`
	DestinationAirportID int64  `json:"arrival_airport_id"`
	Date                 string `json:"date"`
	Passengers           int    `json:"passengers"`
}

// SelectFlightRequest is the body of the flight-selection endpoint.
type SelectFlightRequest struct {
	FlightID int64 `json:"flight_id" binding:"required"`
}

// SelectClassRequest is the body of the fare-class endpoint.
type SelectClassRequest struct {
	ClassID int64 `json:"class_id" binding:"required"`
}

// SelectSeatsRequest is the body of the seat-selection endpoint.
type SelectSeatsRequest struct {
	Seats []string `json:"seats" binding:"required,min=1"`
}

// PassengersRequest is the body of the passenger-entry endpoint.
type PassengersRequest struct {
	Passengers []Passenger `json:"passengers" binding:"required"`
}

// PromoRequest is the body of the promo endpoint.
type PromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// PaymentRequest is the body of the payment endpoint.
type PaymentRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"`
}
