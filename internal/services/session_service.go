package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/utils"
	"github.com/skyvoyage/flight-booking-backend/pkg/validator"
)

// ErrSessionNotFound indicates the session id is unknown or expired
var ErrSessionNotFound = errors.New("booking session not found")

// StepViolationError is returned when an operation is attempted before its
// prerequisite step is satisfied. It is not surfaced to the user as an
// error: handlers translate it into a redirect to the nearest valid prior
// step.
type StepViolationError struct {
	Required models.BookingStep
	Redirect models.BookingStep
}

func (e *StepViolationError) Error() string {
	return fmt.Sprintf("step %s requires prerequisites; redirect to %s", e.Required, e.Redirect)
}

// BookingSession is the aggregate holding everything the wizard has
// accumulated: search filter, resolved flight list cache, the selected
// flight/class/seats/passengers, the applied discount and the step the
// user has reached. It is the single source of truth for every screen and
// is mutated only through SessionService setters so the step-guard
// invariants live in one place.
type BookingSession struct {
	ID       uuid.UUID           `json:"id"`
	Step     models.BookingStep  `json:"step"`
	Filter   models.SearchFilter `json:"search_filter"`
	Flights  []models.Flight     `json:"flights,omitempty"`
	Flight   *models.Flight      `json:"selected_flight,omitempty"`
	Class    *models.FareClass   `json:"selected_class,omitempty"`
	Seats    []string            `json:"selected_seats"`
	Manifest []models.Seat       `json:"-"`

	Passengers []models.Passenger `json:"passengers"`
	Discount   int64              `json:"discount"`
	PromoCode  string             `json:"promo_code,omitempty"`

	UserID    *uuid.UUID       `json:"user_id,omitempty"`
	Device    utils.DeviceInfo `json:"device"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	mu sync.Mutex
}

// SessionService owns the in-memory session store and enforces the step
// state machine. Sessions live for the process lifetime only; durability
// across restarts is explicitly not a goal.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*BookingSession

	seats     *SeatService
	pricing   *PricingService
	validator *validator.PassengerValidator
	logger    *logrus.Logger
}

// NewSessionService creates a new session service
func NewSessionService(seats *SeatService, pricing *PricingService, pv *validator.PassengerValidator, logger *logrus.Logger) *SessionService {
	return &SessionService{
		sessions:  make(map[uuid.UUID]*BookingSession),
		seats:     seats,
		pricing:   pricing,
		validator: pv,
		logger:    logger,
	}
}

// Create starts an empty session at StepIdle.
func (s *SessionService) Create(device utils.DeviceInfo, userID *uuid.UUID) *BookingSession {
	now := time.Now()
	sess := &BookingSession{
		ID:        uuid.New(),
		Step:      models.StepIdle,
		Filter:    models.SearchFilter{Passengers: 1},
		Seats:     []string{},
		UserID:    userID,
		Device:    device,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"session_id":  sess.ID,
		"device_type": device.DeviceType,
		"platform":    device.Platform,
	}).Info("Booking session created")
	return sess
}

// Get retrieves a session by id.
func (s *SessionService) Get(id uuid.UUID) (*BookingSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Cancel resets and removes a session.
func (s *SessionService) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.reset(models.StepIdle)
	sess.mu.Unlock()

	s.logger.WithField("session_id", id).Info("Booking session cancelled")
	return nil
}

// SetSearchFilter merges the user-entered criteria into the session
// filter and moves the session into the searching state.
func (s *SessionService) SetSearchFilter(sess *BookingSession, filter models.SearchFilter) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if filter.OriginAirportID != 0 {
		sess.Filter.OriginAirportID = filter.OriginAirportID
	}
	if filter.DestinationAirportID != 0 {
		sess.Filter.DestinationAirportID = filter.DestinationAirportID
	}
	if filter.Date != "" {
		sess.Filter.Date = filter.Date
	}
	if filter.Passengers > 0 {
		sess.Filter.Passengers = filter.Passengers
	}
	sess.Step = models.StepSearching
	sess.touch()
}

// SetFlights stores the resolved flight list cache for the current search.
func (s *SessionService) SetFlights(sess *BookingSession, flights []models.Flight) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Flights = flights
	sess.Step = models.StepFlightListed
	sess.touch()
}

// SelectFlight stores a freshly fetched canonical flight with its seat
// manifest. Any previous class, seat and passenger choices belong to the
// old flight and are discarded.
func (s *SessionService) SelectFlight(sess *BookingSession, flight models.Flight, manifest []models.Seat) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.Flight = &flight
	sess.Manifest = manifest
	sess.Class = nil
	sess.Seats = []string{}
	sess.Passengers = nil
	sess.Discount = 0
	sess.PromoCode = ""
	sess.Step = models.StepFlightSelected
	sess.touch()
}

// RefreshFlight re-applies a later detail fetch for the selected flight
// (the class and seat steps re-fetch to pick up fresh capacity and
// manifest data). A late response for a flight the session has moved away
// from is ignored rather than allowed to overwrite fresher state.
func (s *SessionService) RefreshFlight(sess *BookingSession, flight models.Flight, manifest []models.Seat) bool {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Flight == nil || sess.Flight.ID != flight.ID {
		s.logger.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"flight_id":  flight.ID,
		}).Warn("Stale flight detail ignored")
		return false
	}

	sess.Flight = &flight
	if len(manifest) > 0 {
		sess.Manifest = manifest
	}
	// Keep the selected class's metadata fresh (capacity may have changed).
	if sess.Class != nil {
		if fresh := flight.ClassByID(sess.Class.ID); fresh != nil {
			sess.Class = fresh
		}
	}
	sess.touch()
	return true
}

// SelectClass chooses a fare class of the selected flight. Selecting a
// different class after seats were chosen invalidates the seats and
// passengers, returning the session to the seat-selection step's
// prerequisite state.
func (s *SessionService) SelectClass(sess *BookingSession, classID int64) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Flight == nil {
		return s.violation(sess, models.StepClassSelected)
	}
	class := sess.Flight.ClassByID(classID)
	if class == nil {
		return fmt.Errorf("fare class %d does not belong to flight %d", classID, sess.Flight.ID)
	}

	changed := sess.Class == nil || sess.Class.ID != class.ID
	if changed && !sess.Step.Before(models.StepSeatsSelected) {
		sess.Seats = []string{}
		sess.Passengers = nil
		s.logger.WithFields(logrus.Fields{
			"session_id": sess.ID,
			"class_id":   classID,
		}).Info("Fare class changed, seat selection cleared")
	}
	sess.Class = class
	sess.Step = models.StepClassSelected
	sess.touch()
	return nil
}

// SeatGrid synthesizes the seat inventory for the selected fare class,
// applying booked-name exclusions drawn from the authoritative manifest.
func (s *SessionService) SeatGrid(sess *BookingSession) ([]models.SeatRow, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Class == nil {
		return nil, s.violation(sess, models.StepSeatsSelected)
	}
	seats := s.seats.SynthesizeSeats(sess.Class, sess.Manifest, sess.bookedSeatNames())
	return s.seats.GroupRows(seats, s.seats.ColumnsFor(sess.Class)), nil
}

// SelectSeats stores the chosen seat labels. Every name must come from
// the synthesized grid of the current class, be currently available and
// appear at most once.
func (s *SessionService) SelectSeats(sess *BookingSession, names []string) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Class == nil {
		return s.violation(sess, models.StepSeatsSelected)
	}
	if len(names) == 0 {
		return errors.New("at least one seat must be selected")
	}

	grid := s.seats.SynthesizeSeats(sess.Class, sess.Manifest, sess.bookedSeatNames())
	byName := make(map[string]models.Seat, len(grid))
	for _, seat := range grid {
		byName[seat.Name] = seat
	}

	chosen := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, raw := range names {
		name := NormalizeSeatName(raw)
		if _, dup := seen[name]; dup {
			return fmt.Errorf("seat %s selected twice", name)
		}
		seat, ok := byName[name]
		if !ok {
			return fmt.Errorf("seat %s is not part of the %s cabin", name, sess.Class.Type)
		}
		if !seat.Available {
			return fmt.Errorf("seat %s is no longer available", name)
		}
		seen[name] = struct{}{}
		chosen = append(chosen, name)
	}

	sess.Seats = chosen
	// A changed seat set invalidates previously entered passengers.
	if len(sess.Passengers) != len(chosen) {
		sess.Passengers = nil
	}
	sess.Step = models.StepSeatsSelected
	sess.touch()
	return nil
}

// EnsurePassengers returns the passenger slots for the passenger-entry
// step, regenerating them from scratch (one blank passenger per seat)
// whenever the cached list length no longer matches the seat count.
func (s *SessionService) EnsurePassengers(sess *BookingSession) ([]models.Passenger, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.Seats) == 0 {
		return nil, s.violation(sess, models.StepPassengersEntered)
	}
	if len(sess.Passengers) != len(sess.Seats) {
		slots := make([]models.Passenger, len(sess.Seats))
		for i, seat := range sess.Seats {
			slots[i] = models.BlankPassenger(seat)
		}
		sess.Passengers = slots
		sess.touch()
	}
	return sess.Passengers, nil
}

// SubmitPassengers validates and stores the passenger details. All field
// errors are returned together, keyed by passenger index.
func (s *SessionService) SubmitPassengers(sess *BookingSession, passengers []models.Passenger) (map[int]validator.FieldErrors, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.Seats) == 0 {
		return nil, s.violation(sess, models.StepPassengersEntered)
	}
	if len(passengers) != len(sess.Seats) {
		return nil, fmt.Errorf("expected %d passengers for %d seats, got %d", len(sess.Seats), len(sess.Seats), len(passengers))
	}

	// Passenger order follows the seat selection order.
	for i := range passengers {
		passengers[i].SeatName = sess.Seats[i]
		passengers[i].SeatID = nil
	}

	valid, fieldErrors := s.validator.Validate(passengers)
	if !valid {
		return fieldErrors, nil
	}

	sess.Passengers = passengers
	sess.Step = models.StepPassengersEntered
	sess.touch()
	return nil, nil
}

// ApplyPromo applies a promo code through the pricing engine. A failed
// code resets any earlier discount to zero.
func (s *SessionService) ApplyPromo(sess *BookingSession, code string) models.PromoResult {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	result := s.pricing.ApplyPromoCode(code)
	sess.Discount = result.AmountApplied
	if result.Success {
		sess.PromoCode = code
	} else {
		sess.PromoCode = ""
	}
	sess.touch()
	return result
}

// Pricing derives the current money snapshot from the session.
func (s *SessionService) Pricing(sess *BookingSession) models.Pricing {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return s.pricing.ComputePricing(sess.Class, len(sess.Seats), sess.Discount)
}

// BeginPayment gates entry into the payment step: every passenger record
// must pass validation.
func (s *SessionService) BeginPayment(sess *BookingSession) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if len(sess.Passengers) == 0 || len(sess.Passengers) != len(sess.Seats) {
		return s.violation(sess, models.StepPaymentPending)
	}
	if valid, _ := s.validator.Validate(sess.Passengers); !valid {
		return s.violation(sess, models.StepPaymentPending)
	}
	sess.Step = models.StepPaymentPending
	sess.touch()
	return nil
}

// Complete marks the booking paid and fully resets the accumulated state,
// per the session lifecycle.
func (s *SessionService) Complete(sess *BookingSession) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.reset(models.StepCompleted)
	s.logger.WithField("session_id", sess.ID).Info("Booking completed, session reset")
}

// Fail marks a payment attempt failed. The accumulated state is kept so
// the user can retry.
func (s *SessionService) Fail(sess *BookingSession) {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.Step = models.StepFailed
	sess.touch()
}

// Snapshot returns a consistent copy of the session for serialization.
func (s *SessionService) Snapshot(sess *BookingSession) BookingSession {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return BookingSession{
		ID:         sess.ID,
		Step:       sess.Step,
		Filter:     sess.Filter,
		Flights:    sess.Flights,
		Flight:     sess.Flight,
		Class:      sess.Class,
		Seats:      append([]string{}, sess.Seats...),
		Passengers: append([]models.Passenger{}, sess.Passengers...),
		Discount:   sess.Discount,
		PromoCode:  sess.PromoCode,
		UserID:     sess.UserID,
		Device:     sess.Device,
		CreatedAt:  sess.CreatedAt,
		UpdatedAt:  sess.UpdatedAt,
	}
}

// ManifestSeats returns the authoritative manifest cached for the
// selected flight.
func (s *SessionService) ManifestSeats(sess *BookingSession) []models.Seat {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Manifest
}

// violation builds the redirect for a step whose prerequisites are not
// met. The redirect target is the furthest step the session's data
// actually supports.
func (s *SessionService) violation(sess *BookingSession, required models.BookingStep) error {
	redirect := models.StepIdle
	switch {
	case len(sess.Passengers) > 0 && len(sess.Passengers) == len(sess.Seats):
		redirect = models.StepPassengersEntered
	case len(sess.Seats) > 0:
		redirect = models.StepSeatsSelected
	case sess.Class != nil:
		redirect = models.StepClassSelected
	case sess.Flight != nil:
		redirect = models.StepFlightSelected
	case len(sess.Flights) > 0:
		redirect = models.StepFlightListed
	}
	s.logger.WithFields(logrus.Fields{
		"session_id": sess.ID,
		"required":   required,
		"redirect":   redirect,
	}).Info("Step guard redirect")
	return &StepViolationError{Required: required, Redirect: redirect}
}

// bookedSeatNames lists the manifest seats known to be unavailable.
// Callers must hold sess.mu.
func (sess *BookingSession) bookedSeatNames() []string {
	var booked []string
	for _, seat := range sess.Manifest {
		if !seat.Available {
			booked = append(booked, seat.Name)
		}
	}
	return booked
}

// reset clears every accumulated field back to its zero state.
// Callers must hold sess.mu.
func (sess *BookingSession) reset(step models.BookingStep) {
	sess.Filter = models.SearchFilter{Passengers: 1}
	sess.Flights = nil
	sess.Flight = nil
	sess.Class = nil
	sess.Seats = []string{}
	sess.Manifest = nil
	sess.Passengers = nil
	sess.Discount = 0
	sess.PromoCode = ""
	sess.Step = step
	sess.touch()
}

func (sess *BookingSession) touch() {
	sess.UpdatedAt = time.Now()
}
