package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
	"github.com/skyvoyage/flight-booking-backend/internal/upstream"
)

// BookingHandler drives the wizard steps against a booking session: flight
// search, flight/class/seat selection, passenger entry, promo application
// and final payment submission.
type BookingHandler struct {
	sessions  *services.SessionService
	reconcile *services.ReconcileService
	api       upstream.BookingAPI
	logger    *logrus.Logger

	// embedded for session lookup + error responses
	sessionLookup *SessionHandler
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(sessions *services.SessionService, reconcile *services.ReconcileService, api upstream.BookingAPI, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		sessions:      sessions,
		reconcile:     reconcile,
		api:           api,
		logger:        logger,
		sessionLookup: NewSessionHandler(sessions, logger),
	}
}

// Search handles POST /api/v1/sessions/:id/search
func (h *BookingHandler) Search(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	filter := models.SearchFilter{
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		Date:                 req.Date,
		Passengers:           req.Passengers,
	}
	h.sessions.SetSearchFilter(sess, filter)

	flights, err := h.api.SearchFlights(c.Request.Context(), filter)
	if err != nil {
		// A failed fetch leaves the session untouched past the filter;
		// the client gets a retry affordance.
		h.logger.WithError(err).Warn("Flight search failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  "error",
			"message": "Unable to search flights. Please retry.",
		})
		return
	}

	h.sessions.SetFlights(sess, flights)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   flights,
	})
}

// SelectFlight handles POST /api/v1/sessions/:id/flight
func (h *BookingHandler) SelectFlight(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.SelectFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	flight, manifest, err := h.fetchDetail(c, req.FlightID)
	if err != nil {
		return
	}

	h.sessions.SelectFlight(sess, flight, manifest)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   flight,
	})
}

// SelectClass handles POST /api/v1/sessions/:id/class
func (h *BookingHandler) SelectClass(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.SelectClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	// The class step re-fetches detail so capacity and manifest data are
	// fresh. The refresh is best effort: a failed fetch keeps the cached
	// flight, and a late response for a superseded flight is ignored.
	snapshot := h.sessions.Snapshot(sess)
	if snapshot.Flight != nil {
		flight, manifest, err := h.api.FetchFlightDetail(c.Request.Context(), snapshot.Flight.ID)
		if err == nil {
			h.sessions.RefreshFlight(sess, flight, manifest)
		} else {
			h.logger.WithError(err).WithField("flight_id", snapshot.Flight.ID).Warn("Flight refresh failed, using cached detail")
		}
	}

	if err := h.sessions.SelectClass(sess, req.ClassID); err != nil {
		h.respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.sessions.Snapshot(sess),
	})
}

// SeatGrid handles GET /api/v1/sessions/:id/seats
func (h *BookingHandler) SeatGrid(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	rows, err := h.sessions.SeatGrid(sess)
	if err != nil {
		h.respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"rows":    rows,
			"pricing": h.sessions.Pricing(sess),
		},
	})
}

// SelectSeats handles POST /api/v1/sessions/:id/seats
func (h *BookingHandler) SelectSeats(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.SelectSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.sessions.SelectSeats(sess, req.Seats); err != nil {
		h.respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"selected_seats": h.sessions.Snapshot(sess).Seats,
			"pricing":        h.sessions.Pricing(sess),
		},
	})
}

// PassengerSlots handles GET /api/v1/sessions/:id/passengers
func (h *BookingHandler) PassengerSlots(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	slots, err := h.sessions.EnsurePassengers(sess)
	if err != nil {
		h.respondStepError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   slots,
	})
}

// SubmitPassengers handles PUT /api/v1/sessions/:id/passengers
func (h *BookingHandler) SubmitPassengers(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.PassengersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fieldErrors, err := h.sessions.SubmitPassengers(sess, req.Passengers)
	if err != nil {
		h.respondStepError(c, err)
		return
	}
	if len(fieldErrors) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status":  "error",
			"message": "Passenger validation failed",
			"errors":  fieldErrors,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.sessions.Snapshot(sess).Passengers,
	})
}

// ApplyPromo handles POST /api/v1/sessions/:id/promo
func (h *BookingHandler) ApplyPromo(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.PromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result := h.sessions.ApplyPromo(sess, req.Code)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"promo":   result,
			"pricing": h.sessions.Pricing(sess),
		},
	})
}

// GetPricing handles GET /api/v1/sessions/:id/pricing
func (h *BookingHandler) GetPricing(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.sessions.Pricing(sess),
	})
}

// SubmitPayment handles POST /api/v1/sessions/:id/payment
func (h *BookingHandler) SubmitPayment(c *gin.Context) {
	sess, ok := h.sessionLookup.lookup(c)
	if !ok {
		return
	}

	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.sessions.BeginPayment(sess); err != nil {
		h.respondStepError(c, err)
		return
	}

	txReq := h.buildTransaction(c, sess, req.PaymentMethod)

	if err := h.api.SubmitTransaction(c.Request.Context(), txReq); err != nil {
		h.sessions.Fail(sess)

		var validationErr *upstream.ValidationError
		if errors.As(err, &validationErr) {
			// Validation rejections reach the user verbatim.
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status":  "error",
				"message": validationErr.Message,
			})
			return
		}

		h.logger.WithError(err).Error("Transaction submission failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"status":  "error",
			"message": "Gateway connection lost. Please verify your connection.",
		})
		return
	}

	h.sessions.Complete(sess)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Payment verified, booking confirmed",
	})
}

// buildTransaction reconciles the chosen seat labels against the
// authoritative manifest and assembles the transaction payload. Contact
// fields default from the lead passenger.
func (h *BookingHandler) buildTransaction(c *gin.Context, sess *services.BookingSession, paymentMethod string) models.TransactionRequest {
	snapshot := h.sessions.Snapshot(sess)
	manifest := h.sessions.ManifestSeats(sess)

	var flightID, classID int64
	if snapshot.Flight != nil {
		flightID = snapshot.Flight.ID
	}
	if snapshot.Class != nil {
		classID = snapshot.Class.ID
	}

	enriched := h.reconcile.Reconcile(c.Request.Context(), snapshot.ID, flightID, snapshot.Passengers, manifest)

	name, email, phone := "Guest User", "guest@example.com", "0000000000"
	if len(enriched) > 0 {
		if enriched[0].Name != "" {
			name = enriched[0].Name
		}
		if enriched[0].Email != "" {
			email = enriched[0].Email
		}
		if enriched[0].Phone != "" {
			phone = enriched[0].Phone
		}
	}

	var promo *string
	if snapshot.Discount > 0 && snapshot.PromoCode != "" {
		code := snapshot.PromoCode
		promo = &code
	}

	passengers := make([]models.TransactionPassenger, len(enriched))
	for i, p := range enriched {
		passengers[i] = models.TransactionPassenger{
			Name:         p.Name,
			DateOfBirth:  p.DateOfBirth,
			Nationality:  p.Nationality,
			FlightSeatID: p.SeatID,
			SeatNumber:   p.SeatName,
		}
	}

	return models.TransactionRequest{
		FlightID:      flightID,
		FlightClassID: classID,
		Name:          name,
		Email:         email,
		Phone:         phone,
		PromoCode:     promo,
		Passengers:    passengers,
		PaymentMethod: paymentMethod,
	}
}

// fetchDetail wraps the flight detail fetch with the shared error
// responses for upstream failures.
func (h *BookingHandler) fetchDetail(c *gin.Context, flightID int64) (models.Flight, []models.Seat, error) {
	flight, manifest, err := h.api.FetchFlightDetail(c.Request.Context(), flightID)
	if err != nil {
		var validationErr *upstream.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": validationErr.Message,
			})
		} else {
			h.logger.WithError(err).WithField("flight_id", flightID).Warn("Flight detail fetch failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  "error",
				"message": "Unable to load flight details. Please retry.",
			})
		}
		return models.Flight{}, nil, err
	}
	return flight, manifest, nil
}

// respondStepError translates step-guard violations into a redirect
// response; anything else is a client error.
func (h *BookingHandler) respondStepError(c *gin.Context, err error) {
	var violation *services.StepViolationError
	if errors.As(err, &violation) {
		c.JSON(http.StatusConflict, gin.H{
			"status":        "error",
			"message":       "Previous steps must be completed first",
			"redirect_step": violation.Redirect,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": err.Error(),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": "Invalid request format",
		"error":   err.Error(),
	})
}
