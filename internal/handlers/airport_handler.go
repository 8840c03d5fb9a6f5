package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/upstream"
)

// AirportHandler serves the airport reference list. Airports are
// immutable reference data: fetched from the booking API once, then kept
// for the process lifetime.
type AirportHandler struct {
	api    upstream.BookingAPI
	logger *logrus.Logger

	mu       sync.Mutex
	airports []models.Airport
	loaded   bool
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(api upstream.BookingAPI, logger *logrus.Logger) *AirportHandler {
	return &AirportHandler{
		api:    api,
		logger: logger,
	}
}

// ListAirports handles GET /api/v1/airports
func (h *AirportHandler) ListAirports(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.loaded {
		airports, err := h.api.FetchAirports(c.Request.Context())
		if err != nil {
			h.logger.WithError(err).Error("Failed to fetch airports")
			c.JSON(http.StatusBadGateway, gin.H{
				"status":  "error",
				"message": "Unable to load airports. Please retry.",
			})
			return
		}
		h.airports = airports
		h.loaded = true
		h.logger.WithField("count", len(airports)).Info("Airport cache populated")
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   h.airports,
	})
}
