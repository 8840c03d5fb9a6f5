package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/middleware"
	"github.com/skyvoyage/flight-booking-backend/internal/services"
	"github.com/skyvoyage/flight-booking-backend/internal/utils"
)

// SessionHandler manages booking session lifecycle.
type SessionHandler struct {
	sessions *services.SessionService
	logger   *logrus.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *services.SessionService, logger *logrus.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// CreateSession handles POST /api/v1/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	device := utils.ParseUserAgent(c.Request.UserAgent())
	userID := middleware.AuthenticatedUserID(c)

	sess := h.sessions.Create(device, userID)

	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   h.sessions.Snapshot(sess),
	})
}

// GetSession handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}

	snapshot := h.sessions.Snapshot(sess)
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"session": snapshot,
			"pricing": h.sessions.Pricing(sess),
		},
	})
}

// CancelSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) CancelSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid session id",
		})
		return
	}

	if err := h.sessions.Cancel(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": "Booking session not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Booking session cancelled",
	})
}

// lookup resolves the session from the :id path parameter, writing the
// error response itself when resolution fails.
func (h *SessionHandler) lookup(c *gin.Context) (*services.BookingSession, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid session id",
		})
		return nil, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Booking session not found",
			})
		} else {
			h.logger.WithError(err).Error("Failed to load session")
			c.JSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "Internal server error",
			})
		}
		return nil, false
	}
	return sess, true
}
