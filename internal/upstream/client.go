// Package upstream is the HTTP client for the remote booking API. The
// engine treats that API as an external collaborator whose payload shapes
// it does not control: every response body is decoded loosely and handed
// to the normalizer, which owns alias and envelope tolerance.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/skyvoyage/flight-booking-backend/internal/models"
	"github.com/skyvoyage/flight-booking-backend/internal/normalize"
)

// ValidationError carries an upstream validation rejection (HTTP 422 or a
// non-success envelope). Its message is surfaced to the user verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConnectivityError wraps transport-level and unexpected upstream
// failures; users get a generic retry message instead of its detail.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("booking API unreachable: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// BookingAPI is the collaborator boundary consumed by the handlers.
type BookingAPI interface {
	// FetchAirports retrieves the airport reference list.
	FetchAirports(ctx context.Context) ([]models.Airport, error)

	// SearchFlights retrieves flights matching the filter.
	SearchFlights(ctx context.Context, filter models.SearchFilter) ([]models.Flight, error)

	// FetchFlightDetail retrieves one flight with its seat manifest.
	FetchFlightDetail(ctx context.Context, flightID int64) (models.Flight, []models.Seat, error)

	// SubmitTransaction submits the final booking payload. A rejection is
	// returned as *ValidationError, anything else as *ConnectivityError.
	SubmitTransaction(ctx context.Context, req models.TransactionRequest) error
}

// Client implements BookingAPI over HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a new booking API client
func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FetchAirports retrieves and normalizes the airport list.
func (c *Client) FetchAirports(ctx context.Context) ([]models.Airport, error) {
	body, err := c.getJSON(ctx, "/airports", nil)
	if err != nil {
		return nil, err
	}

	records := normalize.UnwrapAirportList(body)
	airports := make([]models.Airport, 0, len(records))
	for _, raw := range records {
		airports = append(airports, normalize.NormalizeAirport(raw))
	}

	c.logger.WithField("count", len(airports)).Debug("Airports fetched")
	return airports, nil
}

// SearchFlights retrieves and normalizes the flight list for a filter.
// All filter fields are optional upstream.
func (c *Client) SearchFlights(ctx context.Context, filter models.SearchFilter) ([]models.Flight, error) {
	params := url.Values{}
	if filter.OriginAirportID != 0 {
		params.Set("departure_airport_id", strconv.FormatInt(filter.OriginAirportID, 10))
	}
	if filter.DestinationAirportID != 0 {
		params.Set("arrival_airport_id", strconv.FormatInt(filter.DestinationAirportID, 10))
	}
	if filter.Date != "" {
		params.Set("date", filter.Date)
	}

	body, err := c.getJSON(ctx, "/flights", params)
	if err != nil {
		return nil, err
	}

	records := normalize.UnwrapFlightList(body)
	flights := make([]models.Flight, 0, len(records))
	for _, raw := range records {
		flights = append(flights, normalize.NormalizeFlight(raw))
	}

	c.logger.WithFields(logrus.Fields{
		"count": len(flights),
		"date":  filter.Date,
	}).Debug("Flights fetched")
	return flights, nil
}

// FetchFlightDetail retrieves one flight and extracts whatever seat
// manifest the response carries, at any of the known nesting paths.
func (c *Client) FetchFlightDetail(ctx context.Context, flightID int64) (models.Flight, []models.Seat, error) {
	body, err := c.getJSON(ctx, fmt.Sprintf("/flights/%d", flightID), nil)
	if err != nil {
		return models.Flight{}, nil, err
	}

	raw := normalize.UnwrapFlightDetail(body)
	if raw == nil {
		return models.Flight{}, nil, &ValidationError{Message: "Flight not found or unavailable."}
	}

	flight := normalize.NormalizeFlight(raw)
	seats := normalize.ExtractSeats(body, raw)

	if len(seats) == 0 {
		c.logger.WithField("flight_id", flightID).Warn("Flight detail carried no seat manifest")
	}
	return flight, seats, nil
}

// SubmitTransaction posts the booking payload to the transaction API.
func (c *Client) SubmitTransaction(ctx context.Context, txReq models.TransactionRequest) error {
	payload, err := json.Marshal(txReq)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create transaction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && resp.StatusCode == http.StatusOK {
		return &ConnectivityError{Err: fmt.Errorf("failed to decode transaction response: %w", err)}
	}

	// 422 and non-success envelopes are validation rejections whose
	// message reaches the user verbatim; everything else is connectivity.
	if resp.StatusCode == http.StatusUnprocessableEntity {
		msg := normalize.ResponseMessage(body)
		if msg == "" {
			msg = "Data validation failed."
		}
		return &ValidationError{Message: msg}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &ConnectivityError{Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	if !normalize.ResponseOK(body) {
		msg := normalize.ResponseMessage(body)
		if msg == "" {
			msg = "System rejection."
		}
		return &ValidationError{Message: msg}
	}

	c.logger.WithFields(logrus.Fields{
		"flight_id":  txReq.FlightID,
		"passengers": len(txReq.Passengers),
	}).Info("Transaction submitted")
	return nil
}

// getJSON performs a GET and decodes the body loosely. Non-2xx statuses
// and malformed bodies count as connectivity failures during the browse
// steps; callers surface a retry affordance.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values) (any, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ConnectivityError{Err: fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)}
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &ConnectivityError{Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return body, nil
}
