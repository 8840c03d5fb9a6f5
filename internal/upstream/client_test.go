package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyvoyage/flight-booking-backend/internal/models"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(server.URL, 5*time.Second, logger), server
}

func TestFetchAirports(t *testing.T) {
	t.Run("EnvelopedList", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/airports", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": true, "data": [
				{"id": 1, "name": "Soekarno-Hatta", "city": "Jakarta", "iata_code": "CGK"},
				{"id": 2, "name": "Ngurah Rai", "city": "Denpasar", "code": "DPS"}
			]}`))
		})
		defer server.Close()

		airports, err := client.FetchAirports(context.Background())
		require.NoError(t, err)
		require.Len(t, airports, 2)
		assert.Equal(t, "CGK", airports[0].Code)
		assert.Equal(t, "DPS", airports[1].Code)
	})

	t.Run("ServerErrorIsConnectivity", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		defer server.Close()

		_, err := client.FetchAirports(context.Background())
		var connErr *ConnectivityError
		assert.ErrorAs(t, err, &connErr)
	})
}

func TestSearchFlights(t *testing.T) {
	client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flights", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("departure_airport_id"))
		assert.Equal(t, "2", r.URL.Query().Get("arrival_airport_id"))
		assert.Equal(t, "2026-03-01", r.URL.Query().Get("date"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"data": [
			{"id": 10, "flight_number": "GA-204", "airline": {"name": "Garuda"},
			 "classes": [{"id": 1, "class_type": "Economy", "price": 1500000}]}
		]}}`))
	})
	defer server.Close()

	flights, err := client.SearchFlights(context.Background(), models.SearchFilter{
		OriginAirportID:      1,
		DestinationAirportID: 2,
		Date:                 "2026-03-01",
	})
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, int64(10), flights[0].ID)
	assert.Equal(t, "Garuda", flights[0].AirlineName)
	assert.Equal(t, int64(1500000), flights[0].StartingPrice)
}

func TestFetchFlightDetail(t *testing.T) {
	t.Run("FlightWithManifest", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/flights/10", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": {"flight": {"id": 10, "flight_number": "GA-204"},
				"seats": [{"id": 100, "name": "1A", "is_available": true},
				           {"id": 101, "name": "1B", "is_available": false}]}}`))
		})
		defer server.Close()

		flight, seats, err := client.FetchFlightDetail(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), flight.ID)
		require.Len(t, seats, 2)
		assert.False(t, seats[1].Available)
	})

	t.Run("ManifestMayBeAbsent", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": {"id": 10, "flight_number": "GA-204"}}`))
		})
		defer server.Close()

		flight, seats, err := client.FetchFlightDetail(context.Background(), 10)
		require.NoError(t, err)
		assert.Equal(t, int64(10), flight.ID)
		assert.Empty(t, seats)
	})
}

func TestSubmitTransaction(t *testing.T) {
	txRequest := models.TransactionRequest{
		FlightID:      10,
		FlightClassID: 1,
		Name:          "Siti Rahma",
		Email:         "siti@example.com",
		Phone:         "081234567890",
		Passengers: []models.TransactionPassenger{
			{Name: "Siti Rahma", DateOfBirth: "1992-04-17", Nationality: "Indonesia", SeatNumber: "5A"},
		},
		PaymentMethod: "credit_card",
	}

	t.Run("Success", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transactions", r.URL.Path)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success": true, "data": {"transaction_id": 900}}`))
		})
		defer server.Close()

		assert.NoError(t, client.SubmitTransaction(context.Background(), txRequest))
	})

	t.Run("UnprocessableCarriesMessageVerbatim", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"success": false, "message": "Seat 5A was just booked by another user"}`))
		})
		defer server.Close()

		err := client.SubmitTransaction(context.Background(), txRequest)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Seat 5A was just booked by another user", validationErr.Message)
	})

	t.Run("UnprocessableWithoutMessage", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{}`))
		})
		defer server.Close()

		err := client.SubmitTransaction(context.Background(), txRequest)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Data validation failed.", validationErr.Message)
	})

	t.Run("NonSuccessEnvelopeIsValidation", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success": false, "message": "Promo code expired"}`))
		})
		defer server.Close()

		err := client.SubmitTransaction(context.Background(), txRequest)
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Promo code expired", validationErr.Message)
	})

	t.Run("ServerErrorIsConnectivity", func(t *testing.T) {
		client, server := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		defer server.Close()

		err := client.SubmitTransaction(context.Background(), txRequest)
		var connErr *ConnectivityError
		require.ErrorAs(t, err, &connErr)
		var validationErr *ValidationError
		assert.False(t, errors.As(err, &validationErr))
	})

	t.Run("UnreachableHostIsConnectivity", func(t *testing.T) {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		client := NewClient("http://127.0.0.1:1", time.Second, logger)

		err := client.SubmitTransaction(context.Background(), txRequest)
		var connErr *ConnectivityError
		assert.ErrorAs(t, err, &connErr)
	})
}
