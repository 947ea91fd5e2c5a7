package openmeteo

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestForecast(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		var gotQuery map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"latitude":       r.URL.Query().Get("latitude"),
				"longitude":      r.URL.Query().Get("longitude"),
				"hourly":         r.URL.Query().Get("hourly"),
				"forecast_hours": r.URL.Query().Get("forecast_hours"),
				"timezone":       r.URL.Query().Get("timezone"),
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"hourly":{
				"time":["2025-06-15T12:00","2025-06-15T13:00","2025-06-15T14:00"],
				"precipitation":[0.0,6.2,12.5],
				"precipitation_probability":[10,75,90]
			}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		samples, err := c.Forecast(context.Background(), 19.4326, -99.1332)

		require.NoError(t, err)
		require.Len(t, samples, 3)
		assert.Equal(t, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC), samples[0].Time)
		assert.Equal(t, 6.2, samples[1].Precipitation)
		assert.Equal(t, 75.0, samples[1].Probability)

		assert.Equal(t, "19.4326", gotQuery["latitude"])
		assert.Equal(t, "-99.1332", gotQuery["longitude"])
		assert.Equal(t, "precipitation,precipitation_probability", gotQuery["hourly"])
		assert.Equal(t, "12", gotQuery["forecast_hours"])
		assert.Equal(t, "UTC", gotQuery["timezone"])
	})

	t.Run("column length mismatch", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hourly":{
				"time":["2025-06-15T12:00","2025-06-15T13:00"],
				"precipitation":[0.0],
				"precipitation_probability":[10,75]
			}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Forecast(context.Background(), 19.43, -99.13)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "column length mismatch")
	})

	t.Run("empty hourly block", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hourly":{"time":[],"precipitation":[],"precipitation_probability":[]}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Forecast(context.Background(), 19.43, -99.13)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no hourly samples")
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"reason":"rate limited"}`, http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Forecast(context.Background(), 19.43, -99.13)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 429")
	})

	t.Run("malformed time", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"hourly":{
				"time":["not-a-time"],
				"precipitation":[1.0],
				"precipitation_probability":[50]
			}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Forecast(context.Background(), 19.43, -99.13)
		require.Error(t, err)
	})

	t.Run("context cancellation", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Forecast(ctx, 19.43, -99.13)
		require.Error(t, err)
	})
}

func TestCurrent(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "precipitation,precipitation_probability", r.URL.Query().Get("current"))
			w.Write([]byte(`{"current":{"time":"2025-06-15T12:15","precipitation":2.4,"precipitation_probability":65}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		sample, err := c.Current(context.Background(), 19.43, -99.13)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 6, 15, 12, 15, 0, 0, time.UTC), sample.Time)
		assert.Equal(t, 2.4, sample.Precipitation)
		assert.Equal(t, 65.0, sample.Probability)
	})

	t.Run("malformed time", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"current":{"time":"12:15pm","precipitation":0,"precipitation_probability":0}}`))
		}))
		defer srv.Close()

		c := NewClient(srv.URL, 5*time.Second, testLogger())
		_, err := c.Current(context.Background(), 19.43, -99.13)
		require.Error(t, err)
	})
}
