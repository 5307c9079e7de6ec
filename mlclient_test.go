package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to start fake prediction endpoint
func predictEndpoint(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		rec := make(map[string]float64)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rec))
		assert.Len(t, rec, 10)
		for key, val := range validValues {
			assert.Equal(t, val, rec[string(key)], "biomarker %s", key)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

// TestMLClientPredict
func TestMLClientPredict(t *testing.T) {
	server, calls := predictEndpoint(t, http.StatusOK, `{"Predicted Biological Age of Patient": 42.5}`)
	client := NewMLClient(server.URL+"/predict", 0)

	age, err := client.Predict(context.Background(), validValues)
	require.NoError(t, err)
	assert.Equal(t, 42.5, age)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

// TestMLClientStatus
func TestMLClientStatus(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		server, calls := predictEndpoint(t, status, `{"Predicted Biological Age of Patient": 42.5}`)
		client := NewMLClient(server.URL+"/predict", 0)

		_, err := client.Predict(context.Background(), validValues)
		assert.ErrorIs(t, err, ErrPredictionFailed)
		assert.NotErrorIs(t, err, ErrMalformedResponse)
		assert.Equal(t, int32(1), atomic.LoadInt32(calls))
	}
}

// TestMLClientMalformedResponse
func TestMLClientMalformedResponse(t *testing.T) {
	bodies := []string{
		`{"prediction": 42.5}`,
		`{"Predicted Biological Age of Patient": "old"}`,
		`42.5`,
		`not json`,
		``,
	}
	for _, body := range bodies {
		server, _ := predictEndpoint(t, http.StatusOK, body)
		client := NewMLClient(server.URL+"/predict", 0)

		_, err := client.Predict(context.Background(), validValues)
		assert.ErrorIs(t, err, ErrMalformedResponse, "body %q", body)
	}
}

// TestMLClientTransport
func TestMLClientTransport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	uri := server.URL + "/predict"
	server.Close()

	client := NewMLClient(uri, time.Second)
	_, err := client.Predict(context.Background(), validValues)
	assert.ErrorIs(t, err, ErrPredictionFailed)
}

// TestMLClientTimeout
func TestMLClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewMLClient(server.URL+"/predict", 50*time.Millisecond)
	_, err := client.Predict(context.Background(), validValues)
	assert.ErrorIs(t, err, ErrPredictionFailed)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client = NewMLClient(server.URL+"/predict", 0)
	_, err = client.Predict(ctx, validValues)
	assert.ErrorIs(t, err, ErrPredictionFailed)
}
