package main

// client functions for ML prediction endpoint
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dghubble/sling"
)

// PredictionKey is the response field which holds predicted biological age
const PredictionKey = "Predicted Biological Age of Patient"

// DefaultPredictURL defines default prediction endpoint
const DefaultPredictURL = "https://biological-age-prediction.onrender.com/predict"

// Errors of prediction endpoint
var (
	ErrPredictionFailed  = errors.New("prediction request failed")
	ErrMalformedResponse = errors.New("malformed prediction response")
)

// Predictor represents prediction endpoint
type Predictor interface {
	Predict(ctx context.Context, values BiomarkerValues) (float64, error)
}

// predictResponse represents JSON response of prediction endpoint
type predictResponse struct {
	Age *float64 `json:"Predicted Biological Age of Patient"`
}

// MLClient implements Predictor for remote HTTP endpoint
type MLClient struct {
	URI   string       // prediction endpoint
	sling *sling.Sling // base request builder
}

// NewMLClient creates new client for given endpoint, zero timeout means
// no timeout
func NewMLClient(uri string, timeout time.Duration) *MLClient {
	client := &http.Client{
		Timeout: timeout,
	}
	return &MLClient{
		URI:   uri,
		sling: sling.New().Client(client),
	}
}

// Predict sends biomarker values to prediction endpoint and returns
// predicted biological age
func (c *MLClient) Predict(ctx context.Context, values BiomarkerValues) (float64, error) {
	req, err := c.sling.New().Post(c.URI).BodyJSON(values).Request()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if Config.Verbose > 0 {
		log.Printf("POST request to %s with values %+v", c.URI, values)
	}
	var rec predictResponse
	rsp, err := c.sling.Do(req.WithContext(ctx), &rec, nil)
	if rsp == nil {
		return 0, fmt.Errorf("%w: %v", ErrPredictionFailed, err)
	}
	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: response status %s", ErrPredictionFailed, rsp.Status)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if rec.Age == nil {
		return 0, fmt.Errorf("%w: no %q field", ErrMalformedResponse, PredictionKey)
	}
	if Config.Verbose > 0 {
		log.Printf("prediction response %v", *rec.Age)
	}
	return *rec.Age, nil
}
