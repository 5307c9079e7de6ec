package main

// form module implements biomarker form: input state, validation,
// prediction request and result
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// StatusSuccess is the status of successful prediction
const StatusSuccess = "success"

// Errors of prediction flow
var (
	ErrPredictionInFlight = errors.New("prediction is already in progress")
	ErrFormReset          = errors.New("form was reset while prediction was in progress")
)

// PredictionResult represents outcome of successful prediction
type PredictionResult struct {
	Prediction float64  `json:"prediction"`           // predicted biological age
	Confidence *float64 `json:"confidence,omitempty"` // reserved, not provided by endpoint
	Status     string   `json:"status"`               // prediction status
}

// Years returns prediction formatted for display
func (p PredictionResult) Years() string {
	return fmt.Sprintf("%.2f years", p.Prediction)
}

// FormState represents snapshot of the form
type FormState struct {
	Inputs  BiomarkerInputs   `json:"inputs"`            // raw user inputs
	Result  *PredictionResult `json:"result"`            // last prediction result
	Loading bool              `json:"loading"`           // prediction is in flight
	Notices []Notice          `json:"notices,omitempty"` // pending notices
}

// BiomarkerForm holds state of a single form instance
type BiomarkerForm struct {
	mu       sync.Mutex
	inputs   BiomarkerInputs
	result   *PredictionResult
	loading  bool
	gen      uint64 // incremented on every reset
	client   Predictor
	notifier Notifier
}

// NewBiomarkerForm creates new form with empty inputs
func NewBiomarkerForm(client Predictor, notifier Notifier) *BiomarkerForm {
	if notifier == nil {
		notifier = NotifierFunc(func(NoticeKind, string, string) {})
	}
	return &BiomarkerForm{
		inputs:   NewBiomarkerInputs(),
		client:   client,
		notifier: notifier,
	}
}

// UpdateField stores raw value of given biomarker
func (f *BiomarkerForm) UpdateField(key Biomarker, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inputs.Set(key, value)
}

// Validate checks all inputs and notifies user about the first failure
func (f *BiomarkerForm) Validate() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validate() == nil
}

// helper function to check inputs and report the first failure,
// it should be called with f.mu held
func (f *BiomarkerForm) validate() error {
	err := f.inputs.Check()
	f.report(err)
	return err
}

// helper function to notify user about validation error
func (f *BiomarkerForm) report(err error) bool {
	if err == nil {
		return true
	}
	var ferr *FieldError
	if errors.As(err, &ferr) {
		f.notifier.Notify(NoticeDestructive, ferr.Title(), ferr.Error())
	}
	return false
}

// SubmitPrediction validates inputs and requests prediction from the
// prediction endpoint. Only one prediction per form may be in flight.
func (f *BiomarkerForm) SubmitPrediction(ctx context.Context) (*PredictionResult, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		f.notifier.Notify(NoticeWarning, "Prediction In Progress", "Please wait for the current prediction to finish")
		return nil, ErrPredictionInFlight
	}
	if err := f.validate(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	values, err := f.inputs.Values()
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	f.loading = true
	f.result = nil
	gen := f.gen
	f.mu.Unlock()

	prediction, err := f.client.Predict(ctx, values)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false
	if err != nil {
		log.Printf("ERROR: prediction error %v", err)
		f.result = nil
		f.notifier.Notify(NoticeDestructive, "Prediction Failed", "Please check your API endpoint and try again")
		return nil, err
	}
	if f.gen != gen {
		if Config.Verbose > 0 {
			log.Printf("discard prediction %v, form was reset", prediction)
		}
		return nil, ErrFormReset
	}
	f.result = &PredictionResult{Prediction: prediction, Status: StatusSuccess}
	f.notifier.Notify(NoticeDefault, "Prediction Complete", "Phenoage prediction calculated successfully")
	res := *f.result
	return &res, nil
}

// ResetForm clears all inputs and result
func (f *BiomarkerForm) ResetForm() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs.Reset()
	f.result = nil
	f.gen++
}

// Loading reports if prediction is in flight
func (f *BiomarkerForm) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// State returns snapshot of the form
func (f *BiomarkerForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := FormState{Inputs: f.inputs.Copy(), Loading: f.loading}
	if f.result != nil {
		res := *f.result
		state.Result = &res
	}
	return state
}
