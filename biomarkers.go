package main

// biomarkers module holds biomarker meta-data and input representations
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Biomarker represents biomarker key used by prediction endpoint
type Biomarker string

const (
	Age         Biomarker = "age"          // patient age
	Albumin     Biomarker = "albumin_gL"   // serum albumin
	Creatinine  Biomarker = "creat_umol"   // serum creatinine
	Glucose     Biomarker = "glucose_mmol" // blood glucose
	LnCRP       Biomarker = "lncrp"        // natural log of CRP
	Lymphocytes Biomarker = "lymph"        // lymphocyte percentage
	MCV         Biomarker = "mcv"          // mean corpuscular volume
	RDW         Biomarker = "rdw"          // red cell distribution width
	ALP         Biomarker = "alp"          // alkaline phosphatase
	WBC         Biomarker = "wbc"          // white blood cell count
)

// BiomarkerInfo represents static description of a biomarker
type BiomarkerInfo struct {
	Key         Biomarker `json:"key"`         // biomarker key
	Label       string    `json:"label"`       // human readable label
	Unit        string    `json:"unit"`        // measurement unit
	Description string    `json:"description"` // biomarker description
}

// Biomarkers defines ordered biomarker table, the order is used for
// rendering and validation
var Biomarkers = []BiomarkerInfo{
	{Age, "Age", "years", "Patient age in years"},
	{Albumin, "Albumin", "g/L", "Serum albumin concentration"},
	{Creatinine, "Creatinine", "μmol/L", "Serum creatinine level"},
	{Glucose, "Glucose", "mmol/L", "Blood glucose level"},
	{LnCRP, "ln(CRP)", "", "Natural log of C-reactive protein"},
	{Lymphocytes, "Lymphocytes", "%", "Lymphocyte percentage"},
	{MCV, "MCV", "fL", "Mean corpuscular volume"},
	{RDW, "RDW", "%", "Red blood cell distribution width"},
	{ALP, "ALP", "U/L", "Alkaline phosphatase level"},
	{WBC, "WBC", "×10⁹/L", "White blood cell count"},
}

// Errors of biomarker inputs
var (
	ErrUnknownBiomarker = errors.New("unknown biomarker")
	ErrMissingField     = errors.New("missing input")
	ErrNonNumericField  = errors.New("invalid input")
)

// Info returns meta-data of the biomarker
func (b Biomarker) Info() (BiomarkerInfo, bool) {
	for _, info := range Biomarkers {
		if info.Key == b {
			return info, true
		}
	}
	return BiomarkerInfo{}, false
}

// Label returns biomarker label or its key if biomarker is unknown
func (b Biomarker) Label() string {
	if info, ok := b.Info(); ok {
		return info.Label
	}
	return string(b)
}

// ParseBiomarker converts given string into known biomarker key
func ParseBiomarker(key string) (Biomarker, error) {
	b := Biomarker(key)
	if _, ok := b.Info(); !ok {
		return b, fmt.Errorf("%w: %s", ErrUnknownBiomarker, key)
	}
	return b, nil
}

// FieldError represents validation error of a single biomarker field
type FieldError struct {
	Field Biomarker // failed biomarker
	Err   error     // ErrMissingField or ErrNonNumericField
}

// Error implements error interface
func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrMissingField) {
		return fmt.Sprintf("Please enter a value for %s", e.Field.Label())
	}
	return fmt.Sprintf("%s must be a valid number", e.Field.Label())
}

// Unwrap returns underlying error kind
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Title returns notice title for the error kind
func (e *FieldError) Title() string {
	if errors.Is(e.Err, ErrMissingField) {
		return "Missing Input"
	}
	return "Invalid Input"
}

// BiomarkerInputs represents raw user entries for all biomarkers
type BiomarkerInputs map[Biomarker]string

// NewBiomarkerInputs returns inputs with all biomarkers set to empty string
func NewBiomarkerInputs() BiomarkerInputs {
	inputs := make(BiomarkerInputs, len(Biomarkers))
	for _, info := range Biomarkers {
		inputs[info.Key] = ""
	}
	return inputs
}

// Set stores raw value for given biomarker, unknown keys are rejected
func (in BiomarkerInputs) Set(key Biomarker, value string) error {
	if _, ok := key.Info(); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBiomarker, key)
	}
	in[key] = value
	return nil
}

// Reset sets all biomarkers to empty string
func (in BiomarkerInputs) Reset() {
	for _, info := range Biomarkers {
		in[info.Key] = ""
	}
}

// Copy returns independent copy of inputs
func (in BiomarkerInputs) Copy() BiomarkerInputs {
	out := make(BiomarkerInputs, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Check validates inputs in table order and returns first failure
func (in BiomarkerInputs) Check() error {
	for _, info := range Biomarkers {
		value := strings.TrimSpace(in[info.Key])
		if value == "" {
			return &FieldError{Field: info.Key, Err: ErrMissingField}
		}
		if _, err := parseNumber(value); err != nil {
			return &FieldError{Field: info.Key, Err: ErrNonNumericField}
		}
	}
	return nil
}

// Values converts inputs into numeric biomarker values
func (in BiomarkerInputs) Values() (BiomarkerValues, error) {
	if err := in.Check(); err != nil {
		return nil, err
	}
	values := make(BiomarkerValues, len(Biomarkers))
	for _, info := range Biomarkers {
		val, _ := parseNumber(strings.TrimSpace(in[info.Key]))
		values[info.Key] = val
	}
	return values, nil
}

// BiomarkerValues represents numeric biomarker values sent to prediction endpoint
type BiomarkerValues map[Biomarker]float64

// helper function to parse finite float number
func parseNumber(s string) (float64, error) {
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, fmt.Errorf("not a finite number %q", s)
	}
	return val, nil
}
