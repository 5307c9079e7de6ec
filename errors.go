package main

// errors module defines server error codes
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	GenericError           = iota + 100 // generic error
	BadRequest                          // 101 bad request
	JsonMarshal                         // 102 json.Marshal error
	FileIOError                         // 103 file IO error
	SessionError                        // 104 visit session error
	MissingFieldError                   // 105 missing biomarker value
	NonNumericFieldError                // 106 non numeric biomarker value
	UnknownFieldError                   // 107 unknown biomarker
	PredictionError                     // 108 prediction endpoint failure
	MalformedResponseError              // 109 malformed prediction response
	InFlightError                       // 110 prediction is in flight
	FormResetError                      // 111 form reset during prediction
)

// helper function to return human error message for given server error code
func errorMessage(code int) string {
	switch code {
	case 0:
		return ""
	case GenericError:
		return "generic error"
	case BadRequest:
		return "bad request"
	case JsonMarshal:
		return "JSON marshal error"
	case FileIOError:
		return "file IO error"
	case SessionError:
		return "session error"
	case MissingFieldError:
		return "missing input"
	case NonNumericFieldError:
		return "invalid input"
	case UnknownFieldError:
		return "unknown biomarker"
	case PredictionError:
		return "prediction failed"
	case MalformedResponseError:
		return "malformed prediction response"
	case InFlightError:
		return "prediction in progress"
	case FormResetError:
		return "form reset"
	}
	return fmt.Sprintf("Not Implemented error for code %d", code)
}

// helper function to map error into server code and HTTP status code
func errorCode(err error) (int, int) {
	switch {
	case err == nil:
		return 0, http.StatusOK
	case errors.Is(err, errBadRequest):
		return BadRequest, http.StatusBadRequest
	case errors.Is(err, ErrMissingField):
		return MissingFieldError, http.StatusBadRequest
	case errors.Is(err, ErrNonNumericField):
		return NonNumericFieldError, http.StatusBadRequest
	case errors.Is(err, ErrUnknownBiomarker):
		return UnknownFieldError, http.StatusNotFound
	case errors.Is(err, ErrMalformedResponse):
		return MalformedResponseError, http.StatusBadGateway
	case errors.Is(err, ErrPredictionFailed):
		return PredictionError, http.StatusBadGateway
	case errors.Is(err, ErrPredictionInFlight):
		return InFlightError, http.StatusConflict
	case errors.Is(err, ErrFormReset):
		return FormResetError, http.StatusConflict
	}
	return GenericError, http.StatusInternalServerError
}
