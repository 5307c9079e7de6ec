package main

// handlers module holds all HTTP handlers functions
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/bunrouter"
)

// errBadRequest represents malformed client request
var errBadRequest = errors.New("bad request")

// HTTPResponse rpresents HTTP JSON response
type HTTPResponse struct {
	Method         string `json:"method"`           // HTTP method
	Path           string `json:"path"`             // URL path
	UserAgent      string `json:"user_agent"`       // http user-agent field
	XForwardedHost string `json:"x_forwarded_host"` // http.Request X-Forwarded-Host
	XForwardedFor  string `json:"x_forwarded_for"`  // http.Request X-Forwarded-For
	RemoteAddr     string `json:"remote_addr"`      // http.Request remote address
	HTTPCode       int    `json:"http_code"`        // HTTP error code
	Code           int    `json:"code"`             // server status code
	Reason         string `json:"reason"`           // error code reason
	Timestamp      string `json:"timestamp"`        // timestamp of the error
	Response       string `json:"response"`         // response message
	Error          string `json:"error"`            // error message
	ElapsedTime    string `json:"elapsed_time"`     // elapsed time of HTTP request
}

// FormResponse represents JSON response of form APIs
type FormResponse struct {
	FormState
	Code   int    `json:"code,omitempty"`   // server status code
	Reason string `json:"reason,omitempty"` // error code reason
	Error  string `json:"error,omitempty"`  // error message
}

// fieldView represents biomarker input field on web page
type fieldView struct {
	BiomarkerInfo
	Value string // raw user input
}

// helper function to check if client asks for JSON
func acceptJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// helper function to check if HTTP request contains JSON body
func jsonBody(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}

// helper function to check if HTTP request contains form-data
func formData(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "form-data")
}

// helper function to parse given template and return HTML page
func tmplPage(tmpl string, tmplData TmplRecord) string {
	if tmplData == nil {
		tmplData = make(TmplRecord)
	}
	var templates Templates
	page, err := templates.Tmpl(tmpl, tmplData)
	if err != nil {
		log.Printf("ERROR: unable to render template %s, error %v", tmpl, err)
	}
	return page
}

// helper function to write JSON response
func writeJSON(w http.ResponseWriter, httpCode int, rec any) {
	data, err := json.MarshalIndent(rec, "", "   ")
	if err != nil {
		httpCode = http.StatusInternalServerError
		data = []byte(err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	w.Write(data)
}

// helper function to generate HTML or JSON response
func httpResponse(w http.ResponseWriter, r *http.Request, tmpl TmplRecord) {
	httpCode := tmpl.GetInt("HttpCode")
	code := tmpl.GetInt("Code")
	content := tmpl.GetString("Content")
	tmpl["ElapsedTime"] = tmpl.GetElapsedTime()
	if !acceptJSON(r) {
		// regenerate top part since we may change the title
		top := tmplPage("top.tmpl", tmpl)
		bottom := tmplPage("bottom.tmpl", tmpl)
		page := tmplPage(tmpl.GetString("Template"), tmpl)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if httpCode != 0 {
			w.WriteHeader(httpCode)
		}
		w.Write([]byte(top + page + bottom))
		return
	}
	if httpCode == 0 {
		httpCode = http.StatusOK
	}
	hrec := HTTPResponse{
		Method:         r.Method,
		Path:           r.RequestURI,
		RemoteAddr:     r.RemoteAddr,
		XForwardedFor:  r.Header.Get("X-Forwarded-For"),
		XForwardedHost: r.Header.Get("X-Forwarded-Host"),
		UserAgent:      r.Header.Get("User-agent"),
		Timestamp:      time.Now().String(),
		Code:           code,
		Reason:         errorMessage(code),
		HTTPCode:       httpCode,
		Response:       content,
		Error:          tmpl.GetError(),
		ElapsedTime:    tmpl.GetString("ElapsedTime"),
	}
	if Config.Verbose > 0 {
		log.Printf("HTTPResponse: %+v", hrec)
	}
	writeJSON(w, httpCode, hrec)
}

// helper function to provide standard HTTP error reply
func httpError(w http.ResponseWriter, r *http.Request, tmpl TmplRecord, code int, err error, httpCode int) {
	tmpl["Code"] = code
	tmpl["Reason"] = errorMessage(code)
	tmpl["Error"] = err
	tmpl["HttpCode"] = httpCode
	tmpl["Content"] = err.Error()
	tmpl["Template"] = "error.tmpl"
	httpResponse(w, r, tmpl)
}

// helper function to make initial template struct
func makeTmpl(title string) TmplRecord {
	tmpl := make(TmplRecord)
	tmpl["Title"] = title
	tmpl["Base"] = Config.Base
	tmpl["ServerInfo"] = info()
	tmpl["StartTime"] = time.Now()
	return tmpl
}

// helper function to reply with form state either as web page or JSON
func formResponse(w http.ResponseWriter, r *http.Request, tmpl TmplRecord, visit *Visit, err error) {
	code, httpCode := errorCode(err)
	state := visit.Form.State()
	state.Notices = visit.Toasts.Drain()
	if acceptJSON(r) {
		rec := FormResponse{FormState: state, Code: code, Reason: errorMessage(code)}
		if err != nil {
			rec.Error = err.Error()
		}
		writeJSON(w, httpCode, rec)
		return
	}
	var fields []fieldView
	for _, info := range Biomarkers {
		fields = append(fields, fieldView{BiomarkerInfo: info, Value: state.Inputs[info.Key]})
	}
	tmpl["Fields"] = fields
	tmpl["Result"] = state.Result
	tmpl["Loading"] = state.Loading
	tmpl["Notices"] = state.Notices
	tmpl["ElapsedTime"] = tmpl.GetElapsedTime()
	tmpl["Form"] = template.HTML(tmplPage("form.tmpl", tmpl))
	tmpl["Template"] = "index.tmpl"
	tmpl["HttpCode"] = httpCode
	httpResponse(w, r, tmpl)
}

// helper function to get visit of HTTP request
func getVisit(w http.ResponseWriter, r *http.Request, tmpl TmplRecord) (*Visit, bool) {
	visit, err := visits.Visit(w, r)
	if err != nil {
		log.Printf("ERROR: unable to save visit session, error %v", err)
		httpError(w, r, tmpl, SessionError, err, http.StatusInternalServerError)
		return nil, false
	}
	return visit, true
}

// helper function to convert JSON value into raw input string
func rawValue(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case json.Number:
		return val.String(), nil
	}
	return "", fmt.Errorf("%w: unsupported value %v", errBadRequest, v)
}

// helper function to apply biomarker values of HTTP request to the form
func applyFields(r *http.Request, form *BiomarkerForm) error {
	if jsonBody(r) {
		rec := make(map[string]any)
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&rec); err != nil {
			return fmt.Errorf("%w: %v", errBadRequest, err)
		}
		// check all values before touching the form
		inputs := make(map[Biomarker]string, len(rec))
		for key, val := range rec {
			b, err := ParseBiomarker(key)
			if err != nil {
				return err
			}
			raw, err := rawValue(val)
			if err != nil {
				return err
			}
			inputs[b] = raw
		}
		for _, info := range Biomarkers {
			if raw, ok := inputs[info.Key]; ok {
				if err := form.UpdateField(info.Key, raw); err != nil {
					return err
				}
			}
		}
		return nil
	}
	var err error
	if formData(r) {
		err = r.ParseMultipartForm(32 << 20) // maxMemory
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	for _, info := range Biomarkers {
		if vals, ok := r.PostForm[string(info.Key)]; ok && len(vals) > 0 {
			if err := form.UpdateField(info.Key, vals[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

// FaviconHandler serves favicon
func FaviconHandler(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(StaticFs, "static/images/favicon.svg")
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(data)
}

// IndexHandler renders page shell with biomarker form
func IndexHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage Prediction Using AI")
	visit, ok := getVisit(w, r, tmpl)
	if !ok {
		return
	}
	formResponse(w, r, tmpl, visit, nil)
}

// PredictHandler applies submitted biomarkers and requests prediction
func PredictHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage Prediction Using AI")
	visit, ok := getVisit(w, r, tmpl)
	if !ok {
		return
	}
	if err := applyFields(r, visit.Form); err != nil {
		formResponse(w, r, tmpl, visit, err)
		return
	}
	_, err := visit.Form.SubmitPrediction(r.Context())
	if err != nil && Config.Verbose > 0 {
		log.Printf("visit %s prediction error %v", visit.ID, err)
	}
	formResponse(w, r, tmpl, visit, err)
}

// ResetHandler clears biomarker form
func ResetHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage Prediction Using AI")
	visit, ok := getVisit(w, r, tmpl)
	if !ok {
		return
	}
	visit.Form.ResetForm()
	formResponse(w, r, tmpl, visit, nil)
}

// FieldHandler updates single biomarker of the form
func FieldHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage Prediction Using AI")
	visit, ok := getVisit(w, r, tmpl)
	if !ok {
		return
	}
	params := bunrouter.ParamsFromContext(r.Context())
	key, err := ParseBiomarker(params.ByName("field"))
	if err != nil {
		formResponse(w, r, tmpl, visit, err)
		return
	}
	var value string
	if jsonBody(r) {
		var rec struct {
			Value any `json:"value"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.UseNumber()
		if err := decoder.Decode(&rec); err != nil {
			formResponse(w, r, tmpl, visit, fmt.Errorf("%w: %v", errBadRequest, err))
			return
		}
		if value, err = rawValue(rec.Value); err != nil {
			formResponse(w, r, tmpl, visit, err)
			return
		}
	} else {
		value = r.FormValue("value")
	}
	err = visit.Form.UpdateField(key, value)
	formResponse(w, r, tmpl, visit, err)
}

// FormHandler provides JSON state of the visit form
func FormHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage form")
	visit, ok := getVisit(w, r, tmpl)
	if !ok {
		return
	}
	state := visit.Form.State()
	state.Notices = visit.Toasts.Drain()
	writeJSON(w, http.StatusOK, FormResponse{FormState: state})
}

// BiomarkersHandler provides information about supported biomarkers
func BiomarkersHandler(w http.ResponseWriter, r *http.Request) {
	if acceptJSON(r) {
		writeJSON(w, http.StatusOK, Biomarkers)
		return
	}
	tmpl := makeTmpl("Phenoage biomarkers")
	tmpl["Content"] = template.HTML(mdRender(biomarkersMarkdown()))
	tmpl["Template"] = "docs.tmpl"
	httpResponse(w, r, tmpl)
}

// DocsHandler provides documentation of the server
func DocsHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage documentation")
	content, err := mdToHTML("docs.md")
	if err != nil {
		httpError(w, r, tmpl, FileIOError, err, http.StatusInternalServerError)
		return
	}
	content += mdRender(biomarkersMarkdown())
	tmpl["Content"] = template.HTML(content)
	tmpl["Template"] = "docs.tmpl"
	httpResponse(w, r, tmpl)
}

// StatusHandler provides status of the server
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	tmpl := makeTmpl("Phenoage status")
	if acceptJSON(r) {
		rec := map[string]any{
			"server":          info(),
			"predict_url":     Config.PredictURL,
			"predict_timeout": Config.PredictTimeoutDuration().String(),
			"visit_ttl":       Config.VisitTTLDuration().String(),
		}
		writeJSON(w, http.StatusOK, rec)
		return
	}
	tmpl["PredictURL"] = Config.PredictURL
	tmpl["PredictTimeout"] = Config.PredictTimeoutDuration().String()
	tmpl["VisitTTL"] = Config.VisitTTLDuration().String()
	tmpl["Template"] = "status.tmpl"
	httpResponse(w, r, tmpl)
}
