package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTmplRecord
func TestTmplRecord(t *testing.T) {
	tmpl := TmplRecord{"Code": 105, "Title": "title", "Error": nil}
	assert.Equal(t, 105, tmpl.GetInt("Code"))
	assert.Equal(t, 0, tmpl.GetInt("Title"))
	assert.Equal(t, "title", tmpl.GetString("Title"))
	assert.Equal(t, "", tmpl.GetString("Missing"))
	assert.Equal(t, "", tmpl.GetError())
	assert.Equal(t, "", tmpl.GetElapsedTime())

	tmpl["StartTime"] = time.Now().Add(-time.Second)
	elapsed, err := time.ParseDuration(tmpl.GetElapsedTime())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, elapsed, time.Second)
}

// TestTmplPage
func TestTmplPage(t *testing.T) {
	initTestConfig()
	tmpl := makeTmpl("Phenoage status")
	tmpl["PredictURL"] = Config.PredictURL
	page := tmplPage("status.tmpl", tmpl)
	assert.Contains(t, page, DefaultPredictURL)

	var templates Templates
	_, err := templates.Tmpl("missing.tmpl", tmpl)
	assert.Error(t, err)
}

// TestFormTemplate
func TestFormTemplate(t *testing.T) {
	initTestConfig()
	tmpl := makeTmpl("Phenoage")
	var fields []fieldView
	for _, info := range Biomarkers {
		fields = append(fields, fieldView{BiomarkerInfo: info})
	}
	confidence := 87.0
	tmpl["Fields"] = fields
	tmpl["Loading"] = true
	tmpl["Result"] = &PredictionResult{Prediction: 61.239, Confidence: &confidence, Status: StatusSuccess}
	tmpl["Notices"] = []Notice{{Kind: NoticeWarning, Title: "Prediction In Progress", Message: "wait"}}

	page := tmplPage("form.tmpl", tmpl)
	assert.Contains(t, page, "61.24 years")
	assert.Contains(t, page, "Confidence: 87%")
	assert.Contains(t, page, "Calculating...")
	assert.Contains(t, page, "toast-warning")
	assert.Contains(t, page, "(μmol/L)")
}
