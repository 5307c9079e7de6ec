package main

import (
	"context"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// validInputs holds valid raw values of all biomarkers
var validInputs = map[Biomarker]string{
	Age:         "52",
	Albumin:     "45.1",
	Creatinine:  "80",
	Glucose:     "5.2",
	LnCRP:       "-0.5",
	Lymphocytes: "30",
	MCV:         "90.5",
	RDW:         "13",
	ALP:         "70",
	WBC:         "6.1",
}

// validValues holds numeric values of validInputs
var validValues = BiomarkerValues{
	Age:         52,
	Albumin:     45.1,
	Creatinine:  80,
	Glucose:     5.2,
	LnCRP:       -0.5,
	Lymphocytes: 30,
	MCV:         90.5,
	RDW:         13,
	ALP:         70,
	WBC:         6.1,
}

// fakePredictor records prediction calls and returns fixed outcome
type fakePredictor struct {
	mu    sync.Mutex
	calls []BiomarkerValues
	value float64
	err   error
}

func (p *fakePredictor) Predict(ctx context.Context, values BiomarkerValues) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, values)
	return p.value, p.err
}

func (p *fakePredictor) Calls() []BiomarkerValues {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// blockingPredictor blocks every prediction until value is released
type blockingPredictor struct {
	started chan struct{}
	release chan float64
}

func newBlockingPredictor() *blockingPredictor {
	return &blockingPredictor{
		started: make(chan struct{}, 1),
		release: make(chan float64),
	}
}

func (p *blockingPredictor) Predict(ctx context.Context, values BiomarkerValues) (float64, error) {
	p.started <- struct{}{}
	return <-p.release, nil
}

// helper function to fill form with valid inputs
func fillForm(t *testing.T, form *BiomarkerForm) {
	t.Helper()
	for key, val := range validInputs {
		require.NoError(t, form.UpdateField(key, val))
	}
}

// helper function to initialize test configuration
func initTestConfig() {
	Config = Configuration{LimiterPeriod: "1000-S"}
	Config.setDefaults()
	// use verbose log flags
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// helper function to start test server with given prediction endpoint,
// it returns server and HTTP client which keeps visit cookies
func initTestServer(t *testing.T, predictURL string) (*httptest.Server, *http.Client) {
	t.Helper()
	initTestConfig()
	Config.PredictURL = predictURL
	require.NoError(t, initLimiter(Config.LimiterPeriod))
	require.NoError(t, initVisits(NewMLClient(Config.PredictURL, 0)))
	t.Cleanup(visits.Close)

	server := httptest.NewServer(bunRouter())
	t.Cleanup(server.Close)
	return server, newTestClient(t)
}

// helper function to create HTTP client with its own cookie jar, i.e.
// every client represents separate visit
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}
