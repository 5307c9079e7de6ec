package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sessions "github.com/dghubble/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper function to create test visit store
func testVisitStore(t *testing.T, secret string) *VisitStore {
	t.Helper()
	store, err := NewVisitStore(&fakePredictor{value: 40}, 100, time.Minute, sessions.DebugCookieConfig, []byte(secret))
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

// TestNewVisitStore
func TestNewVisitStore(t *testing.T) {
	_, err := NewVisitStore(&fakePredictor{}, 0, time.Minute, sessions.DebugCookieConfig, []byte("secret"))
	assert.Error(t, err)
}

// TestVisitStoreGet
func TestVisitStoreGet(t *testing.T) {
	store := testVisitStore(t, "secret")
	visit := store.NewVisit()
	require.NotEmpty(t, visit.ID)
	require.NotNil(t, visit.Form)

	found, ok := store.Get(visit.ID)
	require.True(t, ok)
	assert.Same(t, visit, found)

	_, ok = store.Get("unknown")
	assert.False(t, ok)
}

// TestVisitCookie
func TestVisitCookie(t *testing.T) {
	store := testVisitStore(t, "secret")

	// first request creates visit and its cookie
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	visit, err := store.Visit(w, r)
	require.NoError(t, err)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionName, cookies[0].Name)

	// following request with the cookie gets the same visit
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	same, err := store.Visit(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Same(t, visit, same)

	// cookie signed with another secret starts new visit
	other := testVisitStore(t, "another secret")
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookies[0])
	fresh, err := other.Visit(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.NotEqual(t, visit.ID, fresh.ID)
}

// TestVisitNotices
func TestVisitNotices(t *testing.T) {
	store := testVisitStore(t, "secret")
	visit := store.NewVisit()
	assert.False(t, visit.Form.Validate())
	notices := visit.Toasts.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Missing Input", notices[0].Title)
}
