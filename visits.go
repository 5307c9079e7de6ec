package main

// visits module keeps biomarker forms of page visits in memory
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"errors"
	"log"
	"net/http"
	"time"

	sessions "github.com/dghubble/sessions"
	"github.com/dgraph-io/ristretto"
	"github.com/google/uuid"
)

const (
	sessionName    = "phenoage-visit"
	sessionVisitID = "visit"
)

// Visit represents single page visit
type Visit struct {
	ID     string         // visit identifier
	Form   *BiomarkerForm // form instance of the visit
	Toasts *Toasts        // pending user notices
}

// VisitStore keeps visits in bounded in-memory cache
type VisitStore struct {
	cache   *ristretto.Cache
	ttl     time.Duration
	client  Predictor
	cookies sessions.Store[string]
}

// NewVisitStore creates new visit store
func NewVisitStore(client Predictor, size int64, ttl time.Duration, cookieConfig *sessions.CookieConfig, secret []byte) (*VisitStore, error) {
	if size <= 0 {
		return nil, errors.New("visit store size should be positive")
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * size,
		MaxCost:     size,
		BufferItems: 64,
		// every visit costs 1, MaxCost is the number of visits
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	store := &VisitStore{
		cache:   cache,
		ttl:     ttl,
		client:  client,
		cookies: sessions.NewCookieStore[string](cookieConfig, secret, nil),
	}
	return store, nil
}

// NewVisit creates and stores new visit
func (s *VisitStore) NewVisit() *Visit {
	toasts := &Toasts{}
	visit := &Visit{
		ID:     uuid.NewString(),
		Form:   NewBiomarkerForm(s.client, toasts),
		Toasts: toasts,
	}
	s.put(visit)
	return visit
}

// helper function to store visit in cache
func (s *VisitStore) put(visit *Visit) {
	var ok bool
	if s.ttl > 0 {
		ok = s.cache.SetWithTTL(visit.ID, visit, 1, s.ttl)
	} else {
		ok = s.cache.Set(visit.ID, visit, 1)
	}
	if !ok && Config.Verbose > 0 {
		log.Printf("visit %s was not admitted to visit store", visit.ID)
	}
	s.cache.Wait()
}

// Get returns visit for given identifier
func (s *VisitStore) Get(id string) (*Visit, bool) {
	val, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	visit, ok := val.(*Visit)
	return visit, ok
}

// Visit returns visit of HTTP request, new visit and its cookie are
// created when request has no valid visit cookie
func (s *VisitStore) Visit(w http.ResponseWriter, r *http.Request) (*Visit, error) {
	if session, err := s.cookies.Get(r, sessionName); err == nil {
		if id, ok := session.GetOk(sessionVisitID); ok {
			if visit, ok := s.Get(id); ok {
				// refresh visit expiration
				s.put(visit)
				return visit, nil
			}
		}
	}
	visit := s.NewVisit()
	session := s.cookies.New(sessionName)
	session.Set(sessionVisitID, visit.ID)
	if err := session.Save(w); err != nil {
		return visit, err
	}
	if Config.Verbose > 0 {
		log.Printf("new visit %s", visit.ID)
	}
	return visit, nil
}

// Close stops visit cache
func (s *VisitStore) Close() {
	s.cache.Close()
}
