package main

// server module
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"crypto/tls"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"

	sessions "github.com/dghubble/sessions"
	"github.com/google/uuid"
	"github.com/uptrace/bunrouter"
)

// visits represents in-memory store of page visits
var visits *VisitStore

// StaticFs holds our static web server content.
//
//go:embed static
var StaticFs embed.FS

// bunrouter implementation of the compatible (with net/http) router handlers
func bunRouter() *bunrouter.CompatRouter {
	router := bunrouter.New(
		bunrouter.Use(bunrouterLoggingMiddleware),
		bunrouter.Use(bunrouterLimitMiddleware),
	).Compat()
	base := Config.Base
	router.GET(base+"/", IndexHandler)
	router.GET(base+"/favicon.ico", FaviconHandler)

	// form APIs
	router.GET(base+"/form", FormHandler)
	router.POST(base+"/predict", PredictHandler)
	router.POST(base+"/reset", ResetHandler)
	router.POST(base+"/field/:field", FieldHandler)

	// web APIs
	router.GET(base+"/biomarkers", BiomarkersHandler)
	router.GET(base+"/docs", DocsHandler)
	router.GET(base+"/status", StatusHandler)

	// expvar and pprof handlers are registered in default mux
	if Config.Debug {
		router.Router.GET("/debug/*path", bunrouter.HTTPHandler(http.DefaultServeMux))
	}

	// static handlers
	for _, dir := range []string{"css", "images"} {
		filesFS, err := fs.Sub(StaticFs, "static/"+dir)
		if err != nil {
			panic(err)
		}
		m := fmt.Sprintf("%s/%s", base, dir)
		fileServer := http.FileServer(http.FS(filesFS))
		hdlr := http.StripPrefix(m, fileServer)
		router.Router.GET(m+"/*path", bunrouter.HTTPHandler(hdlr))
	}
	return router
}

// helper function to initialize visit store
func initVisits(client Predictor) error {
	cookieConfig := sessions.DebugCookieConfig
	if Config.TLS() {
		cookieConfig = sessions.DefaultCookieConfig
	}
	secret := Config.SessionSecret
	if secret == "" {
		// cookies of previous server runs become invalid
		secret = uuid.NewString()
	}
	store, err := NewVisitStore(client, Config.MaxVisits, Config.VisitTTLDuration(), cookieConfig, []byte(secret))
	if err != nil {
		return err
	}
	visits = store
	return nil
}

// Server implements phenoage web server
func Server() {
	// initialize server middleware
	if err := initLimiter(Config.LimiterPeriod); err != nil {
		log.Fatalf("unable to initialize limiter with rate %s, error %v", Config.LimiterPeriod, err)
	}

	// initialize visit store with prediction client
	client := NewMLClient(Config.PredictURL, Config.PredictTimeoutDuration())
	if err := initVisits(client); err != nil {
		log.Fatal("unable to initialize visit store", err)
	}
	defer visits.Close()
	log.Printf("prediction endpoint %s", Config.PredictURL)

	// setup server router
	router := bunRouter()

	// start HTTPs server
	if len(Config.DomainNames) > 0 {
		server := LetsEncryptServer(router, Config.DomainNames...)
		log.Println("Start HTTPs server with LetsEncrypt", Config.DomainNames)
		log.Fatal(server.ListenAndServeTLS("", ""))
	} else if Config.ServerCrt != "" && Config.ServerKey != "" {
		tlsConfig := &tls.Config{
			RootCAs: RootCAs(),
		}
		server := &http.Server{
			Addr:      fmt.Sprintf(":%d", Config.Port),
			TLSConfig: tlsConfig,
			Handler:   router,
		}
		log.Printf("Start HTTPs server with %s and %s on :%d", Config.ServerCrt, Config.ServerKey, Config.Port)
		log.Fatal(server.ListenAndServeTLS(Config.ServerCrt, Config.ServerKey))
	} else {
		log.Printf("Start HTTP server on :%d", Config.Port)
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", Config.Port), router))
	}
}
