package main

// config module
//
// Copyright (c) 2023 - Valentin Kuznetsov <vkuznet@gmail.com>
//

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Configuration stores server configuration parameters
type Configuration struct {
	// web server parts
	Base    string `json:"base"`     // base URL
	LogFile string `json:"log_file"` // server log file
	Port    int    `json:"port"`     // server port number
	Verbose int    `json:"verbose"`  // verbose output
	Debug   bool   `json:"debug"`    // expose expvar and pprof under /debug

	// server parts
	RootCAs       string   `json:"rootCAs"`      // server Root CAs path
	ServerCrt     string   `json:"server_cert"`  // server certificate
	ServerKey     string   `json:"server_key"`   // server certificate
	DomainNames   []string `json:"domain_names"` // LetsEncrypt domain names
	LimiterPeriod string   `json:"rate"`         // limiter rate value

	// prediction parts
	PredictURL     string `json:"predict_url"`     // prediction endpoint
	PredictTimeout int    `json:"predict_timeout"` // prediction timeout in seconds, 0 means no timeout

	// visit parts
	SessionSecret string `json:"session_secret"` // visit cookie signing secret
	VisitTTL      int    `json:"visit_ttl"`      // visit life time in seconds
	MaxVisits     int64  `json:"max_visits"`     // max number of visits kept in memory
}

// Config variable represents configuration object
var Config Configuration

// helper function to parse server configuration file
func parseConfig(configFile string) error {
	if configFile != "" {
		data, err := os.ReadFile(filepath.Clean(configFile))
		if err != nil {
			log.Println("Unable to read", err)
			return err
		}
		err = json.Unmarshal(data, &Config)
		if err != nil {
			log.Println("Unable to parse", err)
			return err
		}
	}
	Config.setDefaults()
	return nil
}

// helper function to assign default values
func (c *Configuration) setDefaults() {
	if c.Port == 0 {
		c.Port = 8181
	}
	if c.LimiterPeriod == "" {
		c.LimiterPeriod = "100-S"
	}
	if c.PredictURL == "" {
		c.PredictURL = DefaultPredictURL
	}
	if c.VisitTTL == 0 {
		c.VisitTTL = 3600
	}
	if c.MaxVisits == 0 {
		c.MaxVisits = 10000
	}
}

// PredictTimeoutDuration returns prediction timeout
func (c *Configuration) PredictTimeoutDuration() time.Duration {
	return time.Duration(c.PredictTimeout) * time.Second
}

// VisitTTLDuration returns visit life time
func (c *Configuration) VisitTTLDuration() time.Duration {
	return time.Duration(c.VisitTTL) * time.Second
}

// TLS reports if server runs over HTTPs
func (c *Configuration) TLS() bool {
	return len(c.DomainNames) > 0 || (c.ServerCrt != "" && c.ServerKey != "")
}
