package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type readinessCheck func(ctx context.Context) error

func newHealthServer(port int, checks map[string]readinessCheck) *http.Server {
	if port == 0 {
		port = 8080
	}
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           newHealthMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newHealthMux(checks map[string]readinessCheck) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		code := http.StatusOK
		status := "ready"
		failed := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			code = http.StatusServiceUnavailable
			status = "not_ready"
		}

		body := map[string]interface{}{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		}
		if len(failed) > 0 {
			body["failed"] = failed
		}
		writeStatus(w, code, body)
	})

	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
