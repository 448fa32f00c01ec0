package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sie-tools/eeat-mentions/internal/analysis"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/models"
	"github.com/sirupsen/logrus"
)

const maxBrandConfigBytes = 1 << 20

// analyzer is the part of the analysis service the HTTP surface needs
type analyzer interface {
	Run(ctx context.Context, brand *config.Brand) (*models.Report, error)
	RunScheduled(ctx context.Context) error
	Benchmark(ctx context.Context, brand *config.Brand) (*models.BenchmarkResult, error)
	GetMetrics() string
}

var _ analyzer = (*analysis.Service)(nil)

func newRouter(service analyzer) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/status", statusHandler(service)).Methods("GET")

	router.HandleFunc("/analyze", analyzeHandler(service)).Methods("POST")
	router.HandleFunc("/benchmark", benchmarkHandler(service)).Methods("POST")
	router.HandleFunc("/trigger", triggerHandler(service)).Methods("POST")

	return router
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}

func statusHandler(service analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(service.GetMetrics()))
	}
}

func analyzeHandler(service analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand, err := readBrand(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		report, err := service.Run(r.Context(), brand)
		if err != nil {
			logrus.Errorf("Analysis of %s failed: %v", brand.Name, err)
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func benchmarkHandler(service analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		brand, err := readBrand(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if len(brand.Competitors) == 0 {
			writeError(w, http.StatusBadRequest, errors.New("benchmark needs at least one competitor"))
			return
		}

		result, err := service.Benchmark(r.Context(), brand)
		if err != nil {
			logrus.Errorf("Benchmark of %s failed: %v", brand.Name, err)
			writeError(w, statusFor(err), err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func triggerHandler(service analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			defer cancel()

			if err := service.RunScheduled(ctx); err != nil {
				logrus.Errorf("Manual analysis trigger failed: %v", err)
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"message":"Analysis triggered successfully"}`))
	}
}

func readBrand(r *http.Request) (*config.Brand, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBrandConfigBytes))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, errors.New("request body must contain a brand configuration")
	}
	return config.ParseBrand(body)
}

func statusFor(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
