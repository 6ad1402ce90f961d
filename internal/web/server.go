// Package web serves the dashboard: an HTML page, an SSE stream of emitted
// signals and a JSON endpoint with aggregate statistics.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/vadiminshakov/pipwatch/internal/services/metrics"
	"github.com/vadiminshakov/pipwatch/internal/storage/signals"
)

const signalPollInterval = 2 * time.Second

type signalReader interface {
	RecordsAfter(index uint64) ([]signals.Record, error)
}

type statsProvider interface {
	Summary() metrics.Summary
}

// Server exposes HTTP endpoints serving the HTML UI, an SSE stream of
// signals and the metrics summary.
type Server struct {
	Addr  string
	Store signalReader
	Stats statsProvider
}

// NewServer creates a new web server instance.
func NewServer(addr string, store signalReader, stats statsProvider) *Server {
	return &Server{Addr: addr, Store: store, Stats: stats}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/signals/stream", s.handleSignalStream)
	mux.HandleFunc("/api/metrics", s.handleMetrics)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	if s.Stats == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "metrics not available")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Stats.Summary()); err != nil {
		log.Printf("metrics encode: %v", err)
	}
}

func (s *Server) handleSignalStream(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "signal store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(signalPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendSignals := func() error {
		records, err := s.Store.RecordsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Signal)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: signal\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendSignals(); err != nil {
		http.Error(w, "failed to load signals", http.StatusInternalServerError)
		log.Printf("signal stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendSignals(); err != nil {
				log.Printf("signal stream poll: %v", err)
				return
			}
		}
	}
}
