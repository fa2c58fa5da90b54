// SPDX-License-Identifier: EPL-2.0

// Package server exposes the analysis pipeline over HTTP and a WebSocket
// capture endpoint.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ik5/voxprofile"
	"github.com/ik5/voxprofile/match"
	"github.com/ik5/voxprofile/progress"
	"github.com/ik5/voxprofile/storage"
)

// Record kinds in the record store.
const (
	kindRecording = "recordings"
	kindAnalysis  = "analyses"
	kindReview    = "reviews"
)

const defaultMaxUpload = 16 << 20

// Deps are the collaborators a Server wires together. Pipeline, Blobs and
// Records are required.
type Deps struct {
	Logger   *zap.Logger
	Pipeline *voxprofile.Pipeline
	Matcher  match.Matcher
	Blobs    storage.BlobStore
	Records  storage.RecordStore

	// MaxUploadBytes caps request bodies. Zero selects 16 MiB.
	MaxUploadBytes int64
	// MonitorInterval is the quality sampling cadence during capture.
	MonitorInterval time.Duration
	// MaxCaptureDuration ends a live session automatically. Zero disables
	// the limit.
	MaxCaptureDuration time.Duration
	// DefaultSampleRate applies to capture sessions that start without
	// one.
	DefaultSampleRate int
}

// Server handles the HTTP API.
type Server struct {
	log      *zap.Logger
	pipeline *voxprofile.Pipeline
	matcher  match.Matcher
	blobs    storage.BlobStore
	records  storage.RecordStore
	progress *progress.Tracker

	maxUpload   int64
	interval    time.Duration
	maxCapture  time.Duration
	defaultRate int
	now         func() time.Time

	router *mux.Router

	// captures tracks live WebSocket sessions for shutdown.
	captures  sync.WaitGroup
	closing   chan struct{}
	closeOnce sync.Once
}

func New(deps Deps) (*Server, error) {
	if deps.Pipeline == nil || deps.Blobs == nil || deps.Records == nil {
		return nil, errors.New("server: pipeline, blob store and record store are required")
	}

	s := &Server{
		log:         deps.Logger,
		pipeline:    deps.Pipeline,
		matcher:     deps.Matcher,
		blobs:       deps.Blobs,
		records:     deps.Records,
		progress:    progress.NewTracker(deps.Records),
		maxUpload:   deps.MaxUploadBytes,
		interval:    deps.MonitorInterval,
		maxCapture:  deps.MaxCaptureDuration,
		defaultRate: deps.DefaultSampleRate,
		now:         time.Now,
		closing:     make(chan struct{}),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	if s.defaultRate <= 0 {
		s.defaultRate = 48000
	}

	s.router = s.routes()

	return s, nil
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/recordings", s.handleCreateRecording).Methods(http.MethodPost)
	api.HandleFunc("/recordings/{id}", s.handleGetRecording).Methods(http.MethodGet)
	api.HandleFunc("/recordings/{id}/audio", s.handleGetRecordingAudio).Methods(http.MethodGet)
	api.HandleFunc("/reviews", s.handleCreateReview).Methods(http.MethodPost)
	api.HandleFunc("/progress/{user_id}", s.handleGetProgress).Methods(http.MethodGet)
	api.HandleFunc("/capture", s.handleCapture).Methods(http.MethodGet)

	r.Use(s.logRequests)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully and waits for live capture sessions to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: readTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	srv.RegisterOnShutdown(s.Close)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.captures.Wait()

	return nil
}

// Close disconnects live capture sessions. Unfinished sessions are
// discarded.
func (s *Server) Close() {
	s.closeOnce.Do(func() { close(s.closing) })
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// Hijack hands the connection to the WebSocket upgrader.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("server: response writer cannot be hijacked")
	}
	r.status = http.StatusSwitchingProtocols

	return h.Hijack()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
