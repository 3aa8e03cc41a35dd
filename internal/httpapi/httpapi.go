// Package httpapi exposes the running tuner read-only over HTTP so other
// tools can follow the detected pitch.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/kazzyman/groktune/internal/capture"
	"github.com/kazzyman/groktune/internal/trace"
	"github.com/kazzyman/groktune/internal/tuner"
)

// State is what the API reads from. *tuner.Tuner implements it.
type State interface {
	Latest() (tuner.Reading, bool)
	Trace() []trace.Point
	Devices() ([]capture.Device, error)
	Device() (capture.Device, bool)
	Stats() tuner.Stats
}

type deviceList struct {
	Devices []capture.Device `json:"devices"`
	Current *capture.Device  `json:"current"`
}

type server struct {
	st State
	lg *slog.Logger
}

// Handler returns the API router with CORS enabled for GET requests from
// any origin.
func Handler(st State, lg *slog.Logger) http.Handler {
	s := &server{st: st, lg: lg}

	router := mux.NewRouter().StrictSlash(true)
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reading", s.handleReading).Methods(http.MethodGet)
	api.HandleFunc("/trace", s.handleTrace).Methods(http.MethodGet)
	api.HandleFunc("/devices", s.handleDevices).Methods(http.MethodGet)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	return c.Handler(router)
}

func (s *server) handleReading(w http.ResponseWriter, r *http.Request) {
	reading, ok := s.st.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, reading)
}

func (s *server) handleTrace(w http.ResponseWriter, r *http.Request) {
	pts := s.st.Trace()
	if pts == nil {
		pts = []trace.Point{}
	}
	s.writeJSON(w, pts)
}

func (s *server) handleDevices(w http.ResponseWriter, r *http.Request) {
	devs, err := s.st.Devices()
	if err != nil {
		s.lg.Error("list devices", "error", err)
		http.Error(w, "could not list devices", http.StatusInternalServerError)
		return
	}
	out := deviceList{Devices: devs}
	if out.Devices == nil {
		out.Devices = []capture.Device{}
	}
	if d, ok := s.st.Device(); ok {
		out.Current = &d
	}
	s.writeJSON(w, out)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.st.Stats())
}

func (s *server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.lg.Warn("write response", "error", err)
	}
}

// Serve listens on addr until ctx is done, then shuts the server down.
func Serve(ctx context.Context, addr string, h http.Handler, lg *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		lg.Info("http api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
