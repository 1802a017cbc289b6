// Package server exposes a session over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cwbudde/algo-livecode/internal/eval"
	"github.com/cwbudde/algo-livecode/internal/logging"
	"github.com/cwbudde/algo-livecode/internal/session"
)

// MaxSource bounds the body of POST /eval.
const MaxSource = 1 << 20

// Outcome is the JSON form of one evaluated statement.
type Outcome struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// EvalResponse is the body returned by POST /eval.
type EvalResponse struct {
	Incomplete bool      `json:"incomplete"`
	Outcomes   []Outcome `json:"outcomes"`
}

// SliderValue is the body of PUT /sliders/{name}.
type SliderValue struct {
	Value float64 `json:"value"`
}

type handler struct {
	s   *session.Session
	log *slog.Logger
}

// Option configures the handler.
type Option func(*handler)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *handler) { h.log = l }
}

// NewHandler routes the control surface for s. reg may be nil, in which
// case /metrics is not served.
func NewHandler(s *session.Session, reg *prometheus.Registry, opts ...Option) http.Handler {
	h := &handler{s: s, log: logging.NewNop()}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Post("/eval", h.eval)
	r.Get("/env", h.env)
	r.Get("/sliders", h.sliders)
	r.Put("/sliders/{name}", h.setSlider)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if reg != nil {
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	return r
}

func (h *handler) eval(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxSource+1))
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}
	if len(body) > MaxSource {
		http.Error(w, "source too large", http.StatusRequestEntityTooLarge)
		return
	}

	res, err := h.s.Submit(string(body))
	if err != nil {
		h.log.Debug("eval rejected", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, EvalResponse{
		Incomplete: res.Incomplete,
		Outcomes:   outcomes(res.Outcomes),
	})
}

func outcomes(in []eval.Outcome) []Outcome {
	out := make([]Outcome, len(in))
	for i, o := range in {
		out[i].Text = o.Text
		if o.Err != nil {
			out[i].Error = o.Err.Error()
		}
	}
	return out
}

func (h *handler) env(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.s.Bindings())
}

func (h *handler) sliders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.s.Sliders())
}

func (h *handler) setSlider(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var body SliderValue
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	x, err := h.s.SetSlider(name, body.Value)
	switch {
	case errors.Is(err, session.ErrNoSlider):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, SliderValue{Value: x})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
