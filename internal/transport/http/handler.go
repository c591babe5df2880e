package http

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"quiz-intake-service/internal/domain"
	"quiz-intake-service/internal/quiz"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageConfig controls the rendered quiz page.
type PageConfig struct {
	Title string
	// ExpiresAt is the instant after which the quiz link is dead; zero
	// means it never expires.
	ExpiresAt time.Time
}

// Handler serves the quiz page and the JSON intake API.
type Handler struct {
	service *quiz.Service
	cfg     PageConfig
	tmpl    *template.Template
	now     func() time.Time
}

func NewHandler(service *quiz.Service, cfg PageConfig) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if cfg.Title == "" {
		cfg.Title = "Quiz"
	}
	return &Handler{service: service, cfg: cfg, tmpl: tmpl, now: time.Now}, nil
}

// WithClock is test-only for deterministic expiration checks.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleQuizPage)
	r.Get("/api/questions", h.handleQuestions)
	r.Post("/api/submit", h.handleSubmit)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func (h *Handler) handleQuizPage(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.ExpiresAt.IsZero() && h.now().After(h.cfg.ExpiresAt) {
		h.renderPage(w, "expired.html", h.cfg.Title)
		return
	}
	h.renderPage(w, "quiz.html", h.cfg.Title)
}

// renderPage renders into a buffer first so a template fault degrades to
// the generic error notice instead of a half-written page.
func (h *Handler) renderPage(w http.ResponseWriter, name, title string) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, struct{ Title string }{Title: title}); err != nil {
		log.Printf("render %s: %v", name, err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<h2>An error occurred while loading the form. Please try again later.</h2>"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (h *Handler) handleQuestions(w http.ResponseWriter, r *http.Request) {
	questions := h.service.Questions(r.Context())
	if questions == nil {
		questions = []domain.PresentedQuestion{}
	}
	writeJSON(w, http.StatusOK, questions)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.SubmitOutcome{
			Status:  domain.StatusError,
			Message: "Invalid request body.",
		})
		return
	}
	writeJSON(w, http.StatusOK, h.service.Submit(r.Context(), sub))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write json response: %v", err)
	}
}
