// Package http exposes the navigation engine over a JSON API. It is the
// secure transport: clients fetch exactly one question at a time and can
// never enumerate the graph.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/formroute/formroute"
	"github.com/formroute/formroute/pkg/domain"
)

// Server binds the engine to the router. Handlers translate transport
// concerns only; all semantics live in the engine.
type Server struct {
	Engine *formroute.Engine
	Logger *slog.Logger
}

// NewHandler creates the HTTP handler for an engine.
func NewHandler(engine *formroute.Engine, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Engine: engine, Logger: logger}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/forms/{formID}", func(r chi.Router) {
		r.Get("/questions", s.GetQuestionByIndex)
		r.Get("/questions/{questionID}", s.GetQuestionByID)
		r.Put("/questions", s.SaveQuestions)
		r.Post("/sessions/{sessionID}/answers", s.PostAnswer)
		r.Post("/sessions/{sessionID}/submit", s.Submit)
	})

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetQuestionByIndex handles GET /forms/{formID}/questions?index=N.
// Index equal to the question count yields a completed page, not an error.
func (s *Server) GetQuestionByIndex(w http.ResponseWriter, r *http.Request) {
	formID, ok := s.intParam(w, r, "formID")
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		http.Error(w, "index must be an integer", http.StatusBadRequest)
		return
	}

	page, err := s.Engine.SecureQuestion(r.Context(), formID, r.URL.Query().Get("session"), domain.QuestionRef{Index: index})
	if err != nil {
		s.writeEngineError(w, err, "question by index")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetQuestionByID handles GET /forms/{formID}/questions/{questionID}.
// Final screens require the final=true query parameter.
func (s *Server) GetQuestionByID(w http.ResponseWriter, r *http.Request) {
	formID, ok := s.intParam(w, r, "formID")
	if !ok {
		return
	}
	questionID, ok := s.intParam(w, r, "questionID")
	if !ok {
		return
	}

	ref := domain.QuestionRef{
		ByID:  true,
		ID:    questionID,
		Final: r.URL.Query().Get("final") == "true",
	}
	page, err := s.Engine.SecureQuestion(r.Context(), formID, r.URL.Query().Get("session"), ref)
	if err != nil {
		s.writeEngineError(w, err, "question by id")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// AnswerRequest is the body of POST .../answers.
type AnswerRequest struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// PostAnswer handles POST /forms/{formID}/sessions/{sessionID}/answers.
func (s *Server) PostAnswer(w http.ResponseWriter, r *http.Request) {
	formID, ok := s.intParam(w, r, "formID")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	var body AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("PostAnswer: Invalid request body", "err", err)
		return
	}

	out, err := s.Engine.Answer(r.Context(), formID, sessionID, body.QuestionID, body.Answer)
	if err != nil {
		s.writeEngineError(w, err, "answer")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// SubmitResponse is the body returned by POST .../submit.
type SubmitResponse struct {
	SubmissionID string `json:"submission_id"`
	RedirectURL  string `json:"redirect_url"`
}

// Submit handles POST /forms/{formID}/sessions/{sessionID}/submit.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	formID, ok := s.intParam(w, r, "formID")
	if !ok {
		return
	}
	sessionID := chi.URLParam(r, "sessionID")

	sub, url, err := s.Engine.Submit(r.Context(), formID, sessionID)
	if err != nil {
		s.writeEngineError(w, err, "submit")
		return
	}
	writeJSON(w, http.StatusOK, SubmitResponse{SubmissionID: sub.ID, RedirectURL: url})
}

// SaveQuestions handles PUT /forms/{formID}/questions: the editor save.
// New questions carry temporary ids which the store resolves atomically.
func (s *Server) SaveQuestions(w http.ResponseWriter, r *http.Request) {
	formID, ok := s.intParam(w, r, "formID")
	if !ok {
		return
	}

	var incoming []domain.Question
	if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("SaveQuestions: Invalid request body", "err", err)
		return
	}

	if err := s.Engine.Save(r.Context(), formID, incoming); err != nil {
		s.writeEngineError(w, err, "save")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) intParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		http.Error(w, fmt.Sprintf("%s must be an integer", name), http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func (s *Server) writeEngineError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrFormNotFound),
		errors.Is(err, domain.ErrQuestionNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrSecureModeDisabled):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrNavigationLoop):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		s.Logger.Error("request failed", "op", op, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}
