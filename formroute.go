package formroute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formroute/formroute/internal/logging"
	"github.com/formroute/formroute/internal/metrics"
	"github.com/formroute/formroute/internal/remap"
	"github.com/formroute/formroute/internal/runtime"
	"github.com/formroute/formroute/pkg/domain"
	"github.com/formroute/formroute/pkg/ports"
	"github.com/formroute/formroute/pkg/session"
)

// DefaultStepBudget bounds resolver calls per session. A form whose goto
// rules cycle will trip this budget instead of looping forever.
const DefaultStepBudget = 100

// saveLockTTL caps how long a crashed replica can hold a form's save lock.
const saveLockTTL = 30 * time.Second

// Engine is the high-level entry point for the formroute library. It
// wires the stateless navigation core to a graph store and a session
// manager and exposes the operations transports build on.
type Engine struct {
	graphs   ports.GraphStore
	sessions *session.Manager
	locker   ports.DistributedLocker
	renderer ports.Renderer
	logger   *slog.Logger

	stepBudget int

	// formMu serializes saves per form when no distributed locker is
	// configured. Entries are never reclaimed; the map is bounded by
	// the number of forms this process has saved.
	formMu sync.Map // int -> *sync.Mutex
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSessions injects the session store used for cross-request variable
// persistence. Defaults to nothing: Answer and Submit require it.
func WithSessions(store ports.SessionStore, opts ...session.Option) Option {
	return func(e *Engine) {
		e.sessions = session.NewManager(store, opts...)
	}
}

// WithLocker enables distributed per-form locking around graph saves.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithRenderer sets the presentation adapter used by SecureQuestion.
func WithRenderer(r ports.Renderer) Option {
	return func(e *Engine) {
		e.renderer = r
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStepBudget overrides the per-session resolver call budget.
func WithStepBudget(n int) Option {
	return func(e *Engine) {
		e.stepBudget = n
	}
}

// New initializes an Engine over the given graph store.
func New(graphs ports.GraphStore, opts ...Option) *Engine {
	e := &Engine{
		graphs:     graphs,
		logger:     logging.NewNop(),
		stepBudget: DefaultStepBudget,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve runs one question's rules against an answer and a caller-held
// variable store. It is the stateless core operation; Answer wraps it
// with session handling.
func (e *Engine) Resolve(ctx context.Context, questionID int, answer string, vars domain.Variables) (domain.NavigationResult, error) {
	conds, err := e.graphs.LoadConditions(ctx, questionID)
	if err != nil {
		return domain.NavigationResult{}, fmt.Errorf("load conditions for question %d: %w", questionID, err)
	}
	return runtime.Resolve(conds, answer, vars), nil
}

// Answer records one answer for a session and decides where the session
// goes next: an explicit jump when a rule fired, sequential order
// otherwise, completion when the sequence is exhausted.
func (e *Engine) Answer(ctx context.Context, formID int, sessionID string, questionID int, answer string) (domain.StepOutcome, error) {
	if e.sessions == nil {
		return domain.StepOutcome{}, errors.New("no session store configured")
	}

	graph, err := e.graphs.LoadGraph(ctx, formID)
	if err != nil {
		return domain.StepOutcome{}, err
	}
	current, ok := graph.QuestionByID(questionID)
	if !ok {
		return domain.StepOutcome{}, fmt.Errorf("question %d in form %d: %w", questionID, formID, domain.ErrQuestionNotFound)
	}

	var outcome domain.StepOutcome
	err = e.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := e.sessions.Store().Load(ctx, sessionID)
		if errors.Is(err, domain.ErrSessionNotFound) {
			sess = domain.NewSession(sessionID, formID)
		} else if err != nil {
			return err
		}

		sess.Steps++
		if sess.Steps > e.stepBudget {
			return fmt.Errorf("session %s after %d steps: %w", sessionID, sess.Steps-1, domain.ErrNavigationLoop)
		}

		conds, err := e.graphs.LoadConditions(ctx, questionID)
		if err != nil {
			return fmt.Errorf("load conditions for question %d: %w", questionID, err)
		}

		res := runtime.Resolve(conds, answer, sess.Variables)
		sess.Answers[questionID] = answer
		sess.Variables = res.Variables

		outcome = e.stepOutcome(graph, current, res)

		return e.sessions.Store().Save(ctx, sessionID, sess)
	})
	if err != nil {
		return domain.StepOutcome{}, err
	}

	e.logger.Debug("answer resolved",
		"form", formID,
		"session", sessionID,
		"question", questionID,
		"jumped", outcome.Jumped,
		"completed", outcome.Completed,
	)
	return outcome, nil
}

// stepOutcome folds a navigation result into the caller-facing outcome,
// applying the sequential fallback when no rule claimed a destination.
func (e *Engine) stepOutcome(graph *domain.FormGraph, current domain.Question, res domain.NavigationResult) domain.StepOutcome {
	outcome := domain.StepOutcome{Variables: res.Variables}

	if res.Matched {
		switch {
		case res.RedirectURL != "":
			outcome.RedirectURL = res.RedirectURL
			outcome.Completed = true
			metrics.Resolutions.WithLabelValues("redirect").Inc()
		case res.Terminate:
			outcome.Completed = true
			metrics.Resolutions.WithLabelValues("terminate").Inc()
		default:
			outcome.NextQuestionID = res.NextQuestionID
			outcome.Jumped = true
			metrics.Resolutions.WithLabelValues("jump").Inc()
		}
		return outcome
	}

	// No rule fired: sequential order is authoritative.
	metrics.Resolutions.WithLabelValues("sequential").Inc()
	normal := graph.Normal()
	idx := -1
	for i, q := range normal {
		if q.ID == current.ID {
			idx = i
			break
		}
	}
	next := idx + 1
	if idx == -1 || next >= len(normal) {
		outcome.Completed = true
		return outcome
	}
	outcome.NextIndex = next
	outcome.NextQuestionID = normal[next].ID
	return outcome
}

// DetermineRedirect runs the form-wide completion scan over every
// redirect rule and returns the winning URL, or the form default.
func (e *Engine) DetermineRedirect(ctx context.Context, formID int, answers map[int]string, vars domain.Variables) (string, error) {
	graph, err := e.graphs.LoadGraph(ctx, formID)
	if err != nil {
		return "", err
	}
	return runtime.DetermineRedirect(graph, answers, vars), nil
}

// Save persists an edited question set for a form. Saves for the same
// form are serialized: two racing saves could otherwise interleave id
// remapping and corrupt goto references. Save is not safe to blindly
// retry on failure; temporary-id mappings must be re-derived first.
func (e *Engine) Save(ctx context.Context, formID int, incoming []domain.Question) error {
	unlock, err := e.lockForm(ctx, formID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := e.graphs.SaveGraph(ctx, formID, incoming); err != nil {
		metrics.GraphSaves.WithLabelValues("error").Inc()
		e.logger.Error("graph save failed", "form", formID, "err", err)
		return err
	}
	metrics.GraphSaves.WithLabelValues("ok").Inc()
	e.logger.Info("graph saved", "form", formID, "questions", len(incoming))
	return nil
}

func (e *Engine) lockForm(ctx context.Context, formID int) (func(), error) {
	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, fmt.Sprintf("form:%d", formID), saveLockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire form lock: %w", err)
		}
		return func() {
			if err := unlock(ctx); err != nil {
				e.logger.Warn("failed to release form lock (will expire via TTL)", "form", formID, "err", err)
			}
		}, nil
	}

	v, _ := e.formMu.LoadOrStore(formID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock, nil
}

// SecureQuestion serves exactly one question's presentation, so a client
// can never pre-fetch questions it has not reached. It refuses forms
// without the secure-mode flag.
func (e *Engine) SecureQuestion(ctx context.Context, formID int, sessionID string, ref domain.QuestionRef) (*RenderedQuestion, error) {
	graph, err := e.graphs.LoadGraph(ctx, formID)
	if err != nil {
		return nil, err
	}

	page, err := runtime.SecureQuestion(graph, ref)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSecureModeDisabled):
			metrics.SecureRequests.WithLabelValues("refused").Inc()
		default:
			metrics.SecureRequests.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	if page.Completed {
		metrics.SecureRequests.WithLabelValues("completed").Inc()
		return &RenderedQuestion{Page: *page}, nil
	}
	metrics.SecureRequests.WithLabelValues("rendered").Inc()

	rendered := &RenderedQuestion{Page: *page}
	if e.renderer != nil {
		vars := domain.NewVariables()
		if e.sessions != nil && sessionID != "" {
			vars, err = e.sessions.GetVariables(ctx, sessionID)
			if err != nil {
				return nil, err
			}
		}
		rendered.Payload, err = e.renderer.RenderQuestion(ctx, page.Question, vars)
		if err != nil {
			return nil, fmt.Errorf("render question %d: %w", page.Question.ID, err)
		}
	}
	return rendered, nil
}

// Submit snapshots a completed session into a submission record and
// returns the redirect destination from the form-wide rule scan.
func (e *Engine) Submit(ctx context.Context, formID int, sessionID string) (*domain.Submission, string, error) {
	if e.sessions == nil {
		return nil, "", errors.New("no session store configured")
	}

	sess, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}

	url, err := e.DetermineRedirect(ctx, formID, sess.Answers, sess.Variables)
	if err != nil {
		return nil, "", err
	}

	sub := &domain.Submission{
		ID:        uuid.NewString(),
		FormID:    formID,
		SessionID: sessionID,
		Answers:   sess.Answers,
		Variables: sess.Variables,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.graphs.SaveSubmission(ctx, sub); err != nil {
		return nil, "", fmt.Errorf("save submission: %w", err)
	}

	e.logger.Info("form submitted", "form", formID, "session", sessionID, "submission", sub.ID)
	return sub, url, nil
}

// Sessions exposes the session manager, or nil when none is configured.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// RenderedQuestion couples the secure page with the renderer's payload.
type RenderedQuestion struct {
	Page    domain.SecurePage `json:"page"`
	Payload any               `json:"payload,omitempty"`
}

// PlanSave exposes the reconciliation a save would perform without
// executing it, for editor previews ("these questions will be deleted").
func PlanSave(existing, incoming []domain.Question) (updates, inserts []domain.Question, deletes []int) {
	plan := remap.Build(existing, incoming)
	return plan.Updates, plan.Inserts, plan.Deletes
}
