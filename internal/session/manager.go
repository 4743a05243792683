package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Manager owns the registry of live engines, one per InProgress session.
// Engines are created on Start, rebuilt on demand for sessions left
// InProgress by a restart, and dropped once the session reaches a terminal
// state or finishes its scoring flow.
type Manager struct {
	mu      sync.Mutex
	engines map[uint]*Engine

	cfg          Config
	sessions     repository.SessionRepository
	answers      repository.AnswerRepository
	violations   repository.ViolationRepository
	feedbackRepo repository.FeedbackRepository
	backend      service.BackendService
	poller       service.FeedbackPoller
	preflight    service.PreflightService
}

func NewManager(
	cfg *config.Config,
	sessions repository.SessionRepository,
	answers repository.AnswerRepository,
	violations repository.ViolationRepository,
	feedbackRepo repository.FeedbackRepository,
	backend service.BackendService,
	poller service.FeedbackPoller,
	preflight service.PreflightService,
) *Manager {
	engineCfg := Config{
		TickInterval: cfg.Engine.TimerTickInterval,
		Monitor: MonitorConfig{
			MinInterval:         cfg.Engine.MonitorMinInterval,
			MaxInterval:         cfg.Engine.MonitorMaxInterval,
			EscalationThreshold: cfg.Engine.EscalationThreshold,
			EscalationWindow:    cfg.Engine.EscalationWindow,
		},
		CompletionRetry: service.RetryPolicy{
			InitialInterval: service.DefaultRetryPolicy().InitialInterval,
			MaxInterval:     service.DefaultRetryPolicy().MaxInterval,
			Multiplier:      service.DefaultRetryPolicy().Multiplier,
			MaxElapsed:      cfg.Engine.CompletionRetryMaxWait,
		},
	}
	return &Manager{
		engines:      make(map[uint]*Engine),
		cfg:          engineCfg,
		sessions:     sessions,
		answers:      answers,
		violations:   violations,
		feedbackRepo: feedbackRepo,
		backend:      backend,
		poller:       poller,
		preflight:    preflight,
	}
}

// Start transitions a session from Preflight to InProgress. Every mandatory
// preflight check must have succeeded; otherwise the attempt is rejected
// with a PREFLIGHT_FAILURE and the session stays in Preflight.
func (m *Manager) Start(ctx context.Context, token string, sessionID uint) (LiveState, error) {
	session, err := m.loadSession(sessionID)
	if err != nil {
		return LiveState{}, err
	}
	if session.Status != model.StatusPreflight {
		return LiveState{}, apperr.InvalidTransition(string(session.Status), string(model.StatusInProgress))
	}
	if !m.preflight.AllMandatoryChecksPassed(sessionID) {
		return LiveState{}, apperr.Preflight("mandatory environment checks have not all passed")
	}

	m.mu.Lock()
	if existing, ok := m.engines[sessionID]; ok {
		m.mu.Unlock()
		return existing.State(), apperr.InvalidTransition(string(model.StatusInProgress), string(model.StatusInProgress))
	}
	engine := m.newEngineLocked(session)
	m.engines[sessionID] = engine
	m.mu.Unlock()

	if err := engine.Start(token); err != nil {
		m.remove(sessionID)
		return LiveState{}, err
	}
	m.preflight.Release(sessionID)
	return engine.State(), nil
}

// Engine returns the live engine for a session, rebuilding it from
// persistence when the session is InProgress but has no runtime, which
// happens after a process restart. The resumed question restarts at its
// full time limit.
func (m *Manager) Engine(token string, sessionID uint) (*Engine, error) {
	m.mu.Lock()
	if engine, ok := m.engines[sessionID]; ok {
		m.mu.Unlock()
		return engine, nil
	}
	m.mu.Unlock()

	session, err := m.loadSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.StatusInProgress {
		return nil, apperr.InvalidTransition(string(session.Status), string(model.StatusInProgress))
	}

	m.mu.Lock()
	if engine, ok := m.engines[sessionID]; ok {
		m.mu.Unlock()
		return engine, nil
	}
	engine := m.newEngineLocked(session)
	m.engines[sessionID] = engine
	m.mu.Unlock()

	if err := engine.resume(token); err != nil {
		m.remove(sessionID)
		return nil, err
	}
	return engine, nil
}

// RecoverScoring re-arms the completion/scoring flow for a Completed session
// whose earlier submission retries or feedback polling budget ran out. Safe
// to call on every read of a session: anything not Completed, or with a flow
// already running, is left alone.
func (m *Manager) RecoverScoring(token string, sessionID uint) {
	m.mu.Lock()
	if _, live := m.engines[sessionID]; live {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	session, err := m.loadSession(sessionID)
	if err != nil || session.Status != model.StatusCompleted {
		return
	}

	m.mu.Lock()
	if _, live := m.engines[sessionID]; live {
		m.mu.Unlock()
		return
	}
	engine := m.newEngineLocked(session)
	m.engines[sessionID] = engine
	m.mu.Unlock()

	if err := engine.resumeScoring(token); err != nil {
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to re-arm scoring")
		m.remove(sessionID)
	}
}

// Get returns the live engine without any rebuild.
func (m *Manager) Get(sessionID uint) (*Engine, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	engine, ok := m.engines[sessionID]
	return engine, ok
}

func (m *Manager) newEngineLocked(session *model.Session) *Engine {
	return newEngine(session, m.cfg, m.sessions, m.answers, m.violations,
		m.feedbackRepo, m.backend, m.poller, m.remove)
}

func (m *Manager) remove(sessionID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.engines[sessionID]; ok {
		delete(m.engines, sessionID)
		log.Info().Uint("sessionID", sessionID).Msg("Live session released")
	}
}

// Abort terminates a session from any non-terminal state. Sessions without
// a live engine (still configuring or in preflight) are aborted directly in
// persistence.
func (m *Manager) Abort(sessionID uint, reason string) error {
	m.mu.Lock()
	engine, live := m.engines[sessionID]
	m.mu.Unlock()
	if live {
		if err := engine.Abort(reason); err != nil {
			return err
		}
		m.preflight.Release(sessionID)
		return nil
	}

	session, err := m.loadSession(sessionID)
	if err != nil {
		return err
	}
	if !session.Status.CanTransition(model.StatusAborted) {
		return apperr.InvalidTransition(string(session.Status), string(model.StatusAborted))
	}
	if err := m.sessions.UpdateStatus(sessionID, model.StatusAborted); err != nil {
		return fmt.Errorf("failed to mark session %d aborted: %w", sessionID, err)
	}
	m.preflight.Release(sessionID)
	log.Warn().Uint("sessionID", sessionID).Str("reason", reason).Msg("Session aborted")
	return nil
}

func (m *Manager) loadSession(sessionID uint) (*model.Session, error) {
	session, err := m.sessions.FindByIDWithDetails(sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound(fmt.Sprintf("session %d not found", sessionID))
		}
		return nil, fmt.Errorf("error fetching session %d: %w", sessionID, err)
	}
	return session, nil
}
