package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/lshigami/Margays/internal/service"
	"github.com/rs/zerolog/log"
)

// Navigation actions.
const (
	ActionNext     = "next"
	ActionPrevious = "previous"
	ActionSkip     = "skip"
	ActionJump     = "jump"
)

// Config tunes one live engine.
type Config struct {
	TickInterval    time.Duration
	Monitor         MonitorConfig
	CompletionRetry service.RetryPolicy
}

// LiveState is a snapshot of the running session for API responses.
type LiveState struct {
	SessionID          uint    `json:"session_id"`
	Status             string  `json:"status"`
	CurrentIndex       int     `json:"current_index"`
	RemainingSec       int     `json:"remaining_sec"`
	QuestionCount      int     `json:"question_count"`
	CompletionFraction float64 `json:"completion_fraction"`
	FlaggedForReview   bool    `json:"flagged_for_review"`
	DegradedAudio      bool    `json:"degraded_audio"`
}

// Engine serializes every mutation of one session: answer edits and
// navigation from user input, ticks from the question timer, violations from
// the integrity monitor, and the background completion/scoring flow. All
// writers go through the engine mutex; stale timer callbacks are dropped via
// a generation counter so a cancelled timer can never mutate state.
type Engine struct {
	mu sync.Mutex

	session   *model.Session
	questions []model.Question
	answers   *AnswerStore

	timer     *QuestionTimer
	timerGen  uint64
	remaining int

	monitor *IntegrityMonitor
	signals *SignalQueue

	token string // bearer credential captured at start, used by background flows
	cfg   Config

	sessions     repository.SessionRepository
	answersRepo  repository.AnswerRepository
	violations   repository.ViolationRepository
	feedbackRepo repository.FeedbackRepository
	backend      service.BackendService
	poller       service.FeedbackPoller

	onTerminal func(sessionID uint)
}

func newEngine(
	session *model.Session,
	cfg Config,
	sessions repository.SessionRepository,
	answersRepo repository.AnswerRepository,
	violations repository.ViolationRepository,
	feedbackRepo repository.FeedbackRepository,
	backend service.BackendService,
	poller service.FeedbackPoller,
	onTerminal func(sessionID uint),
) *Engine {
	e := &Engine{
		session:      session,
		questions:    session.Questions,
		answers:      NewAnswerStore(session.QuestionCount),
		signals:      NewSignalQueue(),
		cfg:          cfg,
		sessions:     sessions,
		answersRepo:  answersRepo,
		violations:   violations,
		feedbackRepo: feedbackRepo,
		backend:      backend,
		poller:       poller,
		onTerminal:   onTerminal,
	}
	e.answers.Load(session.Answers)
	return e
}

// Start moves the session from Preflight to InProgress and spawns the
// question timer for question zero plus the integrity monitor.
func (e *Engine) Start(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.Status.CanTransition(model.StatusInProgress) {
		return apperr.InvalidTransition(string(e.session.Status), string(model.StatusInProgress))
	}

	now := time.Now()
	e.token = token
	e.session.Status = model.StatusInProgress
	e.session.StartedAt = &now
	e.session.CurrentIndex = 0
	if err := e.sessions.UpdateFields(e.session.ID, map[string]interface{}{
		"status":        model.StatusInProgress,
		"started_at":    now,
		"current_index": 0,
	}); err != nil {
		return fmt.Errorf("failed to persist session start: %w", err)
	}

	e.spawnMonitorLocked()
	e.beginQuestionLocked(0)
	log.Info().Uint("sessionID", e.session.ID).Msg("Session started")
	return nil
}

// resume rebuilds the live runtime for a session that is already InProgress
// in the database (reload after a restart). The active question restarts at
// its full time limit.
func (e *Engine) resume(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != model.StatusInProgress {
		return apperr.InvalidTransition(string(e.session.Status), string(model.StatusInProgress))
	}
	e.token = token
	e.spawnMonitorLocked()
	e.beginQuestionLocked(e.session.CurrentIndex)

	// The monitor's sliding window is empty after a restart, but a violation
	// burst that straddles it still counts toward review.
	if !e.session.FlaggedForReview && e.cfg.Monitor.EscalationThreshold > 0 {
		since := time.Now().Add(-e.cfg.Monitor.EscalationWindow)
		if count, err := e.violations.CountSince(e.session.ID, since); err == nil &&
			count >= int64(e.cfg.Monitor.EscalationThreshold) {
			e.flagForReviewLocked(int(count))
		}
	}

	log.Info().Uint("sessionID", e.session.ID).Int("index", e.session.CurrentIndex).Msg("Session resumed")
	return nil
}

// resumeScoring re-arms the background completion/scoring flow for a session
// left Completed after an earlier submission or polling budget ran out. The
// answer set is reloaded from persistence; submission is skipped when the
// backend already acknowledged it.
func (e *Engine) resumeScoring(token string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != model.StatusCompleted {
		return apperr.InvalidTransition(string(e.session.Status), string(model.StatusScored))
	}
	e.token = token

	rows, err := e.answersRepo.FindBySession(e.session.ID)
	if err != nil {
		return fmt.Errorf("failed to reload answers for session %d: %w", e.session.ID, err)
	}
	e.answers.Load(rows)

	log.Info().Uint("sessionID", e.session.ID).Bool("acked", e.session.CompletionAcked).
		Msg("Re-arming completion and scoring")
	go e.completeAndScore(e.answers.Snapshot(), e.session.FlaggedForReview,
		e.session.DegradedAudio, e.session.CompletionAcked)
	return nil
}

func (e *Engine) spawnMonitorLocked() {
	e.monitor = NewIntegrityMonitor(e.cfg.Monitor, e.signals, e.recordViolation, e.escalate)
	e.monitor.Start()
}

// beginQuestionLocked starts the countdown for the question at index.
// Callers must have stopped any previous timer first.
func (e *Engine) beginQuestionLocked(index int) {
	limit := e.questions[index].TimeLimitSec
	e.remaining = limit
	e.timerGen++
	gen := e.timerGen
	timer := NewQuestionTimer(index, limit, e.cfg.TickInterval,
		func(idx, remaining int) { e.handleTick(gen, idx, remaining) },
		func(idx int) { e.handleExpired(gen, idx) },
	)
	e.timer = timer
	timer.Start()
}

// stopTimerLocked cancels the active timer and invalidates any callback
// still in flight.
func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Engine) handleTick(gen uint64, _, remaining int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || e.session.Status != model.StatusInProgress {
		return
	}
	e.remaining = remaining
}

// handleExpired is the tie-break policy: expiry behaves exactly as a manual
// Next, preserving whatever partial answer exists.
func (e *Engine) handleExpired(gen uint64, index int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || e.session.Status != model.StatusInProgress {
		return
	}
	e.remaining = 0

	log.Info().Uint("sessionID", e.session.ID).Int("index", index).Msg("Question time expired, auto-advancing")
	if index >= e.session.QuestionCount-1 {
		e.finishLocked()
		return
	}
	e.advanceLocked(index + 1)
}

// Navigate handles Next/Previous/Skip/jump. Next (or Skip) past the last
// question completes the session.
func (e *Engine) Navigate(action string, targetIndex *int) (LiveState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != model.StatusInProgress {
		return LiveState{}, apperr.InvalidTransition(string(e.session.Status), string(model.StatusInProgress))
	}

	current := e.session.CurrentIndex
	var target int
	switch action {
	case ActionNext, ActionSkip:
		if current >= e.session.QuestionCount-1 {
			e.finishLocked()
			return e.stateLocked(), nil
		}
		target = current + 1
	case ActionPrevious:
		target = current - 1
	case ActionJump:
		if targetIndex == nil {
			return LiveState{}, apperr.Validation("target_index", "jump requires a target index")
		}
		target = *targetIndex
	default:
		return LiveState{}, apperr.Validation("action", fmt.Sprintf("unknown navigation action %q", action))
	}

	if target < 0 || target >= e.session.QuestionCount {
		return LiveState{}, apperr.Validation("target_index",
			fmt.Sprintf("target index %d out of range [0, %d)", target, e.session.QuestionCount))
	}

	e.advanceLocked(target)
	return e.stateLocked(), nil
}

// advanceLocked persists the active answer, swaps timers atomically with the
// index change, and starts the countdown for the target question.
func (e *Engine) advanceLocked(target int) {
	e.persistActiveAnswerLocked()
	e.stopTimerLocked()

	e.session.CurrentIndex = target
	if err := e.sessions.UpdateFields(e.session.ID, map[string]interface{}{"current_index": target}); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist current index")
	}
	e.beginQuestionLocked(target)
}

// persistActiveAnswerLocked accrues time spent on the active question and
// writes its answer row so no in-progress answer is ever lost.
func (e *Engine) persistActiveAnswerLocked() {
	index := e.session.CurrentIndex
	spent := e.questions[index].TimeLimitSec - e.remaining
	if spent < 0 {
		spent = 0
	}
	stored, ok := e.answers.AddTime(index, spent)
	if !ok {
		return
	}
	e.upsertAnswerRowLocked(stored)
}

func (e *Engine) upsertAnswerRowLocked(stored StoredAnswer) {
	row := model.Answer{
		SessionID:     e.session.ID,
		QuestionIndex: stored.QuestionIndex,
		Text:          stored.Text,
		Source:        stored.Source,
		TimeSpentSec:  stored.TimeSpentSec,
		LastModified:  stored.LastModified,
	}
	if err := e.answersRepo.Upsert(&row); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).
			Int("index", stored.QuestionIndex).Msg("Failed to persist answer")
	}
}

// UpsertAnswer overwrites the stored text for a question index. Works for
// any in-range index while the session is InProgress; identical rewrites are
// no-ops.
func (e *Engine) UpsertAnswer(index int, text, source string) (StoredAnswer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != model.StatusInProgress {
		return StoredAnswer{}, apperr.InvalidTransition(string(e.session.Status), string(model.StatusInProgress))
	}
	stored, changed, err := e.answers.Upsert(index, text, source)
	if err != nil {
		return StoredAnswer{}, err
	}
	if changed {
		e.upsertAnswerRowLocked(stored)
	}
	return stored, nil
}

// ReportViolation feeds a client-observed integrity signal to the monitor's
// source queue. It never blocks the caller.
func (e *Engine) ReportViolation(kind, severity string) {
	e.signals.Push(ViolationEvent{Kind: kind, Severity: severity, OccurredAt: time.Now()})
}

// recordViolation is the monitor sink: append-only, never gating input.
func (e *Engine) recordViolation(ev ViolationEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Status != model.StatusInProgress {
		return
	}

	row := model.Violation{
		SessionID:  e.session.ID,
		Kind:       ev.Kind,
		Severity:   ev.Severity,
		OccurredAt: ev.OccurredAt,
	}
	if err := e.violations.Append(&row); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Str("kind", ev.Kind).Msg("Failed to append violation")
		return
	}
	e.session.Violations = append(e.session.Violations, row)
	log.Warn().Uint("sessionID", e.session.ID).Str("kind", ev.Kind).Str("severity", ev.Severity).
		Msg("Integrity violation recorded")
}

// escalate flags the session for review. Reporting only: the session keeps
// running and input is never blocked.
func (e *Engine) escalate(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Status != model.StatusInProgress {
		return
	}
	e.flagForReviewLocked(count)
}

func (e *Engine) flagForReviewLocked(count int) {
	if e.session.FlaggedForReview {
		return
	}
	e.session.FlaggedForReview = true
	if err := e.sessions.UpdateFields(e.session.ID, map[string]interface{}{"flagged_for_review": true}); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist review flag")
	}
	log.Warn().Uint("sessionID", e.session.ID).Int("violations", count).Msg("Session flagged for review")
}

// Finish completes the session explicitly.
func (e *Engine) Finish() (LiveState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.Status != model.StatusInProgress {
		return LiveState{}, apperr.InvalidTransition(string(e.session.Status), string(model.StatusCompleted))
	}
	e.finishLocked()
	return e.stateLocked(), nil
}

// finishLocked cancels the timer and monitor atomically with the status
// change, persists the final answer set locally, and hands off to the
// background completion/scoring flow. The local transition is optimistic:
// submission failures never roll it back.
func (e *Engine) finishLocked() {
	e.persistActiveAnswerLocked()
	e.stopTimerLocked()
	if e.monitor != nil {
		e.monitor.Stop()
		e.monitor = nil
	}

	now := time.Now()
	e.session.Status = model.StatusCompleted
	e.session.CompletedAt = &now
	if err := e.sessions.UpdateFields(e.session.ID, map[string]interface{}{
		"status":       model.StatusCompleted,
		"completed_at": now,
	}); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist completion")
	}

	snapshot := e.answers.Snapshot()
	flagged := e.session.FlaggedForReview
	degraded := e.session.DegradedAudio
	log.Info().Uint("sessionID", e.session.ID).Int("answers", len(snapshot)).Msg("Session completed")

	go e.completeAndScore(snapshot, flagged, degraded, false)
}

// Abort terminates the session from any non-terminal state.
func (e *Engine) Abort(reason string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.Status.CanTransition(model.StatusAborted) {
		return apperr.InvalidTransition(string(e.session.Status), string(model.StatusAborted))
	}
	if e.session.Status == model.StatusInProgress {
		e.persistActiveAnswerLocked()
	}
	e.stopTimerLocked()
	if e.monitor != nil {
		e.monitor.Stop()
		e.monitor = nil
	}

	e.session.Status = model.StatusAborted
	if err := e.sessions.UpdateStatus(e.session.ID, model.StatusAborted); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist abort")
	}
	log.Warn().Uint("sessionID", e.session.ID).Str("reason", reason).Msg("Session aborted")

	if e.onTerminal != nil {
		go e.onTerminal(e.session.ID)
	}
	return nil
}

// completeAndScore runs off the engine goroutine: submit the final answers
// (idempotently, retried until acknowledged or the budget runs out), then
// poll for feedback and transition Completed → Scored. When the budget runs
// out the session stays Completed; the manager re-arms this flow on the next
// read of the session.
func (e *Engine) completeAndScore(snapshot []StoredAnswer, flagged, degraded, acked bool) {
	ctx := context.Background()
	sessionID := e.session.ID
	backendID := e.session.BackendID
	token := e.token

	submission := service.BackendCompletionRequest{
		Answers:          make([]service.BackendAnswer, len(snapshot)),
		FlaggedForReview: flagged,
		DegradedAudio:    degraded,
	}
	for i, a := range snapshot {
		submission.Answers[i] = service.BackendAnswer{
			QuestionIndex: a.QuestionIndex,
			Text:          a.Text,
			TimeSpentSec:  a.TimeSpentSec,
		}
	}

	if !acked {
		idempotencyKey := uuid.NewString()
		err := e.cfg.CompletionRetry.Execute(ctx, func(ctx context.Context) error {
			return e.backend.SubmitCompletion(ctx, token, backendID, idempotencyKey, submission)
		})
		if err != nil {
			// The local Completed state stands; the unacknowledged submission
			// is retried the next time the session is read.
			log.Error().Err(err).Uint("sessionID", sessionID).Msg("Completion submission not acknowledged")
		} else {
			e.mu.Lock()
			e.session.CompletionAcked = true
			e.mu.Unlock()
			if err := e.sessions.UpdateFields(sessionID, map[string]interface{}{"completion_acked": true}); err != nil {
				log.Error().Err(err).Uint("sessionID", sessionID).Msg("Failed to persist completion ack")
			}
		}
	}

	outcome := e.poller.Poll(ctx, token, backendID)
	switch outcome.State {
	case service.PollReady:
		e.applyFeedback(outcome.Feedback)
	case service.PollError:
		if apperr.CodeOf(outcome.Err) == apperr.CodeFeedbackTimeout {
			log.Warn().Uint("sessionID", sessionID).Msg("Feedback delayed; session remains completed")
		} else {
			log.Error().Err(outcome.Err).Uint("sessionID", sessionID).Msg("Feedback polling failed")
		}
	}

	if e.onTerminal != nil {
		e.onTerminal(sessionID)
	}
}

func (e *Engine) applyFeedback(fb *service.BackendFeedback) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.session.Status.CanTransition(model.StatusScored) {
		log.Warn().Uint("sessionID", e.session.ID).Str("status", string(e.session.Status)).
			Msg("Dropping feedback for session no longer completable")
		return
	}

	row := model.Feedback{
		SessionID:          e.session.ID,
		OverallScore:       fb.OverallScore,
		Communication:      fb.Communication,
		TechnicalKnowledge: fb.TechnicalKnowledge,
		ProblemSolving:     fb.ProblemSolving,
		Confidence:         fb.Confidence,
		Strengths:          fb.Strengths,
		Weaknesses:         fb.Weaknesses,
		Recommendations:    fb.Recommendations,
	}
	if err := e.feedbackRepo.Save(&row); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist feedback")
		return
	}
	e.session.Feedback = &row
	e.session.Status = model.StatusScored
	if err := e.sessions.UpdateStatus(e.session.ID, model.StatusScored); err != nil {
		log.Error().Err(err).Uint("sessionID", e.session.ID).Msg("Failed to persist scored status")
	}
	log.Info().Uint("sessionID", e.session.ID).Float64("overall", fb.OverallScore).Msg("Session scored")
}

// State returns a snapshot of the live session.
func (e *Engine) State() LiveState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stateLocked()
}

func (e *Engine) stateLocked() LiveState {
	return LiveState{
		SessionID:          e.session.ID,
		Status:             string(e.session.Status),
		CurrentIndex:       e.session.CurrentIndex,
		RemainingSec:       e.remaining,
		QuestionCount:      e.session.QuestionCount,
		CompletionFraction: e.answers.CompletionFraction(),
		FlaggedForReview:   e.session.FlaggedForReview,
		DegradedAudio:      e.session.DegradedAudio,
	}
}

// RemainingSec reports the active countdown, or false when no timer is live.
func (e *Engine) RemainingSec() (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer == nil {
		return 0, false
	}
	return e.remaining, true
}
