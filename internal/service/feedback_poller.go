package service

import (
	"context"
	"time"

	"github.com/lshigami/Margays/config"
	"github.com/lshigami/Margays/internal/apperr"
	"github.com/rs/zerolog/log"
)

// PollState is the tri-state outcome of a feedback poll.
type PollState string

const (
	PollPending PollState = "pending"
	PollReady   PollState = "ready"
	PollError   PollState = "error"
)

// PollOutcome carries the final state of a bounded polling run. A
// FEEDBACK_TIMEOUT-coded Err means scoring is merely delayed: the completed
// session stays valid and polling may be re-armed later.
type PollOutcome struct {
	State    PollState
	Feedback *BackendFeedback
	Err      error
}

// PollPolicy bounds the polling loop: a mildly backing-off interval with an
// upper bound on total wait.
type PollPolicy struct {
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	MaxWait     time.Duration
}

// FeedbackPoller retrieves asynchronously generated scoring after session
// completion. Transient backend errors are retried within the wait budget;
// only persistent failures surface as PollError.
type FeedbackPoller interface {
	Poll(ctx context.Context, token, backendID string) PollOutcome
}

type feedbackPoller struct {
	backend BackendService
	policy  PollPolicy
}

func NewFeedbackPoller(backend BackendService, cfg *config.Config) FeedbackPoller {
	return &feedbackPoller{
		backend: backend,
		policy: PollPolicy{
			Interval:    cfg.Engine.FeedbackPollInterval,
			MaxInterval: cfg.Engine.FeedbackPollMaxInterval,
			Multiplier:  1.5,
			MaxWait:     cfg.Engine.FeedbackPollMaxWait,
		},
	}
}

// NewFeedbackPollerWithPolicy is used by callers that need explicit bounds.
func NewFeedbackPollerWithPolicy(backend BackendService, policy PollPolicy) FeedbackPoller {
	return &feedbackPoller{backend: backend, policy: policy}
}

func (p *feedbackPoller) Poll(ctx context.Context, token, backendID string) PollOutcome {
	deadline := time.Now().Add(p.policy.MaxWait)
	interval := p.policy.Interval

	for {
		state, err := p.backend.GetSession(ctx, token, backendID)
		switch {
		case err != nil && apperr.CodeOf(err) == apperr.CodeNetwork:
			// Transient; keep polling within the budget.
			log.Warn().Err(err).Str("backendID", backendID).Msg("Feedback poll: transient backend error")
		case err != nil:
			return PollOutcome{State: PollError, Err: err}
		case state.Feedback != nil:
			return PollOutcome{State: PollReady, Feedback: state.Feedback}
		}

		if time.Now().Add(interval).After(deadline) {
			return PollOutcome{
				State: PollError,
				Err:   apperr.FeedbackTimeout("scoring not ready within polling budget"),
			}
		}

		select {
		case <-ctx.Done():
			return PollOutcome{State: PollError, Err: ctx.Err()}
		case <-time.After(interval):
		}

		interval = time.Duration(float64(interval) * p.policy.Multiplier)
		if interval > p.policy.MaxInterval {
			interval = p.policy.MaxInterval
		}
	}
}
