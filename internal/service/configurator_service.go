package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
)

// Configuration bounds for interview parameters.
const (
	MinQuestionCount      = 5
	MaxQuestionCount      = 20
	MinTimePerQuestionMin = 1
	MaxTimePerQuestionMin = 5
)

// SessionConfiguratorService validates interview parameters, asks the
// backend to generate the question set, and persists the resulting session.
type SessionConfiguratorService interface {
	CreateSession(ctx context.Context, token string, req dto.SessionCreateDTO) (*dto.SessionDetailDTO, error)
}

type sessionConfiguratorService struct {
	sessions repository.SessionRepository
	backend  BackendService
	retry    RetryPolicy
}

func NewSessionConfiguratorService(sessions repository.SessionRepository, backend BackendService) SessionConfiguratorService {
	return &sessionConfiguratorService{
		sessions: sessions,
		backend:  backend,
		retry:    DefaultRetryPolicy(),
	}
}

func validateCreateRequest(req dto.SessionCreateDTO) error {
	if strings.TrimSpace(req.JobTitle) == "" {
		return apperr.Validation("job_title", "job title is required")
	}
	switch req.InterviewType {
	case model.InterviewTypeBehavioral, model.InterviewTypeTechnical, model.InterviewTypeMixed:
	default:
		return apperr.Validation("interview_type", fmt.Sprintf("unknown interview type %q", req.InterviewType))
	}
	if strings.TrimSpace(req.ExperienceLevel) == "" {
		return apperr.Validation("experience_level", "experience level is required")
	}
	if req.QuestionCount < MinQuestionCount || req.QuestionCount > MaxQuestionCount {
		return apperr.Validation("question_count", fmt.Sprintf("question count must be between %d and %d", MinQuestionCount, MaxQuestionCount))
	}
	if req.TimePerQuestionMin < MinTimePerQuestionMin || req.TimePerQuestionMin > MaxTimePerQuestionMin {
		return apperr.Validation("time_per_question_min", fmt.Sprintf("time per question must be between %d and %d minutes", MinTimePerQuestionMin, MaxTimePerQuestionMin))
	}
	return nil
}

// CreateSession walks the session through Created → Configuring → Preflight.
// A backend failure during the required configuration step aborts the
// session rather than leaving it half-configured.
func (s *sessionConfiguratorService) CreateSession(ctx context.Context, token string, req dto.SessionCreateDTO) (*dto.SessionDetailDTO, error) {
	if err := validateCreateRequest(req); err != nil {
		return nil, err
	}

	session := model.Session{
		Status:             model.StatusCreated,
		UserID:             req.UserID,
		JobTitle:           strings.TrimSpace(req.JobTitle),
		Company:            req.Company,
		JobDescription:     req.JobDescription,
		ResumeRef:          req.ResumeRef,
		InterviewType:      req.InterviewType,
		ExperienceLevel:    req.ExperienceLevel,
		QuestionCount:      req.QuestionCount,
		TimePerQuestionMin: req.TimePerQuestionMin,
		// Placeholder until the backend issues the real id; the column is unique.
		BackendID: fmt.Sprintf("local-%d", time.Now().UnixNano()),
	}
	if err := s.sessions.Create(&session); err != nil {
		log.Error().Err(err).Msg("CreateSession: failed to persist new session")
		return nil, fmt.Errorf("failed to create session record: %w", err)
	}

	if err := s.transition(&session, model.StatusConfiguring); err != nil {
		return nil, err
	}

	var created *BackendSessionCreated
	err := s.retry.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		created, opErr = s.backend.CreateSession(ctx, token, BackendCreateSessionRequest{
			JobTitle:           session.JobTitle,
			Company:            session.Company,
			JobDescription:     session.JobDescription,
			ResumeRef:          session.ResumeRef,
			InterviewType:      session.InterviewType,
			ExperienceLevel:    session.ExperienceLevel,
			QuestionCount:      session.QuestionCount,
			TimePerQuestionMin: session.TimePerQuestionMin,
		})
		return opErr
	})
	if err != nil {
		s.abort(&session, "backend session creation failed")
		if apperr.CodeOf(err) == apperr.CodeUnauthorized {
			return nil, err
		}
		return nil, apperr.FatalSession("backend unreachable while creating session", err)
	}

	if len(created.Questions) != session.QuestionCount {
		s.abort(&session, "backend returned wrong question count")
		return nil, apperr.FatalSession(
			fmt.Sprintf("backend returned %d questions, expected %d", len(created.Questions), session.QuestionCount), nil)
	}

	session.BackendID = created.SessionID
	session.Questions = make([]model.Question, len(created.Questions))
	for i, q := range created.Questions {
		timeLimit := q.TimeLimitSec
		if timeLimit <= 0 {
			timeLimit = session.TimePerQuestionMin * 60
		}
		session.Questions[i] = model.Question{
			SessionID:      session.ID,
			OrderInSession: i,
			Text:           q.Text,
			Type:           q.Type,
			Category:       q.Category,
			Difficulty:     q.Difficulty,
			Skills:         q.Skills,
			TimeLimitSec:   timeLimit,
		}
	}
	session.Status = model.StatusPreflight
	if err := s.sessions.Update(&session); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("CreateSession: failed to persist questions")
		return nil, fmt.Errorf("failed to persist session questions: %w", err)
	}

	log.Info().Uint("sessionID", session.ID).Str("backendID", session.BackendID).
		Int("questions", len(session.Questions)).Msg("Session configured, awaiting preflight")
	return sessionDetailDTO(&session)
}

func (s *sessionConfiguratorService) transition(session *model.Session, next model.SessionStatus) error {
	if !session.Status.CanTransition(next) {
		return apperr.InvalidTransition(string(session.Status), string(next))
	}
	if err := s.sessions.UpdateStatus(session.ID, next); err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	session.Status = next
	return nil
}

func (s *sessionConfiguratorService) abort(session *model.Session, reason string) {
	log.Warn().Uint("sessionID", session.ID).Str("reason", reason).Msg("Aborting session")
	if err := s.sessions.UpdateStatus(session.ID, model.StatusAborted); err != nil {
		log.Error().Err(err).Uint("sessionID", session.ID).Msg("Failed to mark session aborted")
	}
	session.Status = model.StatusAborted
}
