package service

import (
	"fmt"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SessionQueryService serves read-only session views: the full detail record
// (also used for resume-on-reload) and the per-user history listing.
type SessionQueryService interface {
	GetSessionDetails(sessionID uint) (*dto.SessionDetailDTO, error)
	GetSessionSummary(sessionID uint) (*dto.SessionSummaryDTO, error)
	ListSessions(userID *uint) ([]dto.SessionListItemDTO, error)
}

type sessionQueryService struct {
	sessions   repository.SessionRepository
	aggregator ScoreAggregatorService
}

func NewSessionQueryService(sessions repository.SessionRepository, aggregator ScoreAggregatorService) SessionQueryService {
	return &sessionQueryService{sessions: sessions, aggregator: aggregator}
}

func (s *sessionQueryService) GetSessionDetails(sessionID uint) (*dto.SessionDetailDTO, error) {
	session, err := s.sessions.FindByIDWithDetails(sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound(fmt.Sprintf("session %d not found", sessionID))
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("GetSessionDetails: repository error")
		return nil, fmt.Errorf("error fetching session %d: %w", sessionID, err)
	}
	return sessionDetailDTO(session)
}

// GetSessionSummary builds the score summary view. Callable as soon as the
// session completes: before feedback lands the summary reports ScoringPending
// with only the session-derived fields filled in.
func (s *sessionQueryService) GetSessionSummary(sessionID uint) (*dto.SessionSummaryDTO, error) {
	session, err := s.sessions.FindByIDWithDetails(sessionID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound(fmt.Sprintf("session %d not found", sessionID))
		}
		log.Error().Err(err).Uint("sessionID", sessionID).Msg("GetSessionSummary: repository error")
		return nil, fmt.Errorf("error fetching session %d: %w", sessionID, err)
	}
	return s.aggregator.BuildSummary(session), nil
}

func (s *sessionQueryService) ListSessions(userID *uint) ([]dto.SessionListItemDTO, error) {
	sessions, err := s.sessions.FindAllByUser(userID)
	if err != nil {
		log.Error().Err(err).Interface("userID", userID).Msg("ListSessions: repository error")
		return nil, fmt.Errorf("error fetching sessions: %w", err)
	}

	items := make([]dto.SessionListItemDTO, 0, len(sessions))
	for _, session := range sessions {
		item := dto.SessionListItemDTO{
			ID:            session.ID,
			Status:        string(session.Status),
			JobTitle:      session.JobTitle,
			InterviewType: session.InterviewType,
			QuestionCount: session.QuestionCount,
			CreatedAt:     session.CreatedAt,
			CompletedAt:   session.CompletedAt,
		}
		if session.Feedback != nil {
			score := s.aggregator.DisplayScore(session.Feedback.OverallScore)
			item.OverallScore = &score
		}
		items = append(items, item)
	}
	return items, nil
}
