package service

import (
	"math"

	"github.com/lshigami/Margays/internal/dto"
	"github.com/lshigami/Margays/internal/model"
)

// Raw subscores arrive on a 0-10 scale and are displayed on 0-100.
const (
	MaxRawScore     float64 = 10.0
	MaxDisplayScore         = 100
)

// Fixed linear offsets for the two derived radar dimensions. These are
// presentation heuristics, not measured scores.
const (
	articulationOffset = 5
	composureOffset    = -5
)

// ScoreAggregatorService turns a fetched session record into the summary
// view model. It is the only producer of summary data; there is no separate
// sample-data path.
type ScoreAggregatorService interface {
	BuildSummary(session *model.Session) *dto.SessionSummaryDTO
	DisplayScore(raw float64) int
}

type scoreAggregatorService struct{}

func NewScoreAggregatorService() ScoreAggregatorService {
	return &scoreAggregatorService{}
}

// DisplayScore converts a raw 0-10 score to the 0-100 display scale,
// clamped to [0, 100].
func (s *scoreAggregatorService) DisplayScore(raw float64) int {
	return clampScore(int(math.Round(raw * 10)))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxDisplayScore {
		return MaxDisplayScore
	}
	return score
}

// BuildSummary produces the session summary view model. While the session
// has no feedback yet, only the session-derived fields are populated and
// ScoringPending is set.
func (s *scoreAggregatorService) BuildSummary(session *model.Session) *dto.SessionSummaryDTO {
	summary := &dto.SessionSummaryDTO{
		SessionID:          session.ID,
		Status:             string(session.Status),
		CompletionFraction: completionFraction(session),
		ViolationCount:     len(session.Violations),
		FlaggedForReview:   session.FlaggedForReview,
	}

	fb := session.Feedback
	if fb == nil {
		summary.ScoringPending = true
		return summary
	}

	communication := s.DisplayScore(fb.Communication)
	confidence := s.DisplayScore(fb.Confidence)

	summary.OverallScore = s.DisplayScore(fb.OverallScore)
	summary.Dimensions = []dto.DimensionScoreDTO{
		{Name: "communication", Score: communication},
		{Name: "technical_knowledge", Score: s.DisplayScore(fb.TechnicalKnowledge)},
		{Name: "problem_solving", Score: s.DisplayScore(fb.ProblemSolving)},
		{Name: "confidence", Score: confidence},
		{Name: "articulation", Score: clampScore(communication + articulationOffset), Derived: true},
		{Name: "composure", Score: clampScore(confidence + composureOffset), Derived: true},
	}
	summary.Strengths = fb.Strengths
	summary.Weaknesses = fb.Weaknesses
	summary.Recommendations = fb.Recommendations
	return summary
}
