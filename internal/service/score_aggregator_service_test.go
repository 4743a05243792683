package service

import (
	"testing"

	"github.com/lshigami/Margays/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayScoreConversion(t *testing.T) {
	aggregator := NewScoreAggregatorService()

	cases := []struct {
		raw  float64
		want int
	}{
		{0, 0},
		{7.8, 78},
		{7.85, 79},
		{10, 100},
		{10.4, 100}, // clamped
		{-1, 0},     // clamped
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, aggregator.DisplayScore(tc.raw), "raw %v", tc.raw)
	}
}

func TestBuildSummaryPendingWhileUnscored(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	session := &model.Session{
		Status:        model.StatusCompleted,
		QuestionCount: 4,
		Answers: []model.Answer{
			{QuestionIndex: 0, Text: "answered"},
			{QuestionIndex: 1, Text: ""},
		},
		Violations:       []model.Violation{{Kind: model.ViolationTabSwitch}},
		FlaggedForReview: true,
	}
	session.ID = 7

	summary := aggregator.BuildSummary(session)

	assert.True(t, summary.ScoringPending)
	assert.Zero(t, summary.OverallScore)
	assert.Empty(t, summary.Dimensions)
	assert.InDelta(t, 0.25, summary.CompletionFraction, 1e-9)
	assert.Equal(t, 1, summary.ViolationCount)
	assert.True(t, summary.FlaggedForReview)
}

func TestBuildSummaryWithFeedback(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	session := &model.Session{
		Status:        model.StatusScored,
		QuestionCount: 2,
		Answers: []model.Answer{
			{QuestionIndex: 0, Text: "a"},
			{QuestionIndex: 1, Text: "b"},
		},
		Feedback: &model.Feedback{
			OverallScore:       7.8,
			Communication:      8.0,
			TechnicalKnowledge: 7.5,
			ProblemSolving:     7.0,
			Confidence:         6.5,
			Strengths:          []string{"structure"},
			Weaknesses:         []string{"depth"},
			Recommendations:    []string{"practice system design"},
		},
	}

	summary := aggregator.BuildSummary(session)

	assert.False(t, summary.ScoringPending)
	assert.Equal(t, 78, summary.OverallScore)
	require.Len(t, summary.Dimensions, 6)

	byName := make(map[string]int)
	derived := make(map[string]bool)
	for _, dim := range summary.Dimensions {
		byName[dim.Name] = dim.Score
		derived[dim.Name] = dim.Derived
	}
	assert.Equal(t, 80, byName["communication"])
	assert.Equal(t, 75, byName["technical_knowledge"])
	assert.Equal(t, 70, byName["problem_solving"])
	assert.Equal(t, 65, byName["confidence"])
	assert.Equal(t, 85, byName["articulation"], "articulation derives from communication")
	assert.Equal(t, 60, byName["composure"], "composure derives from confidence")
	assert.True(t, derived["articulation"])
	assert.True(t, derived["composure"])
	assert.False(t, derived["communication"])

	assert.Equal(t, []string{"structure"}, summary.Strengths)
	assert.InDelta(t, 1.0, summary.CompletionFraction, 1e-9)
}

func TestBuildSummaryDerivedDimensionsClamp(t *testing.T) {
	aggregator := NewScoreAggregatorService()
	session := &model.Session{
		Status:        model.StatusScored,
		QuestionCount: 1,
		Feedback: &model.Feedback{
			OverallScore:  9.9,
			Communication: 9.8, // articulation would be 103 unclamped
			Confidence:    0.2, // composure would be -3 unclamped
		},
	}

	summary := aggregator.BuildSummary(session)

	byName := make(map[string]int)
	for _, dim := range summary.Dimensions {
		byName[dim.Name] = dim.Score
	}
	assert.Equal(t, 100, byName["articulation"])
	assert.Equal(t, 0, byName["composure"])
}
