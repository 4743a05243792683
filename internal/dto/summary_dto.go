package dto

// DimensionScoreDTO is one radar dimension on the 0-100 display scale.
// Derived dimensions are presentation-only heuristics, not measured scores.
type DimensionScoreDTO struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Derived bool   `json:"derived,omitempty"`
}

// SessionSummaryDTO is the final summary view model produced by the score
// aggregator from a fetched session record. While scoring is still pending
// only the session fields are populated and ScoringPending is true.
type SessionSummaryDTO struct {
	SessionID          uint                `json:"session_id"`
	Status             string              `json:"status"`
	ScoringPending     bool                `json:"scoring_pending"`
	OverallScore       int                 `json:"overall_score"`
	Dimensions         []DimensionScoreDTO `json:"dimensions,omitempty"`
	Strengths          []string            `json:"strengths,omitempty"`
	Weaknesses         []string            `json:"weaknesses,omitempty"`
	Recommendations    []string            `json:"recommendations,omitempty"`
	CompletionFraction float64             `json:"completion_fraction"`
	ViolationCount     int                 `json:"violation_count"`
	FlaggedForReview   bool                `json:"flagged_for_review"`
}
