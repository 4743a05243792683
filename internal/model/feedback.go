package model

import (
	"time"

	"gorm.io/gorm"
)

// Feedback is the asynchronous scoring result produced by the backend after
// session completion. All subscores are on the raw 0-10 scale.
type Feedback struct {
	ID        uint `gorm:"primarykey" json:"id"`
	SessionID uint `json:"session_id" gorm:"not null;uniqueIndex"`

	OverallScore       float64 `json:"overall_score"`
	Communication      float64 `json:"communication"`
	TechnicalKnowledge float64 `json:"technical_knowledge"`
	ProblemSolving     float64 `json:"problem_solving"`
	Confidence         float64 `json:"confidence"`

	Strengths       []string `json:"strengths,omitempty" gorm:"serializer:json"`
	Weaknesses      []string `json:"weaknesses,omitempty" gorm:"serializer:json"`
	Recommendations []string `json:"recommendations,omitempty" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
