package model

import (
	"time"

	"gorm.io/gorm"
)

// Interview types accepted by the configurator.
const (
	InterviewTypeBehavioral = "behavioral"
	InterviewTypeTechnical  = "technical"
	InterviewTypeMixed      = "mixed"
)

// Session is one instance of a configured, timed mock interview from
// creation to scoring. Once Scored it is a read-only record.
type Session struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	BackendID string        `json:"backend_id" gorm:"uniqueIndex;not null"` // id issued by the interview backend
	UserID    *uint         `json:"user_id,omitempty" gorm:"index"`
	Status    SessionStatus `json:"status" gorm:"not null;default:'created';index"`

	// Job context supplied at configuration time.
	JobTitle       string  `json:"job_title" gorm:"not null"`
	Company        string  `json:"company,omitempty"`
	JobDescription string  `json:"job_description,omitempty" gorm:"type:text"`
	ResumeRef      *string `json:"resume_ref,omitempty"`

	// Interview parameters.
	InterviewType      string `json:"interview_type" gorm:"not null"`
	ExperienceLevel    string `json:"experience_level" gorm:"not null"`
	QuestionCount      int    `json:"question_count" gorm:"not null"`
	TimePerQuestionMin int    `json:"time_per_question_min" gorm:"not null"`

	// Runtime state.
	CurrentIndex     int  `json:"current_index" gorm:"not null;default:0"`
	DegradedAudio    bool `json:"degraded_audio" gorm:"not null;default:false"`     // microphone preflight failed, non-blocking
	FlaggedForReview bool `json:"flagged_for_review" gorm:"not null;default:false"` // integrity escalation, reporting only
	CompletionAcked  bool `json:"completion_acked" gorm:"not null;default:false"`   // backend acknowledged the final answer set

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Questions  []Question  `json:"questions,omitempty" gorm:"foreignKey:SessionID"`
	Answers    []Answer    `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Violations []Violation `json:"violations,omitempty" gorm:"foreignKey:SessionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Feedback   *Feedback   `json:"feedback,omitempty" gorm:"foreignKey:SessionID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
