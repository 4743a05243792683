package dto

import "time"

// QuestionResponseDTO is used for displaying question details to candidates.
type QuestionResponseDTO struct {
	ID             uint     `json:"id"`
	OrderInSession int      `json:"order_in_session"`
	Text           string   `json:"text"`
	Type           string   `json:"type"`
	Category       string   `json:"category,omitempty"`
	Difficulty     string   `json:"difficulty,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	TimeLimitSec   int      `json:"time_limit_sec"`
}

// AnswerResponseDTO is a stored response for one question index.
type AnswerResponseDTO struct {
	QuestionIndex int       `json:"question_index"`
	Text          string    `json:"text"`
	Source        string    `json:"source"`
	TimeSpentSec  int       `json:"time_spent_sec"`
	LastModified  time.Time `json:"last_modified"`
}

// ViolationResponseDTO is one entry of the append-only violation log.
type ViolationResponseDTO struct {
	Kind       string    `json:"kind"`
	Severity   string    `json:"severity"`
	OccurredAt time.Time `json:"occurred_at"`
}

// FeedbackResponseDTO is the raw 0-10 scoring result from the backend.
type FeedbackResponseDTO struct {
	OverallScore       float64  `json:"overall_score"`
	Communication      float64  `json:"communication"`
	TechnicalKnowledge float64  `json:"technical_knowledge"`
	ProblemSolving     float64  `json:"problem_solving"`
	Confidence         float64  `json:"confidence"`
	Strengths          []string `json:"strengths,omitempty"`
	Weaknesses         []string `json:"weaknesses,omitempty"`
	Recommendations    []string `json:"recommendations,omitempty"`
}

// SessionDetailDTO is the full session record, used both for the live view
// and for resume-on-reload.
type SessionDetailDTO struct {
	ID                 uint                   `json:"id"`
	BackendID          string                 `json:"backend_id"`
	UserID             *uint                  `json:"user_id,omitempty"`
	Status             string                 `json:"status"`
	JobTitle           string                 `json:"job_title"`
	Company            string                 `json:"company,omitempty"`
	InterviewType      string                 `json:"interview_type"`
	ExperienceLevel    string                 `json:"experience_level"`
	QuestionCount      int                    `json:"question_count"`
	TimePerQuestionMin int                    `json:"time_per_question_min"`
	CurrentIndex       int                    `json:"current_index"`
	RemainingSec       *int                   `json:"remaining_sec,omitempty"` // only while a live timer exists
	CompletionFraction float64                `json:"completion_fraction"`
	DegradedAudio      bool                   `json:"degraded_audio"`
	FlaggedForReview   bool                   `json:"flagged_for_review"`
	StartedAt          *time.Time             `json:"started_at,omitempty"`
	CompletedAt        *time.Time             `json:"completed_at,omitempty"`
	Questions          []QuestionResponseDTO  `json:"questions,omitempty"`
	Answers            []AnswerResponseDTO    `json:"answers,omitempty"`
	Violations         []ViolationResponseDTO `json:"violations,omitempty"`
	Feedback           *FeedbackResponseDTO   `json:"feedback,omitempty"`
	CreatedAt          time.Time              `json:"created_at"`
}

// SessionListItemDTO is one row of a candidate's session history.
type SessionListItemDTO struct {
	ID            uint       `json:"id"`
	Status        string     `json:"status"`
	JobTitle      string     `json:"job_title"`
	InterviewType string     `json:"interview_type"`
	QuestionCount int        `json:"question_count"`
	OverallScore  *int       `json:"overall_score,omitempty"` // 0-100 display scale, present once scored
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// PreflightCheckDTO is the state of one environment capability probe.
type PreflightCheckDTO struct {
	Kind      string    `json:"kind"`
	Status    string    `json:"status"` // "checking", "success", "failed"
	Detail    string    `json:"detail,omitempty"`
	Mandatory bool      `json:"mandatory"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PreflightBoardDTO aggregates all checks for a session.
type PreflightBoardDTO struct {
	SessionID                uint                `json:"session_id"`
	Checks                   []PreflightCheckDTO `json:"checks"`
	AllMandatoryChecksPassed bool                `json:"all_mandatory_checks_passed"`
}

type ErrorResponse struct {
	Message string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Field   string   `json:"field,omitempty"`
	Details []string `json:"details,omitempty"`
}
