package dto

// SessionCreateDTO carries the job context and interview parameters a
// candidate submits to configure a new mock interview session.
type SessionCreateDTO struct {
	UserID         *uint   `json:"user_id"`
	JobTitle       string  `json:"job_title" binding:"required"`
	Company        string  `json:"company"`
	JobDescription string  `json:"job_description"`
	ResumeRef      *string `json:"resume_ref"`

	InterviewType      string `json:"interview_type" binding:"required,oneof=behavioral technical mixed"`
	ExperienceLevel    string `json:"experience_level" binding:"required,oneof=entry mid senior"`
	QuestionCount      int    `json:"question_count" binding:"required,min=5,max=20"`
	TimePerQuestionMin int    `json:"time_per_question_min" binding:"required,min=1,max=5"`
}

// PreflightSignalDTO reports a client-observed capability result for a single
// preflight check. Passed is ignored by server-probed checks (network).
type PreflightSignalDTO struct {
	Passed *bool  `json:"passed"`
	Detail string `json:"detail"`
}

// NavigateDTO moves the active question pointer. TargetIndex is required for
// the "jump" action and ignored otherwise.
type NavigateDTO struct {
	Action      string `json:"action" binding:"required,oneof=next previous skip jump"`
	TargetIndex *int   `json:"target_index"`
}

// AnswerUpsertDTO overwrites the stored answer text for a question index.
// Source distinguishes the typed channel from voice-to-text; the merge policy
// across channels is most-recent-write-wins.
type AnswerUpsertDTO struct {
	Text   string `json:"text"`
	Source string `json:"source" binding:"omitempty,oneof=typed voice"`
}

// ViolationReportDTO is a client-observed integrity signal fed to the
// session's integrity monitor.
type ViolationReportDTO struct {
	Kind     string `json:"kind" binding:"required"`
	Severity string `json:"severity" binding:"required,oneof=info warning critical"`
}

// AbortDTO optionally records why the candidate (or a fatal error path)
// aborted the session.
type AbortDTO struct {
	Reason string `json:"reason"`
}
