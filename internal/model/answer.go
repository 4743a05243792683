package model

import (
	"time"

	"gorm.io/gorm"
)

// Answer input channels.
const (
	AnswerSourceTyped = "typed"
	AnswerSourceVoice = "voice"
)

type Answer struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	SessionID     uint           `json:"session_id" gorm:"not null;index:idx_session_question,unique"`
	QuestionIndex int            `json:"question_index" gorm:"not null;index:idx_session_question,unique"`
	Text          string         `json:"text" gorm:"type:text"`
	Source        string         `json:"source" gorm:"not null;default:'typed'"` // last channel that wrote the text
	TimeSpentSec  int            `json:"time_spent_sec" gorm:"not null;default:0"`
	LastModified  time.Time      `json:"last_modified"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
