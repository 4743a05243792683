package model

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	SessionID      uint           `json:"session_id" gorm:"not null;index"`
	OrderInSession int            `json:"order_in_session" gorm:"not null"` // 0-based index within the session
	Text           string         `json:"text" gorm:"type:text;not null"`
	Type           string         `json:"type" gorm:"not null"` // "behavioral", "technical"
	Category       string         `json:"category,omitempty"`
	Difficulty     string         `json:"difficulty,omitempty"`
	Skills         []string       `json:"skills,omitempty" gorm:"serializer:json"`
	TimeLimitSec   int            `json:"time_limit_sec" gorm:"not null"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
