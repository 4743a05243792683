package model

import (
	"time"

	"gorm.io/gorm"
)

// Violation kinds reported by the integrity monitor.
const (
	ViolationMultipleFaces   = "multiple_faces"
	ViolationNoFace          = "no_face"
	ViolationTabSwitch       = "tab_switch"
	ViolationWindowBlur      = "window_blur"
	ViolationBackgroundVoice = "background_voice"
)

// Violation severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Violation is an append-only integrity-monitoring event. Recording one
// never blocks or gates user input.
type Violation struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	SessionID  uint           `json:"session_id" gorm:"not null;index"`
	Kind       string         `json:"kind" gorm:"not null"`
	Severity   string         `json:"severity" gorm:"not null"`
	OccurredAt time.Time      `json:"occurred_at" gorm:"not null;index"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
