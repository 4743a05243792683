package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeedbackRepository interface {
	Save(feedback *model.Feedback) error
	FindBySession(sessionID uint) (*model.Feedback, error)
}

type feedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Save is idempotent per session: polling the backend twice for the same
// session overwrites the row rather than duplicating it.
func (r *feedbackRepository) Save(feedback *model.Feedback) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"overall_score", "communication", "technical_knowledge",
			"problem_solving", "confidence", "strengths", "weaknesses",
			"recommendations", "updated_at",
		}),
	}).Create(feedback).Error
}

func (r *feedbackRepository) FindBySession(sessionID uint) (*model.Feedback, error) {
	var feedback model.Feedback
	err := r.db.Where("session_id = ?", sessionID).First(&feedback).Error
	return &feedback, err
}
