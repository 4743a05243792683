package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository interface {
	Upsert(answer *model.Answer) error
	FindBySession(sessionID uint) ([]model.Answer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// Upsert inserts or overwrites the answer row keyed by (session, question index).
// Repeated identical writes are harmless, which keeps completion submission
// retries idempotent.
func (r *answerRepository) Upsert(answer *model.Answer) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_index"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "source", "time_spent_sec", "last_modified", "updated_at"}),
	}).Create(answer).Error
}

func (r *answerRepository) FindBySession(sessionID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.db.Where("session_id = ?", sessionID).Order("question_index ASC").Find(&answers).Error
	return answers, err
}
