package repository

import (
	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.Session) error
	Update(session *model.Session) error
	UpdateStatus(id uint, status model.SessionStatus) error
	UpdateFields(id uint, fields map[string]interface{}) error
	FindByID(id uint) (*model.Session, error)
	FindByIDWithDetails(id uint) (*model.Session, error)
	FindAllByUser(userID *uint) ([]model.Session, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	// GORM creates associated Questions when session.Questions is populated.
	return r.db.Create(session).Error
}

func (r *sessionRepository) Update(session *model.Session) error {
	return r.db.Save(session).Error
}

func (r *sessionRepository) UpdateStatus(id uint, status model.SessionStatus) error {
	return r.db.Model(&model.Session{}).Where("id = ?", id).Update("status", status).Error
}

func (r *sessionRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&model.Session{}).Where("id = ?", id).Updates(fields).Error
}

func (r *sessionRepository) FindByID(id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindByIDWithDetails(id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.order_in_session ASC")
		}).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.question_index ASC")
		}).
		Preload("Violations", func(db *gorm.DB) *gorm.DB {
			return db.Order("violations.occurred_at ASC")
		}).
		Preload("Feedback").
		First(&session, id).Error
	return &session, err
}

func (r *sessionRepository) FindAllByUser(userID *uint) ([]model.Session, error) {
	var sessions []model.Session
	query := r.db.Preload("Feedback")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	err := query.Order("created_at DESC").Find(&sessions).Error
	return sessions, err
}
