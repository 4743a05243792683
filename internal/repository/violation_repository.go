package repository

import (
	"time"

	"github.com/lshigami/Margays/internal/model"
	"gorm.io/gorm"
)

type ViolationRepository interface {
	Append(violation *model.Violation) error
	FindBySession(sessionID uint) ([]model.Violation, error)
	CountSince(sessionID uint, since time.Time) (int64, error)
}

type violationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) ViolationRepository {
	return &violationRepository{db: db}
}

// Append adds one entry to the append-only violation log. The log is never
// updated or rewritten.
func (r *violationRepository) Append(violation *model.Violation) error {
	return r.db.Create(violation).Error
}

func (r *violationRepository) FindBySession(sessionID uint) ([]model.Violation, error) {
	var violations []model.Violation
	err := r.db.Where("session_id = ?", sessionID).Order("occurred_at ASC").Find(&violations).Error
	return violations, err
}

func (r *violationRepository) CountSince(sessionID uint, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Violation{}).
		Where("session_id = ? AND occurred_at >= ?", sessionID, since).
		Count(&count).Error
	return count, err
}
