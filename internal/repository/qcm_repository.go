package repository

import (
	"qcm_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QcmRepository struct {
	DB *gorm.DB
}

func NewQcmRepository(db *gorm.DB) *QcmRepository {
	return &QcmRepository{DB: db}
}

// Save inserts or updates in place. Regeneration reuses the same row, so the
// quiz id referenced by documents, videos and results stays stable.
func (r *QcmRepository) Save(qcm *model.Qcm) error {
	return r.DB.Save(qcm).Error
}

func (r *QcmRepository) FindByID(id uint) (*model.Qcm, error) {
	var qcm model.Qcm
	err := r.DB.First(&qcm, id).Error
	return &qcm, err
}
