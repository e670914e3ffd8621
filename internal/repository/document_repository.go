package repository

import (
	"qcm_edu_backend/internal/model"

	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(doc *model.Document) error {
	return r.DB.Create(doc).Error
}

func (r *DocumentRepository) FindByID(id uint) (*model.Document, error) {
	var doc model.Document
	err := r.DB.Preload("Qcm").First(&doc, id).Error
	return &doc, err
}

func (r *DocumentRepository) FindAll() ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Preload("Qcm").Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) FindByUser(userID uint) ([]model.Document, error) {
	var docs []model.Document
	err := r.DB.Preload("Qcm").Where("user_id = ?", userID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// Delete removes the document and its quiz, if any, in one transaction.
func (r *DocumentRepository) Delete(doc *model.Document) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", doc.ID).Delete(&model.Qcm{}).Error; err != nil {
			return err
		}
		return tx.Delete(doc).Error
	})
}
