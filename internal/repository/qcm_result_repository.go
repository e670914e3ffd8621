package repository

import (
	"qcm_edu_backend/internal/model"

	"gorm.io/gorm"
)

type QcmResultRepository struct {
	DB *gorm.DB
}

func NewQcmResultRepository(db *gorm.DB) *QcmResultRepository {
	return &QcmResultRepository{DB: db}
}

func (r *QcmResultRepository) Create(result *model.QcmResult) error {
	return r.DB.Create(result).Error
}

// FindByUser returns all of a student's results, newest first.
func (r *QcmResultRepository) FindByUser(userID uint) ([]model.QcmResult, error) {
	var results []model.QcmResult
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&results).Error
	return results, err
}

// FindLatestPerQuiz keeps only a student's most recent result for each quiz.
// The ordering makes the map construction deterministic: older entries are
// written first and overwritten by newer ones.
func (r *QcmResultRepository) FindLatestPerQuiz(userID uint) (map[uint]model.QcmResult, error) {
	var results []model.QcmResult
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&results).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uint]model.QcmResult, len(results))
	for _, res := range results {
		latest[res.QcmID] = res
	}
	return latest, nil
}

// FindByProfessor returns the results recorded against quizzes whose content
// item belongs to the given teacher, newest first.
func (r *QcmResultRepository) FindByProfessor(teacherID uint) ([]model.QcmResult, error) {
	var results []model.QcmResult
	err := r.DB.
		Joins("JOIN qcms ON qcms.id = qcm_results.qcm_id").
		Joins("LEFT JOIN documents ON documents.id = qcms.document_id").
		Joins("LEFT JOIN videos ON videos.id = qcms.video_id").
		Where("documents.user_id = ? OR videos.user_id = ?", teacherID, teacherID).
		Order("qcm_results.created_at DESC").
		Find(&results).Error
	return results, err
}
