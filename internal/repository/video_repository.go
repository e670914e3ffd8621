package repository

import (
	"qcm_edu_backend/internal/model"

	"gorm.io/gorm"
)

type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

func (r *VideoRepository) Create(video *model.Video) error {
	return r.DB.Create(video).Error
}

func (r *VideoRepository) FindByID(id uint) (*model.Video, error) {
	var video model.Video
	err := r.DB.Preload("Qcm").First(&video, id).Error
	return &video, err
}

func (r *VideoRepository) FindAll() ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.Preload("Qcm").Order("created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) FindByUser(userID uint) ([]model.Video, error) {
	var videos []model.Video
	err := r.DB.Preload("Qcm").Where("user_id = ?", userID).Order("created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *VideoRepository) Delete(video *model.Video) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("video_id = ?", video.ID).Delete(&model.Qcm{}).Error; err != nil {
			return err
		}
		return tx.Delete(video).Error
	})
}
