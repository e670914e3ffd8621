package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/repository"
	"qcm_edu_backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService manages the course catalogue: teacher uploads and deletions
// of documents and videos, and the listings everyone browses.
type ContentService struct {
	Documents *repository.DocumentRepository
	Videos    *repository.VideoRepository
	Storage   *StorageService
	Logger    *zap.Logger
}

func NewContentService(documents *repository.DocumentRepository, videos *repository.VideoRepository, storage *StorageService, logger *zap.Logger) *ContentService {
	return &ContentService{Documents: documents, Videos: videos, Storage: storage, Logger: logger}
}

type UploadInput struct {
	Title       string
	Description string
	File        *multipart.FileHeader
	UserID      uint
}

func hasAllowedExtension(filename string, allowed []string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// storedName builds the object key: a uuid keeps uploads from clobbering
// each other while the original extension survives for type detection.
func storedName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}

func (s *ContentService) UploadDocument(ctx context.Context, input UploadInput) (*model.Document, error) {
	if !hasAllowedExtension(input.File.Filename, util.AllowedDocumentExtensions) {
		return nil, fmt.Errorf("unsupported document type: %s", filepath.Ext(input.File.Filename))
	}

	file, err := input.File.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(input.File.Filename), ".pdf") {
		if _, err := util.ValidateMimeType(file, []string{util.MimePDF}); err != nil {
			return nil, err
		}
		if _, err := file.Seek(0, 0); err != nil {
			return nil, err
		}
	}

	filename := storedName(input.File.Filename)
	if _, err := s.Storage.Upload(ctx, filename, file, input.File.Size, input.File.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	doc := &model.Document{
		Title:       input.Title,
		Description: input.Description,
		Filename:    filename,
		UserID:      input.UserID,
	}
	if err := s.Documents.Create(doc); err != nil {
		// Roll the blob back so storage does not accumulate orphans.
		s.Storage.Delete(ctx, filename)
		return nil, err
	}

	s.Logger.Info("document uploaded",
		zap.Uint("document_id", doc.ID),
		zap.Uint("user_id", input.UserID),
		zap.String("filename", filename))
	return doc, nil
}

func (s *ContentService) UploadVideo(ctx context.Context, input UploadInput) (*model.Video, error) {
	if !hasAllowedExtension(input.File.Filename, util.AllowedVideoExtensions) {
		return nil, fmt.Errorf("unsupported video type: %s", filepath.Ext(input.File.Filename))
	}

	file, err := input.File.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := util.ValidateMimeType(file, []string{util.MimeVideo}); err != nil {
		return nil, err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	// The video lands in a temp file first: ffprobe and the thumbnail pass
	// need a local path, and the upload streams from the same file after.
	tmpPath := filepath.Join(os.TempDir(), storedName(input.File.Filename))
	defer os.Remove(tmpPath)
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return nil, err
	}
	if _, err := tmp.ReadFrom(file); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	duration, err := util.ProbeDuration(tmpPath)
	if err != nil {
		s.Logger.Warn("could not probe video duration", zap.Error(err))
	}

	filename := storedName(input.File.Filename)
	if _, err := s.Storage.UploadFile(ctx, filename, tmpPath, input.File.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	thumbnail := ""
	thumbPath := filepath.Join(os.TempDir(), uuid.NewString()+".jpg")
	defer os.Remove(thumbPath)
	if err := util.GenerateThumbnail(tmpPath, thumbPath, "00:00:01"); err != nil {
		s.Logger.Warn("thumbnail generation failed", zap.Error(err))
	} else {
		thumbName := "thumbnails/" + strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
		if _, err := s.Storage.UploadFile(ctx, thumbName, thumbPath, "image/jpeg"); err != nil {
			s.Logger.Warn("thumbnail upload failed", zap.Error(err))
		} else {
			thumbnail = s.Storage.GetURL(thumbName)
		}
	}

	video := &model.Video{
		Title:       input.Title,
		Description: input.Description,
		Filename:    filename,
		Duration:    duration,
		Thumbnail:   thumbnail,
		UserID:      input.UserID,
	}
	if err := s.Videos.Create(video); err != nil {
		s.Storage.Delete(ctx, filename)
		return nil, err
	}

	s.Logger.Info("video uploaded",
		zap.Uint("video_id", video.ID),
		zap.Uint("user_id", input.UserID),
		zap.Float64("duration", duration))
	return video, nil
}

func (s *ContentService) ListDocuments() ([]model.Document, error) {
	return s.Documents.FindAll()
}

func (s *ContentService) ListVideos() ([]model.Video, error) {
	return s.Videos.FindAll()
}

func (s *ContentService) GetDocument(id uint) (*model.Document, error) {
	doc, err := s.Documents.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDocumentNotFound
	}
	return doc, err
}

func (s *ContentService) GetVideo(id uint) (*model.Video, error) {
	video, err := s.Videos.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrVideoNotFound
	}
	return video, err
}

// DeleteDocument removes the row, its quiz, and the stored file. Only the
// uploading teacher may delete.
func (s *ContentService) DeleteDocument(ctx context.Context, id uint, userID uint) error {
	doc, err := s.GetDocument(id)
	if err != nil {
		return err
	}
	if doc.UserID != userID {
		return util.ErrPermissionDenied
	}
	if err := s.Documents.Delete(doc); err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, doc.Filename); err != nil {
		s.Logger.Warn("stored file removal failed",
			zap.String("filename", doc.Filename),
			zap.Error(err))
	}
	return nil
}

func (s *ContentService) DeleteVideo(ctx context.Context, id uint, userID uint) error {
	video, err := s.GetVideo(id)
	if err != nil {
		return err
	}
	if video.UserID != userID {
		return util.ErrPermissionDenied
	}
	if err := s.Videos.Delete(video); err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, video.Filename); err != nil {
		s.Logger.Warn("stored file removal failed",
			zap.String("filename", video.Filename),
			zap.Error(err))
	}
	return nil
}
