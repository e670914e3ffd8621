package service

import (
	"context"
	"os"
	"path/filepath"

	"qcm_edu_backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobDownloader materializes a stored object as a local file.
type BlobDownloader interface {
	FetchToFile(ctx context.Context, filename, destPath string) error
}

// TranscriptionService turns a stored video into text: the video is copied to
// a temp file, its audio track is extracted with ffmpeg, and the audio goes
// to the speech-to-text API.
type TranscriptionService struct {
	Storage BlobDownloader
	AI      *AIService
	Logger  *zap.Logger
}

func NewTranscriptionService(storage BlobDownloader, ai *AIService, logger *zap.Logger) *TranscriptionService {
	return &TranscriptionService{Storage: storage, AI: ai, Logger: logger}
}

func (s *TranscriptionService) TranscribeVideo(ctx context.Context, filename string) (string, error) {
	tmpDir := os.TempDir()
	videoPath := filepath.Join(tmpDir, uuid.NewString()+filepath.Ext(filename))
	audioPath := filepath.Join(tmpDir, uuid.NewString()+".mp3")

	// Temp files are removed whatever happens below.
	defer os.Remove(videoPath)
	defer os.Remove(audioPath)

	if err := s.Storage.FetchToFile(ctx, filename, videoPath); err != nil {
		return "", err
	}

	if err := util.ExtractAudio(videoPath, audioPath); err != nil {
		s.Logger.Error("audio extraction failed",
			zap.String("video", filename),
			zap.Error(err))
		return "", err
	}

	audio, err := os.Open(audioPath)
	if err != nil {
		return "", err
	}
	defer audio.Close()

	text, err := s.AI.Transcribe(ctx, filepath.Base(audioPath), audio)
	if err != nil {
		return "", err
	}

	s.Logger.Info("video transcribed",
		zap.String("video", filename),
		zap.Int("transcript_chars", len(text)))
	return text, nil
}
