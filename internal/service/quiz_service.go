package service

import (
	"context"
	"time"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/repository"
	"qcm_edu_backend/internal/util"
	"qcm_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// GenerateOptions controls a quiz generation request. Zero values mean "use
// configured defaults, reuse the existing quiz if there is one".
type GenerateOptions struct {
	Force           bool
	NbQuestions     int
	MultipleCorrect bool
}

// TextSource produces the course text a quiz is generated from.
type TextSource interface {
	ExtractText(ctx context.Context, filename string) (string, error)
}

// VideoTextSource produces a transcript for a stored video.
type VideoTextSource interface {
	TranscribeVideo(ctx context.Context, filename string) (string, error)
}

// QuizGenerator is the slice of the AI service the quiz pipeline uses.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, text string, nbQuestions int, multipleCorrect bool) ([]model.Question, error)
}

// QuizStore abstracts quiz persistence for the service.
type QuizStore interface {
	Save(qcm *model.Qcm) error
	FindByID(id uint) (*model.Qcm, error)
}

type QuizService struct {
	Qcms        QuizStore
	Parser      TextSource
	Transcriber VideoTextSource
	Generator   QuizGenerator
	Logger      *zap.Logger
}

func NewQuizService(qcms *repository.QcmRepository, parser *ParserService, transcriber *TranscriptionService, generator *AIService, logger *zap.Logger) *QuizService {
	return &QuizService{
		Qcms:        qcms,
		Parser:      parser,
		Transcriber: transcriber,
		Generator:   generator,
		Logger:      logger,
	}
}

func (s *QuizService) GetQcm(id uint) (*model.Qcm, error) {
	qcm, err := s.Qcms.FindByID(id)
	if err != nil {
		return nil, util.ErrQcmNotFound
	}
	return qcm, nil
}

// EnsureDocumentQuiz returns the quiz for a document, generating one when the
// document has none yet or when opts.Force asks for a fresh one. A forced
// regeneration overwrites the existing quiz row, so the quiz id students
// reference stays stable.
func (s *QuizService) EnsureDocumentQuiz(ctx context.Context, doc *model.Document, opts GenerateOptions) (*model.Qcm, error) {
	if doc.Qcm != nil && !opts.Force {
		return doc.Qcm, nil
	}

	text, err := s.Parser.ExtractText(ctx, doc.Filename)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("document", "error").Inc()
		return nil, err
	}

	qcm, err := s.generate(ctx, text, doc.Qcm, opts)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("document", "error").Inc()
		return nil, err
	}
	qcm.DocumentID = &doc.ID

	if err := s.Qcms.Save(qcm); err != nil {
		monitoring.GenerationCounter.WithLabelValues("document", "error").Inc()
		return nil, err
	}

	monitoring.GenerationCounter.WithLabelValues("document", "ok").Inc()
	s.Logger.Info("quiz generated for document",
		zap.Uint("document_id", doc.ID),
		zap.Uint("qcm_id", qcm.ID),
		zap.Int("questions", len(qcm.Content)))
	return qcm, nil
}

// EnsureVideoQuiz is the video counterpart: the course text comes from the
// transcription pipeline instead of the document parser.
func (s *QuizService) EnsureVideoQuiz(ctx context.Context, video *model.Video, opts GenerateOptions) (*model.Qcm, error) {
	if video.Qcm != nil && !opts.Force {
		return video.Qcm, nil
	}

	text, err := s.Transcriber.TranscribeVideo(ctx, video.Filename)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("video", "error").Inc()
		return nil, err
	}

	qcm, err := s.generate(ctx, text, video.Qcm, opts)
	if err != nil {
		monitoring.GenerationCounter.WithLabelValues("video", "error").Inc()
		return nil, err
	}
	qcm.VideoID = &video.ID

	if err := s.Qcms.Save(qcm); err != nil {
		monitoring.GenerationCounter.WithLabelValues("video", "error").Inc()
		return nil, err
	}

	monitoring.GenerationCounter.WithLabelValues("video", "ok").Inc()
	s.Logger.Info("quiz generated for video",
		zap.Uint("video_id", video.ID),
		zap.Uint("qcm_id", qcm.ID),
		zap.Int("questions", len(qcm.Content)))
	return qcm, nil
}

// generate runs the LLM and produces the quiz row to persist. When existing
// is non-nil its content is replaced in place; nothing is written to the
// database until the new questions are fully in hand, so a failed generation
// never leaves a half-updated quiz behind.
func (s *QuizService) generate(ctx context.Context, text string, existing *model.Qcm, opts GenerateOptions) (*model.Qcm, error) {
	questions, err := s.Generator.GenerateQuiz(ctx, text, opts.NbQuestions, opts.MultipleCorrect)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrEmptyQcm
	}

	qcm := existing
	if qcm == nil {
		qcm = &model.Qcm{}
	}
	qcm.Content = questions
	qcm.GeneratedAt = time.Now()
	return qcm, nil
}
