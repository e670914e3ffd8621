package service

import (
	"context"
	"errors"
	"testing"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/util"

	"go.uber.org/zap"
)

type fakeTextSource struct {
	text string
	err  error
}

func (f *fakeTextSource) ExtractText(context.Context, string) (string, error) {
	return f.text, f.err
}

func (f *fakeTextSource) TranscribeVideo(context.Context, string) (string, error) {
	return f.text, f.err
}

type fakeGenerator struct {
	questions []model.Question
	err       error
	calls     int
	lastText  string
	lastNb    int
	lastMulti bool
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, text string, nb int, multi bool) ([]model.Question, error) {
	f.calls++
	f.lastText = text
	f.lastNb = nb
	f.lastMulti = multi
	return f.questions, f.err
}

func generatedQuestions() []model.Question {
	return []model.Question{
		{Text: "Q1", Options: []string{"a", "b", "c", "d"}, Answer: model.SingleAnswer("a")},
		{Text: "Q2", Options: []string{"a", "b", "c", "d"}, Answer: model.SingleAnswer("c")},
		{Text: "Q3", Options: []string{"a", "b", "c", "d"}, Answer: model.MultipleAnswer("b", "d")},
	}
}

func newTestQuizService(source *fakeTextSource, gen *fakeGenerator) (*QuizService, *fakeQuizStore) {
	store := &fakeQuizStore{qcms: make(map[uint]*model.Qcm)}
	return &QuizService{
		Qcms:        store,
		Parser:      source,
		Transcriber: source,
		Generator:   gen,
		Logger:      zap.NewNop(),
	}, store
}

func TestEnsureDocumentQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("generates and persists on first call", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		svc, store := newTestQuizService(&fakeTextSource{text: "le cours"}, gen)

		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf"}
		qcm, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{NbQuestions: 3})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if len(qcm.Content) != 3 {
			t.Errorf("quiz has %d questions, want 3", len(qcm.Content))
		}
		if qcm.DocumentID == nil || *qcm.DocumentID != 5 {
			t.Errorf("quiz documentID = %v, want 5", qcm.DocumentID)
		}
		if len(store.qcms) != 1 {
			t.Errorf("store holds %d quizzes, want 1", len(store.qcms))
		}
		if gen.lastText != "le cours" || gen.lastNb != 3 {
			t.Errorf("generator called with text=%q nb=%d", gen.lastText, gen.lastNb)
		}
	})

	t.Run("existing quiz is reused without force", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		svc, _ := newTestQuizService(&fakeTextSource{text: "le cours"}, gen)

		existing := &model.Qcm{BaseModel: model.BaseModel{ID: 9}, Content: generatedQuestions()}
		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf", Qcm: existing}

		qcm, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if qcm.ID != 9 {
			t.Errorf("quiz id = %d, want the existing 9", qcm.ID)
		}
		if gen.calls != 0 {
			t.Errorf("generator called %d times, want 0", gen.calls)
		}
	})

	t.Run("force regenerates in place", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		svc, store := newTestQuizService(&fakeTextSource{text: "le cours"}, gen)

		existing := &model.Qcm{
			BaseModel: model.BaseModel{ID: 9},
			Content:   model.QuestionList{{Text: "old", Options: []string{"x", "y"}, Answer: model.SingleAnswer("x")}},
		}
		store.qcms[9] = existing
		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf", Qcm: existing}

		qcm, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{Force: true})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if qcm.ID != 9 {
			t.Errorf("forced regeneration changed the quiz id to %d", qcm.ID)
		}
		if len(qcm.Content) != 3 || qcm.Content[0].Text != "Q1" {
			t.Errorf("quiz content was not replaced: %+v", qcm.Content)
		}
		if gen.calls != 1 {
			t.Errorf("generator called %d times, want 1", gen.calls)
		}
	})

	t.Run("extraction failure aborts without persisting", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		svc, store := newTestQuizService(&fakeTextSource{err: util.ErrFileNotFound}, gen)

		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf"}
		if _, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{}); !errors.Is(err, util.ErrFileNotFound) {
			t.Errorf("error = %v, want file not found", err)
		}
		if gen.calls != 0 {
			t.Errorf("generator called despite extraction failure")
		}
		if len(store.qcms) != 0 {
			t.Errorf("a quiz was persisted despite the failure")
		}
	})

	t.Run("empty generation yields error and no quiz", func(t *testing.T) {
		gen := &fakeGenerator{questions: nil}
		svc, store := newTestQuizService(&fakeTextSource{text: "le cours"}, gen)

		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf"}
		if _, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{}); !errors.Is(err, util.ErrEmptyQcm) {
			t.Errorf("error = %v, want empty qcm", err)
		}
		if len(store.qcms) != 0 {
			t.Errorf("an empty quiz was persisted")
		}
	})

	t.Run("failed forced regeneration keeps the old quiz intact", func(t *testing.T) {
		gen := &fakeGenerator{err: errors.New("api down")}
		svc, store := newTestQuizService(&fakeTextSource{text: "le cours"}, gen)

		existing := &model.Qcm{
			BaseModel: model.BaseModel{ID: 9},
			Content:   model.QuestionList{{Text: "old", Options: []string{"x", "y"}, Answer: model.SingleAnswer("x")}},
		}
		store.qcms[9] = existing
		doc := &model.Document{BaseModel: model.BaseModel{ID: 5}, Filename: "cours.pdf", Qcm: existing}

		if _, err := svc.EnsureDocumentQuiz(ctx, doc, GenerateOptions{Force: true}); err == nil {
			t.Fatal("expected error")
		}
		if store.qcms[9].Content[0].Text != "old" {
			t.Errorf("old quiz content was clobbered by a failed regeneration")
		}
	})
}

func TestEnsureVideoQuiz(t *testing.T) {
	ctx := context.Background()

	t.Run("transcript feeds the generator", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		svc, _ := newTestQuizService(&fakeTextSource{text: "la transcription"}, gen)

		video := &model.Video{BaseModel: model.BaseModel{ID: 8}, Filename: "cours.mp4"}
		qcm, err := svc.EnsureVideoQuiz(ctx, video, GenerateOptions{MultipleCorrect: true})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if qcm.VideoID == nil || *qcm.VideoID != 8 {
			t.Errorf("quiz videoID = %v, want 8", qcm.VideoID)
		}
		if gen.lastText != "la transcription" || !gen.lastMulti {
			t.Errorf("generator called with text=%q multi=%v", gen.lastText, gen.lastMulti)
		}
	})

	t.Run("existing quiz short-circuits transcription", func(t *testing.T) {
		gen := &fakeGenerator{questions: generatedQuestions()}
		source := &fakeTextSource{err: errors.New("should not be called")}
		svc, _ := newTestQuizService(source, gen)

		existing := &model.Qcm{BaseModel: model.BaseModel{ID: 3}, Content: generatedQuestions()}
		video := &model.Video{BaseModel: model.BaseModel{ID: 8}, Filename: "cours.mp4", Qcm: existing}

		qcm, err := svc.EnsureVideoQuiz(ctx, video, GenerateOptions{})
		if err != nil {
			t.Fatalf("ensure: %v", err)
		}
		if qcm.ID != 3 {
			t.Errorf("quiz id = %d, want 3", qcm.ID)
		}
	})
}
