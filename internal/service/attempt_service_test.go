package service

import (
	"context"
	"errors"
	"testing"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/util"

	"go.uber.org/zap"
)

type memoryAttemptStore struct {
	attempts map[string]*model.Attempt
}

func newMemoryAttemptStore() *memoryAttemptStore {
	return &memoryAttemptStore{attempts: make(map[string]*model.Attempt)}
}

func (s *memoryAttemptStore) Put(_ context.Context, attempt *model.Attempt) error {
	copied := *attempt
	s.attempts[attempt.ID] = &copied
	return nil
}

func (s *memoryAttemptStore) Get(_ context.Context, id string) (*model.Attempt, error) {
	attempt, ok := s.attempts[id]
	if !ok {
		return nil, util.ErrAttemptNotFound
	}
	copied := *attempt
	return &copied, nil
}

type fakeQuizStore struct {
	qcms map[uint]*model.Qcm
}

func (s *fakeQuizStore) Save(qcm *model.Qcm) error {
	if qcm.ID == 0 {
		qcm.ID = uint(len(s.qcms) + 1)
	}
	s.qcms[qcm.ID] = qcm
	return nil
}

func (s *fakeQuizStore) FindByID(id uint) (*model.Qcm, error) {
	qcm, ok := s.qcms[id]
	if !ok {
		return nil, util.ErrQcmNotFound
	}
	return qcm, nil
}

type recordingResults struct {
	created []*model.QcmResult
	fail    bool
}

func (r *recordingResults) Create(result *model.QcmResult) error {
	if r.fail {
		return errors.New("database down")
	}
	r.created = append(r.created, result)
	return nil
}

func testQuestions() model.QuestionList {
	return model.QuestionList{
		{Text: "Q1", Options: []string{"a", "b", "c"}, Answer: model.SingleAnswer("a")},
		{Text: "Q2", Options: []string{"a", "b", "c"}, Answer: model.SingleAnswer("b")},
		{Text: "Q3", Options: []string{"1", "2", "3", "4"}, Answer: model.MultipleAnswer("2", "4")},
	}
}

func newTestAttemptService(questions model.QuestionList, results *recordingResults) *AttemptService {
	quizzes := &fakeQuizStore{qcms: map[uint]*model.Qcm{
		1: {BaseModel: model.BaseModel{ID: 1}, Content: questions},
	}}
	return NewAttemptService(newMemoryAttemptStore(), quizzes, results, zap.NewNop())
}

func TestAttemptLifecycle(t *testing.T) {
	ctx := context.Background()
	results := &recordingResults{}
	svc := newTestAttemptService(testQuestions(), results)

	attempt, err := svc.Start(ctx, 1, 42)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if attempt.Step != model.StepAnswering || attempt.Index != 0 {
		t.Fatalf("fresh attempt state = %s/%d", attempt.Step, attempt.Index)
	}

	// Q1: right answer.
	if _, err := svc.Select(ctx, attempt.ID, 42, "a"); err != nil {
		t.Fatalf("select: %v", err)
	}
	attempt, err = svc.Validate(ctx, attempt.ID, 42)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if attempt.Step != model.StepFeedback || !attempt.LastCorrect || attempt.Score != 1 {
		t.Fatalf("after Q1 validate: step=%s correct=%v score=%d", attempt.Step, attempt.LastCorrect, attempt.Score)
	}

	// Q2: wrong answer.
	if _, err := svc.Next(ctx, attempt.ID, 42); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := svc.Select(ctx, attempt.ID, 42, "c"); err != nil {
		t.Fatalf("select: %v", err)
	}
	attempt, _ = svc.Validate(ctx, attempt.ID, 42)
	if attempt.LastCorrect || attempt.Score != 1 {
		t.Fatalf("after Q2 validate: correct=%v score=%d", attempt.LastCorrect, attempt.Score)
	}

	// Q3: multi-choice, both right options.
	if _, err := svc.Next(ctx, attempt.ID, 42); err != nil {
		t.Fatalf("next: %v", err)
	}
	svc.Select(ctx, attempt.ID, 42, "2")
	if _, err := svc.Select(ctx, attempt.ID, 42, "4"); err != nil {
		t.Fatalf("select: %v", err)
	}
	attempt, _ = svc.Validate(ctx, attempt.ID, 42)
	if !attempt.LastCorrect || attempt.Score != 2 {
		t.Fatalf("after Q3 validate: correct=%v score=%d", attempt.LastCorrect, attempt.Score)
	}

	attempt, err = svc.Next(ctx, attempt.ID, 42)
	if err != nil {
		t.Fatalf("final next: %v", err)
	}
	if attempt.Step != model.StepFinished {
		t.Fatalf("step = %s, want finished", attempt.Step)
	}

	if len(results.created) != 1 {
		t.Fatalf("recorded %d results, want 1", len(results.created))
	}
	rec := results.created[0]
	if rec.Score != 2 || rec.MaxScore != 3 || rec.UserID != 42 || rec.QcmID != 1 {
		t.Errorf("recorded result = %+v", rec)
	}
}

func TestAttemptSelectToggles(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttemptService(testQuestions(), &recordingResults{})
	attempt, _ := svc.Start(ctx, 1, 7)

	// Single choice replaces.
	svc.Select(ctx, attempt.ID, 7, "a")
	attempt, _ = svc.Select(ctx, attempt.ID, 7, "b")
	if len(attempt.Selection) != 1 || attempt.Selection[0] != "b" {
		t.Errorf("single-choice selection = %v, want [b]", attempt.Selection)
	}

	// Unknown option is refused.
	if _, err := svc.Select(ctx, attempt.ID, 7, "zz"); !errors.Is(err, util.ErrUnknownOption) {
		t.Errorf("unknown option error = %v", err)
	}

	// Advance to the multi-choice question.
	svc.Validate(ctx, attempt.ID, 7)
	svc.Next(ctx, attempt.ID, 7)
	svc.Select(ctx, attempt.ID, 7, "b")
	svc.Validate(ctx, attempt.ID, 7)
	svc.Next(ctx, attempt.ID, 7)

	// Multi choice toggles.
	svc.Select(ctx, attempt.ID, 7, "2")
	attempt, _ = svc.Select(ctx, attempt.ID, 7, "4")
	if len(attempt.Selection) != 2 {
		t.Fatalf("multi-choice selection = %v, want two entries", attempt.Selection)
	}
	attempt, _ = svc.Select(ctx, attempt.ID, 7, "2")
	if len(attempt.Selection) != 1 || attempt.Selection[0] != "4" {
		t.Errorf("after toggle off, selection = %v, want [4]", attempt.Selection)
	}
}

func TestAttemptStateGuards(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttemptService(testQuestions(), &recordingResults{})
	attempt, _ := svc.Start(ctx, 1, 7)

	if _, err := svc.Validate(ctx, attempt.ID, 7); !errors.Is(err, util.ErrEmptySelection) {
		t.Errorf("validate without selection = %v", err)
	}
	if _, err := svc.Next(ctx, attempt.ID, 7); !errors.Is(err, util.ErrNotInFeedback) {
		t.Errorf("next while answering = %v", err)
	}

	svc.Select(ctx, attempt.ID, 7, "a")
	svc.Validate(ctx, attempt.ID, 7)
	if _, err := svc.Select(ctx, attempt.ID, 7, "b"); !errors.Is(err, util.ErrAlreadyValidated) {
		t.Errorf("select during feedback = %v", err)
	}
	if _, err := svc.Validate(ctx, attempt.ID, 7); !errors.Is(err, util.ErrAlreadyValidated) {
		t.Errorf("double validate = %v", err)
	}

	// Another user cannot touch the attempt.
	if _, err := svc.Get(ctx, attempt.ID, 99); !errors.Is(err, util.ErrAttemptNotFound) {
		t.Errorf("foreign user access = %v", err)
	}
}

func TestAttemptStartErrors(t *testing.T) {
	ctx := context.Background()
	svc := newTestAttemptService(testQuestions(), &recordingResults{})

	if _, err := svc.Start(ctx, 999, 7); !errors.Is(err, util.ErrQcmNotFound) {
		t.Errorf("missing quiz = %v", err)
	}

	empty := newTestAttemptService(model.QuestionList{}, &recordingResults{})
	if _, err := empty.Start(ctx, 1, 7); !errors.Is(err, util.ErrEmptyQcm) {
		t.Errorf("empty quiz = %v", err)
	}
}

func TestAttemptResultRecordedOnce(t *testing.T) {
	ctx := context.Background()
	results := &recordingResults{}
	svc := newTestAttemptService(testQuestions()[:1], results)

	attempt, _ := svc.Start(ctx, 1, 7)
	svc.Select(ctx, attempt.ID, 7, "a")
	svc.Validate(ctx, attempt.ID, 7)
	svc.Next(ctx, attempt.ID, 7)

	if _, err := svc.Next(ctx, attempt.ID, 7); !errors.Is(err, util.ErrAttemptFinished) {
		t.Errorf("next after finish = %v", err)
	}
	if len(results.created) != 1 {
		t.Errorf("recorded %d results, want exactly 1", len(results.created))
	}
}

func TestAttemptFinishSurvivesRecordFailure(t *testing.T) {
	ctx := context.Background()
	results := &recordingResults{fail: true}
	svc := newTestAttemptService(testQuestions()[:1], results)

	attempt, _ := svc.Start(ctx, 1, 7)
	svc.Select(ctx, attempt.ID, 7, "a")
	svc.Validate(ctx, attempt.ID, 7)
	attempt, err := svc.Next(ctx, attempt.ID, 7)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if attempt.Step != model.StepFinished || !attempt.Submitted {
		t.Errorf("attempt after failed record: step=%s submitted=%v", attempt.Step, attempt.Submitted)
	}

	summary, err := svc.Summary(attempt)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Score20 != 20 {
		t.Errorf("score20 = %d, want 20", summary.Score20)
	}
}

func TestSummaryTiers(t *testing.T) {
	svc := newTestAttemptService(testQuestions(), &recordingResults{})

	cases := []struct {
		name    string
		score   int
		total   int
		score20 int
		tier    string
	}{
		{"perfect", 5, 5, 20, model.TierExcellent},
		{"three of five", 3, 5, 12, model.TierGood},
		{"one of five", 1, 5, 4, model.TierNeedsReview},
		{"rounding up", 2, 3, 13, model.TierGood},
		{"boundary sixteen", 4, 5, 16, model.TierExcellent},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attempt := &model.Attempt{
				Questions: make(model.QuestionList, tc.total),
				Score:     tc.score,
				Step:      model.StepFinished,
			}
			summary, err := svc.Summary(attempt)
			if err != nil {
				t.Fatalf("summary: %v", err)
			}
			if summary.Score20 != tc.score20 {
				t.Errorf("score20 = %d, want %d", summary.Score20, tc.score20)
			}
			if summary.Tier != tc.tier {
				t.Errorf("tier = %s, want %s", summary.Tier, tc.tier)
			}
		})
	}

	t.Run("unfinished attempt has no summary", func(t *testing.T) {
		if _, err := svc.Summary(&model.Attempt{Step: model.StepAnswering}); err == nil {
			t.Error("expected error")
		}
	})
}
