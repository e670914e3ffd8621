package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"qcm_edu_backend/internal/model"
	"qcm_edu_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const attemptTTL = 24 * time.Hour

// AttemptStore keeps in-flight quiz attempts. Attempts are session state,
// not course data, so they live in Redis with a TTL rather than in MySQL.
type AttemptStore interface {
	Put(ctx context.Context, attempt *model.Attempt) error
	Get(ctx context.Context, id string) (*model.Attempt, error)
}

type RedisAttemptStore struct {
	Client *redis.Client
}

func NewRedisAttemptStore(client *redis.Client) *RedisAttemptStore {
	return &RedisAttemptStore{Client: client}
}

func attemptKey(id string) string {
	return "attempt:" + id
}

func (s *RedisAttemptStore) Put(ctx context.Context, attempt *model.Attempt) error {
	data, err := json.Marshal(attempt)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, attemptKey(attempt.ID), data, attemptTTL).Err()
}

func (s *RedisAttemptStore) Get(ctx context.Context, id string) (*model.Attempt, error) {
	data, err := s.Client.Get(ctx, attemptKey(id)).Bytes()
	if err == redis.Nil {
		return nil, util.ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	var attempt model.Attempt
	if err := json.Unmarshal(data, &attempt); err != nil {
		return nil, err
	}
	return &attempt, nil
}

// ResultRecorder persists the final score of a finished attempt.
type ResultRecorder interface {
	Create(result *model.QcmResult) error
}

// AttemptService drives a student through a quiz one question at a time:
// pick options, validate to see the correction, move on, and get a score out
// of 20 at the end.
type AttemptService struct {
	Store   AttemptStore
	Quizzes QuizStore
	Results ResultRecorder
	Logger  *zap.Logger
}

func NewAttemptService(store AttemptStore, quizzes QuizStore, results ResultRecorder, logger *zap.Logger) *AttemptService {
	return &AttemptService{Store: store, Quizzes: quizzes, Results: results, Logger: logger}
}

// Start opens a new attempt on a quiz. The questions are snapshotted into
// the attempt, so a teacher regenerating the quiz mid-attempt does not pull
// the rug out from under the student.
func (s *AttemptService) Start(ctx context.Context, qcmID uint, userID uint) (*model.Attempt, error) {
	qcm, err := s.Quizzes.FindByID(qcmID)
	if err != nil {
		return nil, util.ErrQcmNotFound
	}
	if len(qcm.Content) == 0 {
		return nil, util.ErrEmptyQcm
	}

	attempt := &model.Attempt{
		ID:        uuid.NewString(),
		QcmID:     qcm.ID,
		UserID:    userID,
		Questions: qcm.Content,
		Step:      model.StepAnswering,
		CreatedAt: time.Now(),
	}
	if err := s.Store.Put(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) Get(ctx context.Context, id string, userID uint) (*model.Attempt, error) {
	attempt, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, nil
}

// Select toggles or replaces the current selection. Single-answer questions
// behave like radio buttons: choosing an option replaces the previous one.
// Multi-answer questions behave like checkboxes: choosing a selected option
// removes it.
func (s *AttemptService) Select(ctx context.Context, id string, userID uint, option string) (*model.Attempt, error) {
	attempt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Step == model.StepFinished {
		return nil, util.ErrAttemptFinished
	}
	if attempt.Step != model.StepAnswering {
		return nil, util.ErrAlreadyValidated
	}

	question := attempt.Current()
	if question == nil || !question.HasOption(option) {
		return nil, util.ErrUnknownOption
	}

	if question.Answer.Multiple() {
		found := false
		kept := attempt.Selection[:0]
		for _, sel := range attempt.Selection {
			if sel == option {
				found = true
				continue
			}
			kept = append(kept, sel)
		}
		attempt.Selection = kept
		if !found {
			attempt.Selection = append(attempt.Selection, option)
		}
	} else {
		attempt.Selection = []string{option}
	}

	if err := s.Store.Put(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Validate locks in the current selection and moves the attempt to the
// feedback step, revealing whether the selection was correct.
func (s *AttemptService) Validate(ctx context.Context, id string, userID uint) (*model.Attempt, error) {
	attempt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Step == model.StepFinished {
		return nil, util.ErrAttemptFinished
	}
	if attempt.Step != model.StepAnswering {
		return nil, util.ErrAlreadyValidated
	}
	if len(attempt.Selection) == 0 {
		return nil, util.ErrEmptySelection
	}

	question := attempt.Current()
	correct := question.Answer.Matches(attempt.Selection)
	if correct {
		attempt.Score++
	}
	attempt.LastCorrect = correct
	attempt.Step = model.StepFeedback

	if err := s.Store.Put(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Next leaves the feedback step: either on to the next question or, past the
// last one, to the finished state where the result is recorded.
func (s *AttemptService) Next(ctx context.Context, id string, userID uint) (*model.Attempt, error) {
	attempt, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if attempt.Step == model.StepFinished {
		return nil, util.ErrAttemptFinished
	}
	if attempt.Step != model.StepFeedback {
		return nil, util.ErrNotInFeedback
	}

	attempt.Index++
	attempt.Selection = nil
	if attempt.Index >= len(attempt.Questions) {
		attempt.Step = model.StepFinished
		s.record(attempt)
	} else {
		attempt.Step = model.StepAnswering
	}

	if err := s.Store.Put(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// record persists the result at most once per attempt. A storage failure is
// logged but does not hide the score from the student; Submitted stays set
// so a retry of Next cannot double-record.
func (s *AttemptService) record(attempt *model.Attempt) {
	if attempt.Submitted {
		return
	}
	attempt.Submitted = true

	result := &model.QcmResult{
		Score:    attempt.Score,
		MaxScore: len(attempt.Questions),
		UserID:   attempt.UserID,
		QcmID:    attempt.QcmID,
	}
	if err := s.Results.Create(result); err != nil {
		s.Logger.Error("failed to record quiz result",
			zap.String("attempt_id", attempt.ID),
			zap.Uint("qcm_id", attempt.QcmID),
			zap.Uint("user_id", attempt.UserID),
			zap.Error(err))
	}
}

// Summary converts a finished attempt into the score out of 20 and its
// feedback tier.
func (s *AttemptService) Summary(attempt *model.Attempt) (*model.Summary, error) {
	if attempt.Step != model.StepFinished {
		return nil, fmt.Errorf("attempt %s is not finished", attempt.ID)
	}

	total := len(attempt.Questions)
	score20 := int(math.Round(float64(attempt.Score) / float64(total) * 20))

	tier := model.TierExcellent
	message := "Excellent travail !"
	switch {
	case score20 < 10:
		tier = model.TierNeedsReview
		message = "Il faut revoir le cours."
	case score20 < 16:
		tier = model.TierGood
		message = "Bon travail, continuez comme ça."
	}

	return &model.Summary{
		Score:       attempt.Score,
		Total:       total,
		Score20:     score20,
		SuccessRate: int(math.Round(float64(attempt.Score) / float64(total) * 100)),
		Tier:        tier,
		Message:     message,
	}, nil
}
