package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"
	"time"

	"qcm_edu_backend/internal/config"
	"qcm_edu_backend/internal/model"

	"go.uber.org/zap"
)

// quizPromptTemplate is sent to the LLM as-is. The platform serves French
// courses, so the generated questions are French too.
const quizPromptTemplate = `Tu es un assistant pédagogique. À partir du texte suivant, génère un QCM de %d questions en français.

Chaque question doit avoir exactement %d options. %s

Réponds UNIQUEMENT avec un objet JSON valide de la forme :
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": %s}]}

Texte du cours :
%s`

type AIService struct {
	// cfg is copied at construction and guarded by mu: the config watcher
	// calls Reload from its own goroutine while handlers are mid-request.
	mu     sync.RWMutex
	cfg    config.AIConfig
	Client *http.Client
	Logger *zap.Logger
}

func NewAIService(cfg *config.AIConfig, logger *zap.Logger) *AIService {
	return &AIService{
		cfg:    *cfg,
		Client: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
		Logger: logger,
	}
}

// Reload swaps in the settings that are safe to change at runtime. Endpoint,
// credentials and timeouts stay fixed until restart.
func (s *AIService) Reload(cfg config.AIConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg.Model = cfg.Model
	s.cfg.TranscribeModel = cfg.TranscribeModel
	s.cfg.QuizMaxChars = cfg.QuizMaxChars
	s.cfg.DefaultQuestions = cfg.DefaultQuestions
	s.cfg.OptionsPerQuestion = cfg.OptionsPerQuestion
}

func (s *AIService) snapshot() config.AIConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateQuiz asks the LLM for a quiz over the given course text. The text
// is truncated to the configured character budget before prompting, so very
// long documents only feed their beginning to the model.
func (s *AIService) GenerateQuiz(ctx context.Context, text string, nbQuestions int, multipleCorrect bool) ([]model.Question, error) {
	cfg := s.snapshot()
	if nbQuestions <= 0 {
		nbQuestions = cfg.DefaultQuestions
	}
	if len(text) > cfg.QuizMaxChars {
		text = text[:cfg.QuizMaxChars]
	}

	answerRule := "Chaque question a exactement une bonne réponse."
	answerShape := `"la bonne option"`
	if multipleCorrect {
		answerRule = "Certaines questions peuvent avoir plusieurs bonnes réponses ; dans ce cas le champ answer est un tableau."
		answerShape = `"la bonne option" ou ["option 1", "option 2"]`
	}

	prompt := fmt.Sprintf(quizPromptTemplate, nbQuestions, cfg.OptionsPerQuestion, answerRule, answerShape, text)

	req := chatRequest{
		Model:       cfg.Model,
		Temperature: 0.7,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
	}
	req.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quiz generation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.Logger.Warn("AI quiz generation returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return nil, fmt.Errorf("quiz generation failed with status %d", resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decode quiz generation response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("quiz generation returned no choices")
	}

	return parseQuizPayload(chat.Choices[0].Message.Content), nil
}

// parseQuizPayload turns the raw model output into questions. Models wrap
// JSON in markdown fences or skip the top-level object, so the parse is
// deliberately lenient: anything unusable yields an empty slice, not an
// error, and the caller decides how to react to an empty quiz.
func parseQuizPayload(raw string) []model.Question {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var wrapped struct {
		Questions []model.Question `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && len(wrapped.Questions) > 0 {
		return sanitizeQuestions(wrapped.Questions)
	}

	var bare []model.Question
	if err := json.Unmarshal([]byte(raw), &bare); err == nil {
		return sanitizeQuestions(bare)
	}

	return []model.Question{}
}

// sanitizeQuestions drops entries the model got structurally wrong: no text,
// fewer than two options, or an answer that is not among the options.
func sanitizeQuestions(questions []model.Question) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if strings.TrimSpace(q.Text) == "" || len(q.Options) < 2 {
			continue
		}
		valid := true
		for _, ans := range q.Answer.Values() {
			if !q.HasOption(ans) {
				valid = false
				break
			}
		}
		if valid && len(q.Answer.Values()) > 0 {
			out = append(out, q)
		}
	}
	return out
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe sends audio to the speech-to-text endpoint and returns the
// transcript. A missing "text" field comes back as the empty string.
func (s *AIService) Transcribe(ctx context.Context, audioPath string, audio io.Reader) (string, error) {
	cfg := s.snapshot()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TranscribeTimeout)*time.Second)
	defer cancel()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("model", cfg.TranscribeModel); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", audioPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/audio/transcriptions", &buf)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	// The default client timeout is tuned for chat calls; transcription of a
	// long video can take minutes, so this request relies on the context
	// deadline instead.
	client := &http.Client{}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.Logger.Warn("AI transcription returned non-200",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", payload))
		return "", fmt.Errorf("transcription failed with status %d", resp.StatusCode)
	}

	var tr transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return tr.Text, nil
}
