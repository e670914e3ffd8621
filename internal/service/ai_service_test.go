package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"qcm_edu_backend/internal/config"

	"go.uber.org/zap"
)

func TestParseQuizPayload(t *testing.T) {
	valid := `{"questions":[{"question":"Capitale de la France ?","options":["Paris","Lyon","Nice","Lille"],"answer":"Paris"}]}`

	t.Run("plain json object", func(t *testing.T) {
		questions := parseQuizPayload(valid)
		if len(questions) != 1 {
			t.Fatalf("parsed %d questions, want 1", len(questions))
		}
		if questions[0].Text != "Capitale de la France ?" {
			t.Errorf("question text = %q", questions[0].Text)
		}
	})

	t.Run("markdown fenced payload", func(t *testing.T) {
		fenced := "```json\n" + valid + "\n```"
		if got := parseQuizPayload(fenced); len(got) != 1 {
			t.Errorf("parsed %d questions, want 1", len(got))
		}
	})

	t.Run("bare fence without language tag", func(t *testing.T) {
		fenced := "```\n" + valid + "\n```"
		if got := parseQuizPayload(fenced); len(got) != 1 {
			t.Errorf("parsed %d questions, want 1", len(got))
		}
	})

	t.Run("bare question array", func(t *testing.T) {
		bare := `[{"question":"Q","options":["a","b"],"answer":"b"}]`
		if got := parseQuizPayload(bare); len(got) != 1 {
			t.Errorf("parsed %d questions, want 1", len(got))
		}
	})

	t.Run("multi answer array", func(t *testing.T) {
		payload := `{"questions":[{"question":"Pairs ?","options":["1","2","3","4"],"answer":["2","4"]}]}`
		questions := parseQuizPayload(payload)
		if len(questions) != 1 {
			t.Fatalf("parsed %d questions, want 1", len(questions))
		}
		if !questions[0].Answer.Multiple() {
			t.Error("expected multi-choice answer")
		}
	})

	t.Run("garbage yields empty slice", func(t *testing.T) {
		for _, raw := range []string{"", "not json at all", "{\"foo\": 1}", "```\nnope\n```"} {
			if got := parseQuizPayload(raw); got == nil || len(got) != 0 {
				t.Errorf("parseQuizPayload(%q) = %v, want empty non-nil slice", raw, got)
			}
		}
	})

	t.Run("broken questions are dropped", func(t *testing.T) {
		payload := `{"questions":[
			{"question":"","options":["a","b"],"answer":"a"},
			{"question":"one option","options":["a"],"answer":"a"},
			{"question":"answer not in options","options":["a","b"],"answer":"z"},
			{"question":"ok","options":["a","b"],"answer":"b"}
		]}`
		questions := parseQuizPayload(payload)
		if len(questions) != 1 || questions[0].Text != "ok" {
			t.Errorf("sanitized questions = %+v, want only the valid one", questions)
		}
	})
}

func newChatTestServer(t *testing.T, record func(chatRequest)) *httptest.Server {
	t.Helper()
	const response = `{"choices":[{"message":{"content":"{\"questions\":[{\"question\":\"Q\",\"options\":[\"a\",\"b\",\"c\",\"d\"],\"answer\":\"a\"}]}"}}]}`
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		record(req)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
}

func testAIConfig(baseURL string) config.AIConfig {
	return config.AIConfig{
		BaseURL:            baseURL,
		APIKey:             "test-key",
		Model:              "mistral-small-latest",
		QuizMaxChars:       15000,
		DefaultQuestions:   5,
		OptionsPerQuestion: 4,
		RequestTimeoutSec:  5,
	}
}

func TestReloadChangesGenerationSettings(t *testing.T) {
	var mu sync.Mutex
	var seen []chatRequest
	srv := newChatTestServer(t, func(req chatRequest) {
		mu.Lock()
		seen = append(seen, req)
		mu.Unlock()
	})
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	svc := NewAIService(&cfg, zap.NewNop())

	if _, err := svc.GenerateQuiz(context.Background(), "le cours", 2, false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	updated := cfg
	updated.Model = "mistral-large-latest"
	svc.Reload(updated)

	if _, err := svc.GenerateQuiz(context.Background(), "le cours", 2, false); err != nil {
		t.Fatalf("generate after reload: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("server saw %d requests, want 2", len(seen))
	}
	if seen[0].Model != "mistral-small-latest" || seen[1].Model != "mistral-large-latest" {
		t.Errorf("models on the wire = %q then %q", seen[0].Model, seen[1].Model)
	}
}

func TestReloadIsSafeDuringGeneration(t *testing.T) {
	srv := newChatTestServer(t, func(chatRequest) {})
	defer srv.Close()

	cfg := testAIConfig(srv.URL)
	svc := NewAIService(&cfg, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if _, err := svc.GenerateQuiz(context.Background(), "le cours", 2, false); err != nil {
					t.Errorf("generate: %v", err)
					return
				}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		updated := testAIConfig(srv.URL)
		for j := 0; j < 20; j++ {
			updated.QuizMaxChars = 1000 + j
			updated.DefaultQuestions = 3 + j%5
			svc.Reload(updated)
		}
	}()

	wg.Wait()
}
