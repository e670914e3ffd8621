package model

import (
	"encoding/json"
	"testing"
)

func TestAnswerUnmarshal(t *testing.T) {
	t.Run("string payload is single choice", func(t *testing.T) {
		var q Question
		payload := `{"question":"Capitale de la France ?","options":["Paris","Lyon"],"answer":"Paris"}`
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if q.Answer.Multiple() {
			t.Error("expected single-choice answer")
		}
		if got := q.Answer.Values(); len(got) != 1 || got[0] != "Paris" {
			t.Errorf("values = %v, want [Paris]", got)
		}
	})

	t.Run("array payload is multi choice", func(t *testing.T) {
		var q Question
		payload := `{"question":"Nombres pairs ?","options":["1","2","3","4"],"answer":["2","4"]}`
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if !q.Answer.Multiple() {
			t.Error("expected multi-choice answer")
		}
		if got := q.Answer.Values(); len(got) != 2 {
			t.Errorf("values = %v, want two entries", got)
		}
	})

	t.Run("other payloads are rejected", func(t *testing.T) {
		var a Answer
		if err := json.Unmarshal([]byte(`42`), &a); err == nil {
			t.Error("expected error for numeric answer")
		}
	})
}

func TestAnswerMarshalRoundTrip(t *testing.T) {
	single, _ := json.Marshal(SingleAnswer("Paris"))
	if string(single) != `"Paris"` {
		t.Errorf("single answer encodes as %s, want \"Paris\"", single)
	}

	multi, _ := json.Marshal(MultipleAnswer("2", "4"))
	if string(multi) != `["2","4"]` {
		t.Errorf("multi answer encodes as %s, want [\"2\",\"4\"]", multi)
	}
}

func TestAnswerMatches(t *testing.T) {
	t.Run("single choice", func(t *testing.T) {
		a := SingleAnswer("Paris")
		if !a.Matches([]string{"Paris"}) {
			t.Error("exact selection should match")
		}
		if a.Matches([]string{"Lyon"}) {
			t.Error("wrong option should not match")
		}
		if a.Matches([]string{"Paris", "Lyon"}) {
			t.Error("two selections should not match a single-choice answer")
		}
		if a.Matches(nil) {
			t.Error("empty selection should not match")
		}
	})

	t.Run("multi choice is exact set equality", func(t *testing.T) {
		a := MultipleAnswer("2", "4")
		if !a.Matches([]string{"4", "2"}) {
			t.Error("order must not matter")
		}
		if a.Matches([]string{"2"}) {
			t.Error("subset should not match")
		}
		if a.Matches([]string{"2", "4", "1"}) {
			t.Error("superset should not match")
		}
		if a.Matches([]string{"2", "3"}) {
			t.Error("partially wrong set should not match")
		}
	})
}

func TestQuestionListScan(t *testing.T) {
	raw := `[{"question":"Q1","options":["a","b"],"answer":"a"}]`

	var fromBytes QuestionList
	if err := fromBytes.Scan([]byte(raw)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(fromBytes) != 1 || fromBytes[0].Text != "Q1" {
		t.Errorf("scan bytes = %+v", fromBytes)
	}

	var fromString QuestionList
	if err := fromString.Scan(raw); err != nil {
		t.Fatalf("scan string: %v", err)
	}

	var fromNil QuestionList
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if fromNil != nil {
		t.Errorf("scan nil = %+v, want nil", fromNil)
	}
}
