package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Answer is the correct answer of a question. The wire payload encodes it as
// either a single string (single-choice) or an array of strings
// (multi-choice); the runtime shape of that field is the sole discriminator
// between the two question modes.
type Answer struct {
	values   []string
	multiple bool
}

func SingleAnswer(v string) Answer {
	return Answer{values: []string{v}}
}

func MultipleAnswer(vs ...string) Answer {
	return Answer{values: vs, multiple: true}
}

// Multiple reports whether the question accepts several correct options.
func (a Answer) Multiple() bool {
	return a.multiple
}

func (a Answer) Values() []string {
	out := make([]string, len(a.values))
	copy(out, a.values)
	return out
}

// Matches reports whether the selection is correct. Single-choice: the sole
// selected option must string-equal the answer. Multi-choice: the selection
// set must equal the answer set exactly, order-independently; subsets and
// supersets are incorrect.
func (a Answer) Matches(selection []string) bool {
	if !a.multiple {
		return len(selection) == 1 && len(a.values) == 1 && selection[0] == a.values[0]
	}
	if len(selection) != len(a.values) {
		return false
	}
	sel := append([]string(nil), selection...)
	want := append([]string(nil), a.values...)
	sort.Strings(sel)
	sort.Strings(want)
	for i := range sel {
		if sel[i] != want[i] {
			return false
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a.multiple {
		return json.Marshal(a.values)
	}
	if len(a.values) == 0 {
		return json.Marshal("")
	}
	return json.Marshal(a.values[0])
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		a.values = []string{single}
		a.multiple = false
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		a.values = many
		a.multiple = true
		return nil
	}
	return errors.New("answer must be a string or an array of strings")
}

// Question is one entry of a generated quiz, in the wire shape
// {"question": ..., "options": [...], "answer": ...}.
// swagger:model Question
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Answer  Answer   `json:"answer"`
}

// HasOption reports whether option is one of the question's choices.
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// QuestionList is stored as a JSON column on the qcms table.
type QuestionList []Question

func (l QuestionList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *QuestionList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for QuestionList", value)
	}
}
