package session

import (
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Margays/internal/apperr"
	"github.com/lshigami/Margays/internal/model"
)

// StoredAnswer is one in-progress response keyed by question index.
type StoredAnswer struct {
	QuestionIndex int
	Text          string
	Source        string
	TimeSpentSec  int
	LastModified  time.Time
}

// AnswerStore is the ordered map of question index to in-progress answer.
// Keys are always within [0, questionCount). The store is not safe for
// concurrent use on its own; the owning engine serializes access.
type AnswerStore struct {
	questionCount int
	answers       map[int]*StoredAnswer
}

func NewAnswerStore(questionCount int) *AnswerStore {
	return &AnswerStore{
		questionCount: questionCount,
		answers:       make(map[int]*StoredAnswer),
	}
}

// Load seeds the store from persisted rows, used on resume.
func (s *AnswerStore) Load(rows []model.Answer) {
	for _, row := range rows {
		if row.QuestionIndex < 0 || row.QuestionIndex >= s.questionCount {
			continue
		}
		s.answers[row.QuestionIndex] = &StoredAnswer{
			QuestionIndex: row.QuestionIndex,
			Text:          row.Text,
			Source:        row.Source,
			TimeSpentSec:  row.TimeSpentSec,
			LastModified:  row.LastModified,
		}
	}
}

// Upsert overwrites the stored text for index. Writes are last-writer-wins
// across both input channels (typed and voice). Rewriting identical text is
// a no-op: the stored state, including LastModified, is unchanged.
func (s *AnswerStore) Upsert(index int, text, source string) (StoredAnswer, bool, error) {
	if index < 0 || index >= s.questionCount {
		return StoredAnswer{}, false, apperr.Validation("question_index",
			fmt.Sprintf("index %d out of range [0, %d)", index, s.questionCount))
	}
	if source == "" {
		source = model.AnswerSourceTyped
	}

	existing, ok := s.answers[index]
	if ok && existing.Text == text {
		return *existing, false, nil
	}
	if !ok {
		existing = &StoredAnswer{QuestionIndex: index}
		s.answers[index] = existing
	}
	existing.Text = text
	existing.Source = source
	existing.LastModified = time.Now()
	return *existing, true, nil
}

// AddTime accrues time spent on a question across visits, creating the
// entry if the question was visited but never answered.
func (s *AnswerStore) AddTime(index, seconds int) (StoredAnswer, bool) {
	if index < 0 || index >= s.questionCount || seconds < 0 {
		return StoredAnswer{}, false
	}
	existing, ok := s.answers[index]
	if !ok {
		existing = &StoredAnswer{QuestionIndex: index, Source: model.AnswerSourceTyped}
		s.answers[index] = existing
	}
	existing.TimeSpentSec += seconds
	return *existing, true
}

func (s *AnswerStore) Get(index int) (StoredAnswer, bool) {
	existing, ok := s.answers[index]
	if !ok {
		return StoredAnswer{}, false
	}
	return *existing, true
}

// Snapshot returns all stored answers ordered by question index.
func (s *AnswerStore) Snapshot() []StoredAnswer {
	out := make([]StoredAnswer, 0, len(s.answers))
	for _, a := range s.answers {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionIndex < out[j].QuestionIndex })
	return out
}

// AnsweredCount counts indices with non-empty text.
func (s *AnswerStore) AnsweredCount() int {
	count := 0
	for _, a := range s.answers {
		if a.Text != "" {
			count++
		}
	}
	return count
}

// CompletionFraction is answeredCount / questionCount.
func (s *AnswerStore) CompletionFraction() float64 {
	if s.questionCount == 0 {
		return 0
	}
	return float64(s.AnsweredCount()) / float64(s.questionCount)
}
