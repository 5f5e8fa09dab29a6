// Package usecasetest provides in-memory doubles for use case tests.
package usecasetest

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	commitplan "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
)

// ReadModel serves fixed rows per quiz.
type ReadModel struct {
	mu    sync.Mutex
	Rows  map[string][]*dto.QuestionDTO
	Err   error
	Calls int
}

func NewReadModel() *ReadModel {
	return &ReadModel{Rows: make(map[string][]*dto.QuestionDTO)}
}

func (r *ReadModel) ListQuestions(_ context.Context, quizID string, kind domain.Kind) ([]*dto.QuestionDTO, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls++
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*dto.QuestionDTO, 0)
	for _, row := range r.Rows[quizID] {
		if row.Kind == string(kind) {
			cp := *row
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *ReadModel) ListQuestionsPage(ctx context.Context, quizID string, kind domain.Kind, limit, offset int) ([]*dto.QuestionDTO, error) {
	rows, err := r.ListQuestions(ctx, quizID, kind)
	if err != nil {
		return nil, err
	}
	if offset >= len(rows) {
		return []*dto.QuestionDTO{}, nil
	}
	if end := offset + limit; end < len(rows) {
		return rows[offset:end], nil
	}
	return rows[offset:], nil
}

// Put stores rows for quizID, replacing earlier ones.
func (r *ReadModel) Put(quizID string, rows ...*dto.QuestionDTO) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Rows[quizID] = rows
}

// Committer records applied plans.
type Committer struct {
	mu    sync.Mutex
	Plans []*commitplan.Plan
	Err   error

	// OnApply runs after a successful apply, e.g. to update a ReadModel.
	OnApply func(*commitplan.Plan)
}

func (c *Committer) Apply(_ context.Context, plan *commitplan.Plan) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Plans = append(c.Plans, plan)
	if c.OnApply != nil {
		c.OnApply(plan)
	}
	return nil
}

// Metrics records save observations.
type Metrics struct {
	mu       sync.Mutex
	Outcomes []string
	Last     commitplan.Summary
}

func (m *Metrics) ObserveSave(_, outcome string, s commitplan.Summary, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Outcomes = append(m.Outcomes, outcome)
	m.Last = s
}

// PersistedID builds a stable 24 hex char id from c.
func PersistedID(c byte) string {
	const hex = "0123456789abcdef"
	b := make([]byte, domain.PersistedIDLength)
	for i := range b {
		b[i] = hex[int(c)%len(hex)]
	}
	return string(b)
}

// Sequence returns a generator yielding prefix1, prefix2, ...
func Sequence(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}

// PersistedSequence returns a generator of distinct persisted-shape ids.
func PersistedSequence() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%024x", 0xf00000+n)
	}
}
