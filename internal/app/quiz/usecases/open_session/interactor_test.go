package open_session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/usecasetest"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
)

func TestOpen_LoadsStoredQuestions(t *testing.T) {
	clk := clock.NewFake(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	rm := usecasetest.NewReadModel()
	rm.Put("quiz-1",
		&dto.QuestionDTO{QuestionID: usecasetest.PersistedID('a'), Kind: "short_answer", Position: 1, QuestionText: "A", AcceptedAnswers: []string{"a"}},
		&dto.QuestionDTO{QuestionID: usecasetest.PersistedID('b'), Kind: "short_answer", Position: 2, QuestionText: "B", AcceptedAnswers: []string{"b"}},
		&dto.QuestionDTO{QuestionID: usecasetest.PersistedID('c'), Kind: "multiple_choice", Position: 1},
	)
	store := session.NewMemoryStore(time.Hour, clk)
	it := NewInteractor(rm, store, clk, nil)

	view, err := it.Execute(context.Background(), Request{QuizID: "quiz-1", Kind: domain.KindShortAnswer})
	require.NoError(t, err)

	assert.NotEmpty(t, view.SessionID)
	assert.Equal(t, int64(1), view.Version)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "A", view.Items[0].QuestionText)
	assert.Equal(t, 2, view.Items[1].Order)
	assert.Equal(t, domain.OriginPersisted, view.Items[1].Origin)
	assert.False(t, view.HasChanges)

	_, err = store.Get(context.Background(), view.SessionID)
	assert.NoError(t, err)
}

func TestOpen_EmptyQuizStartsWithOneBlankQuestion(t *testing.T) {
	rm := usecasetest.NewReadModel()
	it := NewInteractor(rm, session.NewMemoryStore(0, nil), clock.RealClock{}, nil)

	view, err := it.Execute(context.Background(), Request{QuizID: "quiz-1", Kind: domain.KindMultipleChoice})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, domain.OriginLocal, view.Items[0].Origin)
	assert.Equal(t, []string{"", ""}, view.Items[0].Options)
	assert.True(t, view.HasChanges)
}

func TestOpen_RejectsBadRequests(t *testing.T) {
	rm := usecasetest.NewReadModel()
	it := NewInteractor(rm, session.NewMemoryStore(0, nil), clock.RealClock{}, nil)

	_, err := it.Execute(context.Background(), Request{Kind: domain.KindShortAnswer})
	assert.ErrorIs(t, err, domain.ErrQuizIDRequired)

	_, err = it.Execute(context.Background(), Request{QuizID: "q", Kind: "essay"})
	assert.ErrorIs(t, err, domain.ErrUnknownKind)

	rm.Err = errors.New("down")
	_, err = it.Execute(context.Background(), Request{QuizID: "q", Kind: domain.KindShortAnswer})
	assert.Error(t, err)
}
