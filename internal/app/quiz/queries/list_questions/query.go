package list_questions

import (
	"context"

	"cloud.google.com/go/spanner"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/models/m_question"
)

// SpannerListQuestionsQuery lists the stored questions of one kind of a quiz.
type SpannerListQuestionsQuery struct {
	Client *spanner.Client
}

func NewSpannerListQuestionsQuery(client *spanner.Client) *SpannerListQuestionsQuery {
	return &SpannerListQuestionsQuery{Client: client}
}

const listQuestionsSQL = `SELECT question_id, kind, position, question_text, options, correct_answer,
		             accepted_answers, case_sensitive, explanation, points
		FROM quiz_questions
		WHERE quiz_id = @quiz_id AND kind = @kind
		ORDER BY position ASC, question_id ASC`

func (q *SpannerListQuestionsQuery) ListQuestions(ctx context.Context, quizID string, kind domain.Kind) ([]*dto.QuestionDTO, error) {
	stmt := spanner.Statement{
		SQL: listQuestionsSQL,
		Params: map[string]interface{}{
			"quiz_id": quizID,
			"kind":    string(kind),
		},
	}
	return q.run(ctx, quizID, stmt)
}

// ListQuestionsPage is ListQuestions restricted to limit rows after offset.
func (q *SpannerListQuestionsQuery) ListQuestionsPage(ctx context.Context, quizID string, kind domain.Kind, limit, offset int) ([]*dto.QuestionDTO, error) {
	stmt := spanner.Statement{
		SQL: listQuestionsSQL + " LIMIT @limit OFFSET @offset",
		Params: map[string]interface{}{
			"quiz_id": quizID,
			"kind":    string(kind),
			"limit":   int64(limit),
			"offset":  int64(offset),
		},
	}
	return q.run(ctx, quizID, stmt)
}

func (q *SpannerListQuestionsQuery) run(ctx context.Context, quizID string, stmt spanner.Statement) ([]*dto.QuestionDTO, error) {
	iter := q.Client.Single().Query(ctx, stmt)
	defer iter.Stop()

	out := make([]*dto.QuestionDTO, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return out, nil
		}
		if err != nil {
			return nil, errors.Wrapf(err, "list questions of quiz %s", quizID)
		}

		var (
			id, kindStr, text    string
			position, points     int64
			options, accepted    []spanner.NullString
			correct, explanation spanner.NullString
			caseSensitive        spanner.NullBool
		)
		if err := row.Columns(&id, &kindStr, &position, &text, &options, &correct,
			&accepted, &caseSensitive, &explanation, &points); err != nil {
			return nil, errors.Wrap(err, "decode question row")
		}

		d := &dto.QuestionDTO{
			QuizID:        quizID,
			QuestionID:    id,
			Kind:          kindStr,
			Position:      position,
			QuestionText:  text,
			CaseSensitive: caseSensitive.Valid && caseSensitive.Bool,
			Points:        points,
			CorrectAnswer: nullStringPtr(correct),
			Explanation:   nullStringPtr(explanation),
		}
		d.Options = decodeList(m_question.ColOptions, options, d)
		d.AcceptedAnswers = decodeList(m_question.ColAcceptedAnswers, accepted, d)
		out = append(out, d)
	}
}

// decodeList runs an array column through list ingestion; NULL elements
// become empty strings and mark the column malformed on d.
func decodeList(col string, in []spanner.NullString, d *dto.QuestionDTO) []string {
	if in == nil {
		return []string{}
	}
	raw := make([]any, len(in))
	for i, v := range in {
		if v.Valid {
			raw[i] = v.StringVal
		}
	}
	list := domain.TextListOf(raw)
	if list.State == domain.TextMalformed {
		d.Malformed = append(d.Malformed, col)
	}
	return list.Values
}

func nullStringPtr(v spanner.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.StringVal
	return &s
}
