package m_question

import (
	"time"

	"cloud.google.com/go/spanner"
)

// InsertMutation builds a spanner.Insert mutation for a question using a map of values.
// expected keys are the column names declared in fields.go
func InsertMutation(values map[string]interface{}) *spanner.Mutation {
	cols := make([]string, 0, len(values))
	vals := make([]interface{}, 0, len(values))
	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}
	return spanner.Insert(TableName, cols, vals)
}

// UpdateMutation builds a spanner.Update mutation for a question.
// The values map should NOT include the key columns; they are put first.
func UpdateMutation(quizID, questionID string, values map[string]interface{}) *spanner.Mutation {
	cols := []string{ColQuizID, ColQuestionID}
	vals := []interface{}{quizID, questionID}

	for col, v := range values {
		cols = append(cols, col)
		vals = append(vals, v)
	}

	return spanner.Update(TableName, cols, vals)
}

// DeleteMutation builds a spanner.Delete mutation for one question row.
func DeleteMutation(quizID, questionID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{quizID, questionID})
}

// BuildInsertMap prepares the canonical fields for insertion.
// Array columns are always written as non-NULL arrays.
func BuildInsertMap(quizID, questionID, kind string, position int64, text string,
	options []string, correct string, accepted []string, caseSensitive bool,
	explanation *string, points int64, createdAt time.Time) map[string]interface{} {

	m := map[string]interface{}{
		ColQuizID:          quizID,
		ColQuestionID:      questionID,
		ColKind:            kind,
		ColPosition:        position,
		ColQuestionText:    text,
		ColOptions:         nonNil(options),
		ColCorrectAnswer:   correct,
		ColAcceptedAnswers: nonNil(accepted),
		ColCaseSensitive:   caseSensitive,
		ColPoints:          points,
		ColCreatedAt:       createdAt,
		ColUpdatedAt:       createdAt,
	}

	if explanation != nil {
		m[ColExplanation] = *explanation
	} else {
		m[ColExplanation] = nil
	}

	return m
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
