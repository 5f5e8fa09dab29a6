package m_question

// Field constants for the quiz_questions table.
const (
	TableName = "quiz_questions"

	ColQuizID          = "quiz_id"
	ColQuestionID      = "question_id"
	ColKind            = "kind"
	ColPosition        = "position"
	ColQuestionText    = "question_text"
	ColOptions         = "options"
	ColCorrectAnswer   = "correct_answer"
	ColAcceptedAnswers = "accepted_answers"
	ColCaseSensitive   = "case_sensitive"
	ColExplanation     = "explanation"
	ColPoints          = "points"
	ColCreatedAt       = "created_at"
	ColUpdatedAt       = "updated_at"
)

// SelectColumns is the column order used by read queries.
var SelectColumns = []string{
	ColQuestionID, ColKind, ColPosition, ColQuestionText, ColOptions, ColCorrectAnswer,
	ColAcceptedAnswers, ColCaseSensitive, ColExplanation, ColPoints,
}
