package shared

import (
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
)

// QuestionsFromDTOs reconstructs stored questions for an editor reset.
// Rows of another kind are skipped.
func QuestionsFromDTOs(kind domain.Kind, rows []*dto.QuestionDTO) []domain.Question {
	out := make([]domain.Question, 0, len(rows))
	for _, r := range rows {
		if r == nil || domain.Kind(r.Kind) != kind {
			continue
		}
		correct := ""
		if r.CorrectAnswer != nil {
			correct = *r.CorrectAnswer
		}
		explanation := ""
		if r.Explanation != nil {
			explanation = *r.Explanation
		}
		out = append(out, domain.ReconstructQuestion(r.QuestionID, kind, int(r.Position), r.QuestionText,
			r.Options, correct, r.AcceptedAnswers, r.CaseSensitive, explanation, int(r.Points)))
	}
	return out
}
