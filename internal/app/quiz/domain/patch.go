package domain

// Patch is a partial update of a question. Nil fields are left untouched; a
// non-nil empty slice replaces the list with an empty one.
type Patch struct {
	QuestionText    *string
	Explanation     *string
	Points          *int
	Options         []string
	CorrectAnswer   *string
	AcceptedAnswers []string
	CaseSensitive   *bool
}

// Empty reports whether the patch touches nothing.
func (p Patch) Empty() bool {
	return p.QuestionText == nil && p.Explanation == nil && p.Points == nil &&
		p.Options == nil && p.CorrectAnswer == nil && p.AcceptedAnswers == nil &&
		p.CaseSensitive == nil
}

func (p Patch) applyTo(q Question) Question {
	out := q.Clone()
	if p.QuestionText != nil {
		out.QuestionText = *p.QuestionText
	}
	if p.Explanation != nil {
		out.Explanation = *p.Explanation
	}
	if p.Points != nil {
		out.Points = *p.Points
	}
	if p.Options != nil {
		out.Options = cloneStrings(p.Options)
	}
	if p.CorrectAnswer != nil {
		out.CorrectAnswer = *p.CorrectAnswer
	}
	if p.AcceptedAnswers != nil {
		out.AcceptedAnswers = cloneStrings(p.AcceptedAnswers)
	}
	if p.CaseSensitive != nil {
		out.CaseSensitive = *p.CaseSensitive
	}
	return out
}
