package domain

import (
	"sort"
	"strings"
)

// Field tags used in validation error keys.
const (
	TagQuestion = "question"
	TagOptions  = "options"
	TagAnswer   = "answer"
	TagAnswers  = "answers"
)

// Validation messages.
const (
	MsgQuestionRequired       = "Question text is required"
	MsgTwoOptionsRequired     = "At least two options are required"
	MsgCorrectAnswerRequired  = "Correct answer is required"
	MsgCorrectAnswerNotOption = "Correct answer must be one of the options"
	MsgAcceptedAnswerRequired = "At least one accepted answer is required"
	MsgAcceptedAnswerBlank    = "Accepted answers cannot be blank"
)

// ErrorKey builds the "{id}-{tag}" key of a validation error.
func ErrorKey(id, tag string) string {
	return id + "-" + tag
}

// ValidationErrors maps error keys to messages.
type ValidationErrors map[string]string

// Keys returns the error keys in lexical order.
func (ve ValidationErrors) Keys() []string {
	keys := make([]string, 0, len(ve))
	for k := range ve {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (ve ValidationErrors) clone() ValidationErrors {
	out := make(ValidationErrors, len(ve))
	for k, v := range ve {
		out[k] = v
	}
	return out
}

func (ve ValidationErrors) dropRecord(id string) {
	prefix := id + "-"
	for k := range ve {
		if strings.HasPrefix(k, prefix) {
			delete(ve, k)
		}
	}
}

// ValidationResult is returned by Editor.Validate.
type ValidationResult struct {
	Valid  bool
	Errors ValidationErrors
}

func validateQuestion(q Question, errs ValidationErrors) {
	if norm(q.QuestionText) == "" {
		errs[ErrorKey(q.ID, TagQuestion)] = MsgQuestionRequired
	}

	switch q.Kind {
	case KindMultipleChoice:
		// rules apply to the stored form, where blank options are dropped
		options := nonBlank(q.Options)
		if len(options) < minOptions {
			errs[ErrorKey(q.ID, TagOptions)] = MsgTwoOptionsRequired
		}
		if norm(q.CorrectAnswer) == "" {
			errs[ErrorKey(q.ID, TagAnswer)] = MsgCorrectAnswerRequired
		} else if !containsExact(options, norm(q.CorrectAnswer)) {
			errs[ErrorKey(q.ID, TagAnswer)] = MsgCorrectAnswerNotOption
		}

	case KindShortAnswer:
		if len(q.AcceptedAnswers) < minAcceptedAnswers {
			errs[ErrorKey(q.ID, TagAnswers)] = MsgAcceptedAnswerRequired
			return
		}
		for _, a := range q.AcceptedAnswers {
			if norm(a) == "" {
				errs[ErrorKey(q.ID, TagAnswers)] = MsgAcceptedAnswerBlank
				return
			}
		}
	}
}

func containsExact(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// touchedTags returns the error tags a patch invalidates.
func touchedTags(p Patch) []string {
	var tags []string
	if p.QuestionText != nil {
		tags = append(tags, TagQuestion)
	}
	if p.Options != nil {
		tags = append(tags, TagOptions)
	}
	if p.CorrectAnswer != nil {
		tags = append(tags, TagAnswer)
	}
	if p.AcceptedAnswers != nil {
		tags = append(tags, TagAnswers)
	}
	return tags
}
