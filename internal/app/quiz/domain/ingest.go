package domain

import (
	"fmt"
	"math"
	"strconv"
)

// TextState classifies a loosely-typed input value.
type TextState int

const (
	TextMissing TextState = iota
	TextValid
	TextMalformed
)

// Text is a string field decoded from untrusted input.
type Text struct {
	State TextState
	Value string
}

// TextList is a list field decoded from untrusted input. Malformed is set
// when the value was not a list or when at least one element was not a string.
type TextList struct {
	State  TextState
	Values []string
}

// TextOf decodes v. Non-string scalars are kept in their string form and
// marked malformed.
func TextOf(v any) Text {
	switch t := v.(type) {
	case nil:
		return Text{State: TextMissing}
	case string:
		return Text{State: TextValid, Value: t}
	default:
		return Text{State: TextMalformed, Value: coerceString(t)}
	}
}

// TextListOf decodes v as a list of strings. A non-list value yields an empty
// malformed list; non-string elements are coerced.
func TextListOf(v any) TextList {
	switch t := v.(type) {
	case nil:
		return TextList{State: TextMissing}
	case []string:
		return TextList{State: TextValid, Values: cloneStrings(t)}
	case []any:
		out := TextList{State: TextValid, Values: make([]string, 0, len(t))}
		for _, el := range t {
			txt := TextOf(el)
			if txt.State != TextValid {
				out.State = TextMalformed
			}
			out.Values = append(out.Values, txt.Value)
		}
		return out
	default:
		return TextList{State: TextMalformed, Values: []string{}}
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func intOf(v any) (int, bool) {
	switch t := v.(type) {
	case float64:
		return int(t), true
	case int:
		return t, true
	case int64:
		return int(t), true
	case string:
		n, err := strconv.Atoi(t)
		return n, err == nil
	default:
		return 0, false
	}
}

func boolOf(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(t)
		return b, err == nil
	default:
		return false, false
	}
}

// IngestQuestion decodes a loosely-typed record such as a JSON object or a
// protobuf Struct. It never fails; the names of fields that had to be coerced
// are returned alongside the question.
func IngestQuestion(kind Kind, raw map[string]any) (Question, []string) {
	var malformed []string
	text := func(key string) string {
		t := TextOf(raw[key])
		if t.State == TextMalformed {
			malformed = append(malformed, key)
		}
		return t.Value
	}
	list := func(key string) []string {
		l := TextListOf(raw[key])
		if l.State == TextMalformed {
			malformed = append(malformed, key)
		}
		return l.Values
	}

	q := Question{
		ID:            text("id"),
		Kind:          kind,
		QuestionText:  text("question_text"),
		Explanation:   text("explanation"),
		Options:       list("options"),
		CorrectAnswer: text("correct_answer"),
	}
	q.AcceptedAnswers = list("accepted_answers")

	if v, ok := raw["order"]; ok && v != nil {
		if n, ok := intOf(v); ok {
			q.Order = n
		} else {
			malformed = append(malformed, "order")
		}
	}
	if v, ok := raw["points"]; ok && v != nil {
		if n, ok := intOf(v); ok {
			q.Points = n
		} else {
			malformed = append(malformed, "points")
		}
	}
	if v, ok := raw["case_sensitive"]; ok && v != nil {
		if b, ok := boolOf(v); ok {
			q.CaseSensitive = b
		} else {
			malformed = append(malformed, "case_sensitive")
		}
	}
	if o := TextOf(raw["origin"]); o.State == TextValid {
		switch Origin(o.Value) {
		case OriginPersisted, OriginLocal:
			q.Origin = Origin(o.Value)
		}
	}
	return q, malformed
}
