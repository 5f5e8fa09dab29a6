package quiz

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/list_questions"
)

type sessionReply struct {
	SessionID  string            `json:"session_id"`
	QuizID     string            `json:"quiz_id"`
	Kind       string            `json:"kind"`
	Version    int64             `json:"version"`
	UpdatedAt  string            `json:"updated_at"`
	Items      []domain.Question `json:"items"`
	Errors     map[string]string `json:"errors"`
	HasChanges bool              `json:"has_changes"`
}

type changesReply struct {
	New     []domain.NewQuestion     `json:"new"`
	Edited  []domain.Question        `json:"edited"`
	Deleted []domain.DeletedQuestion `json:"deleted"`
}

type editReply struct {
	Applied   bool          `json:"applied"`
	CreatedID string        `json:"created_id,omitempty"`
	Session   *sessionReply `json:"session"`
}

type validateReply struct {
	Valid   bool              `json:"valid"`
	Errors  map[string]string `json:"errors"`
	Session *sessionReply     `json:"session"`
}

type saveReply struct {
	IDMap    map[string]string `json:"id_map"`
	Inserted int               `json:"inserted"`
	Updated  int               `json:"updated"`
	Deleted  int               `json:"deleted"`
	Session  *sessionReply     `json:"session"`
}

type questionReply struct {
	QuestionID      string   `json:"question_id"`
	Kind            string   `json:"kind"`
	Position        int64    `json:"position"`
	QuestionText    string   `json:"question_text"`
	Options         []string `json:"options,omitempty"`
	CorrectAnswer   *string  `json:"correct_answer,omitempty"`
	AcceptedAnswers []string `json:"accepted_answers,omitempty"`
	CaseSensitive   bool     `json:"case_sensitive"`
	Explanation     *string  `json:"explanation,omitempty"`
	Points          int64    `json:"points"`
}

type listQuestionsReply struct {
	Questions     []*questionReply `json:"questions"`
	NextPageToken string           `json:"next_page_token"`
}

func mapQuestionPage(p *list_questions.Page) *listQuestionsReply {
	out := &listQuestionsReply{
		Questions:     make([]*questionReply, 0, len(p.Items)),
		NextPageToken: encodePageToken(p.NextOffset),
	}
	for _, d := range p.Items {
		out.Questions = append(out.Questions, &questionReply{
			QuestionID:      d.QuestionID,
			Kind:            d.Kind,
			Position:        d.Position,
			QuestionText:    d.QuestionText,
			Options:         d.Options,
			CorrectAnswer:   d.CorrectAnswer,
			AcceptedAnswers: d.AcceptedAnswers,
			CaseSensitive:   d.CaseSensitive,
			Explanation:     d.Explanation,
			Points:          d.Points,
		})
	}
	return out
}

func mapSessionView(v *dto.SessionView) *sessionReply {
	if v == nil {
		return nil
	}
	errs := map[string]string(v.Errors)
	if errs == nil {
		errs = map[string]string{}
	}
	return &sessionReply{
		SessionID:  v.SessionID,
		QuizID:     v.QuizID,
		Kind:       string(v.Kind),
		Version:    v.Version,
		UpdatedAt:  v.UpdatedAt.UTC().Format(time.RFC3339Nano),
		Items:      v.Items,
		Errors:     errs,
		HasChanges: v.HasChanges,
	}
}

func mapChanges(c *dto.ChangesView) *changesReply {
	return &changesReply{New: c.New, Edited: c.Edited, Deleted: c.Deleted}
}

func mapSaveResult(r *dto.SaveResult) *saveReply {
	ids := r.IDMap
	if ids == nil {
		ids = map[string]string{}
	}
	return &saveReply{
		IDMap:    ids,
		Inserted: r.Inserted,
		Updated:  r.Updated,
		Deleted:  r.Deleted,
		Session:  mapSessionView(r.Session),
	}
}

// toStruct converts a reply into a protobuf Struct through its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encode reply")
	}
	m := map[string]any{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, errors.Wrap(err, "encode reply")
	}
	return structpb.NewStruct(m)
}

// mapRecords ingests loosely-typed records. The names of coerced fields are
// returned per record id.
func mapRecords(kind domain.Kind, raw []map[string]any) ([]domain.Question, map[string][]string) {
	out := make([]domain.Question, 0, len(raw))
	coerced := map[string][]string{}
	for _, r := range raw {
		q, malformed := domain.IngestQuestion(kind, r)
		if len(malformed) > 0 {
			coerced[q.ID] = malformed
		}
		out = append(out, q)
	}
	return out, coerced
}

// mapPatch decodes a partial update. Unlike records, a patch with a value
// of the wrong type is rejected.
func mapPatch(raw map[string]any) (domain.Patch, error) {
	var p domain.Patch

	text := func(key string) (*string, error) {
		t := domain.TextOf(raw[key])
		switch t.State {
		case domain.TextMissing:
			return nil, nil
		case domain.TextMalformed:
			return nil, errors.Errorf("patch.%s must be a string", key)
		}
		v := t.Value
		return &v, nil
	}
	list := func(key string) ([]string, error) {
		l := domain.TextListOf(raw[key])
		if l.State == domain.TextMalformed {
			return nil, errors.Errorf("patch.%s must be a list of strings", key)
		}
		return l.Values, nil
	}

	var err error
	if p.QuestionText, err = text("question_text"); err != nil {
		return p, err
	}
	if p.Explanation, err = text("explanation"); err != nil {
		return p, err
	}
	if p.CorrectAnswer, err = text("correct_answer"); err != nil {
		return p, err
	}
	if p.Options, err = list("options"); err != nil {
		return p, err
	}
	if p.AcceptedAnswers, err = list("accepted_answers"); err != nil {
		return p, err
	}
	if v, ok := raw["points"]; ok && v != nil {
		n, ok := v.(float64)
		if !ok || n != float64(int(n)) || n < 0 {
			return p, errors.New("patch.points must be a non-negative integer")
		}
		points := int(n)
		p.Points = &points
	}
	if v, ok := raw["case_sensitive"]; ok && v != nil {
		b, ok := v.(bool)
		if !ok {
			return p, errors.New("patch.case_sensitive must be a boolean")
		}
		p.CaseSensitive = &b
	}
	if p.Empty() {
		return p, errors.New("patch must set at least one field")
	}
	return p, nil
}

func mapOperation(req *applyEditRequest) (domain.Operation, error) {
	op := domain.Operation{
		Name:       domain.OpName(req.Op),
		QuestionID: req.QuestionID,
		AfterID:    req.AfterID,
		Index:      req.Index,
		Value:      req.Value,
	}
	if op.Name == domain.OpUpdate {
		p, err := mapPatch(req.Patch)
		if err != nil {
			return op, err
		}
		op.Patch = p
	}
	return op, nil
}
