package quiz

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report violations with the wire field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type openSessionRequest struct {
	QuizID  string           `json:"quiz_id" validate:"required,max=64"`
	Kind    string           `json:"kind" validate:"required,oneof=multiple_choice short_answer"`
	Inline  bool             `json:"inline"`
	Records []map[string]any `json:"records" validate:"omitempty,max=500"`
}

type listQuestionsRequest struct {
	QuizID    string `json:"quiz_id" validate:"required,max=64"`
	Kind      string `json:"kind" validate:"required,oneof=multiple_choice short_answer"`
	PageSize  int    `json:"page_size" validate:"gte=0"`
	PageToken string `json:"page_token"`
}

type sessionRequest struct {
	SessionID string `json:"session_id" validate:"required,uuid"`
}

type applyEditRequest struct {
	SessionID       string         `json:"session_id" validate:"required,uuid"`
	ExpectedVersion int64          `json:"expected_version" validate:"gte=0"`
	Op              string         `json:"op" validate:"required,oneof=update add remove move_up move_down add_option update_option remove_option add_accepted_answer update_accepted_answer remove_accepted_answer"`
	QuestionID      string         `json:"question_id" validate:"max=64"`
	AfterID         string         `json:"after_id"`
	Index           int            `json:"index" validate:"gte=0"`
	Value           string         `json:"value"`
	Patch           map[string]any `json:"patch" validate:"required_if=Op update"`
}

type resetSessionRequest struct {
	SessionID string           `json:"session_id" validate:"required,uuid"`
	Inline    bool             `json:"inline"`
	Records   []map[string]any `json:"records" validate:"omitempty,max=500"`
}

// needsQuestionID reports whether op addresses a single question.
func (r *applyEditRequest) needsQuestionID() bool {
	switch r.Op {
	case "add", "move_up", "move_down":
		return false
	}
	return true
}

// decodeRequest fills dst from in and validates it.
func decodeRequest(in *structpb.Struct, dst any) error {
	if in == nil {
		return errors.New("request is required")
	}
	b, err := json.Marshal(in.AsMap())
	if err != nil {
		return errors.Wrap(err, "encode request")
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return errors.Wrap(err, "malformed request")
	}
	return validate.Struct(dst)
}
