package quiz

import (
	"context"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/get_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/list_questions"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/clear_changes"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/close_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/diff_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/edit_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/open_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/reset_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/save_session"
	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/validate_session"
)

// Commands groups write interactors.
// Keep transport layer depending on application layer only.
type Commands struct {
	Open     *open_session.Interactor
	Edit     *edit_session.Interactor
	Validate *validate_session.Interactor
	Reset    *reset_session.Interactor
	Clear    *clear_changes.Interactor
	Save     *save_session.Interactor
	Close    *close_session.Interactor
}

// Queries groups read handlers.
type Queries struct {
	Get  *get_session.Handler
	Diff *diff_session.Interactor
	List *list_questions.Handler
}

// Handler is a thin gRPC transport adapter.
// It validates input, maps Struct messages <-> application DTOs and delegates to CQRS handlers.
type Handler struct {
	commands Commands
	queries  Queries
	log      *logrus.Entry
}

var _ QuizAuthoringServiceServer = (*Handler)(nil)

func NewHandler(cmd Commands, qry Queries, log *logrus.Entry) *Handler {
	return &Handler{commands: cmd, queries: qry, log: shared.Logger(log)}
}

func (h *Handler) OpenSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req openSessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	kind := domain.Kind(req.Kind)
	records, coerced := mapRecords(kind, req.Records)
	h.logCoerced(coerced)

	view, err := h.commands.Open.Execute(ctx, open_session.Request{
		QuizID:  req.QuizID,
		Kind:    kind,
		Inline:  req.Inline,
		Records: records,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapSessionView(view))
}

func (h *Handler) GetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	view, err := h.queries.Get.Execute(ctx, req.SessionID)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapSessionView(view))
}

func (h *Handler) ApplyEdit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req applyEditRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}
	if req.needsQuestionID() && req.QuestionID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "question_id is required for %s", req.Op)
	}

	op, err := mapOperation(&req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	out, err := h.commands.Edit.Execute(ctx, edit_session.Request{
		SessionID:       req.SessionID,
		ExpectedVersion: req.ExpectedVersion,
		Operation:       op,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(&editReply{
		Applied:   out.Result.Applied,
		CreatedID: out.Result.CreatedID,
		Session:   mapSessionView(out.Session),
	})
}

func (h *Handler) Validate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	out, err := h.commands.Validate.Execute(ctx, validate_session.Request{SessionID: req.SessionID})
	if err != nil {
		return nil, mapError(err)
	}
	errs := map[string]string(out.Result.Errors)
	if errs == nil {
		errs = map[string]string{}
	}
	return reply(&validateReply{Valid: out.Result.Valid, Errors: errs, Session: mapSessionView(out.Session)})
}

func (h *Handler) GetChanges(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	changes, err := h.queries.Diff.Execute(ctx, diff_session.Request{SessionID: req.SessionID})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapChanges(changes))
}

func (h *Handler) ResetSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req resetSessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	// the editor assigns its own kind on reset
	records, coerced := mapRecords("", req.Records)
	h.logCoerced(coerced)

	view, err := h.commands.Reset.Execute(ctx, reset_session.Request{
		SessionID: req.SessionID,
		Inline:    req.Inline,
		Records:   records,
	})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapSessionView(view))
}

func (h *Handler) ClearChanges(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	view, err := h.commands.Clear.Execute(ctx, clear_changes.Request{SessionID: req.SessionID})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapSessionView(view))
}

func (h *Handler) Save(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	res, err := h.commands.Save.Execute(ctx, save_session.Request{SessionID: req.SessionID})
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapSaveResult(res))
}

func (h *Handler) CloseSession(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req sessionRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	if err := h.commands.Close.Execute(ctx, close_session.Request{SessionID: req.SessionID}); err != nil {
		return nil, mapError(err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{}}, nil
}

// ListQuestions pages through the stored questions of a quiz without opening
// a session.
func (h *Handler) ListQuestions(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req listQuestionsRequest
	if err := decodeRequest(in, &req); err != nil {
		return nil, invalidArgument(err)
	}

	offset, err := decodePageToken(req.PageToken)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	page, err := h.queries.List.ExecutePage(ctx, req.QuizID, domain.Kind(req.Kind), pageSize(req.PageSize), offset)
	if err != nil {
		return nil, mapError(err)
	}
	return reply(mapQuestionPage(page))
}

func (h *Handler) logCoerced(coerced map[string][]string) {
	for id, fields := range coerced {
		h.log.WithFields(logrus.Fields{"question_id": id, "fields": fields}).Debug("coerced malformed record fields")
	}
}

func reply(v any) (*structpb.Struct, error) {
	out, err := toStruct(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
