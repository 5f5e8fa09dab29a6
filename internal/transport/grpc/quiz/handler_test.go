package quiz

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/dto"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/get_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries/list_questions"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/repo"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/clear_changes"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/close_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/diff_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/edit_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/open_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/reset_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/save_session"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/usecasetest"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/validate_session"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
)

type testServer struct {
	client    *Client
	committer *usecasetest.Committer
	readModel *usecasetest.ReadModel
}

func startServer(t *testing.T) *testServer {
	t.Helper()

	clk := clock.NewFake(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	store := session.NewMemoryStore(time.Hour, clk)
	rm := usecasetest.NewReadModel()
	rm.Err = assert.AnError // force the local rebase after saves
	cm := &usecasetest.Committer{}

	save := save_session.NewInteractor(repo.NewQuestionRepo(), repo.NewOutboxRepo(), cm, rm, store, nil, clk, nil)
	h := NewHandler(Commands{
		Open:     open_session.NewInteractor(rm, store, clk, nil),
		Edit:     edit_session.NewInteractor(store, nil),
		Validate: validate_session.NewInteractor(store),
		Reset:    reset_session.NewInteractor(rm, store, nil),
		Clear:    clear_changes.NewInteractor(store),
		Save:     save,
		Close:    close_session.NewInteractor(store, nil),
	}, Queries{
		Get:  get_session.NewHandler(store),
		Diff: diff_session.NewInteractor(store),
		List: list_questions.NewHandler(rm),
	}, nil)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryInterceptor(nil, nil)))
	RegisterQuizAuthoringServiceServer(srv, h)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testServer{client: NewClient(conn), committer: cm, readModel: rm}
}

func call(t *testing.T, ts *testServer, method string, in map[string]any) (map[string]any, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out, err := ts.client.Call(ctx, method, req)
	if err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

func mustCall(t *testing.T, ts *testServer, method string, in map[string]any) map[string]any {
	t.Helper()
	out, err := call(t, ts, method, in)
	require.NoError(t, err)
	return out
}

func sessionOf(t *testing.T, m map[string]any) map[string]any {
	t.Helper()
	s, ok := m["session"].(map[string]any)
	require.True(t, ok, "reply has a session")
	return s
}

func TestService_EditValidateSaveFlow(t *testing.T) {
	ts := startServer(t)

	opened := mustCall(t, ts, MethodOpenSession, map[string]any{
		"quiz_id": "quiz-1",
		"kind":    "short_answer",
		"inline":  true,
		"records": []any{
			map[string]any{"id": "aaaaaaaaaaaaaaaaaaaaaaaa", "question_text": "Capital of France?", "accepted_answers": []any{"Paris"}, "points": 2},
		},
	})
	sid := opened["session_id"].(string)
	require.NotEmpty(t, sid)
	assert.Equal(t, false, opened["has_changes"])

	added := mustCall(t, ts, MethodApplyEdit, map[string]any{"session_id": sid, "op": "add"})
	assert.Equal(t, true, added["applied"])
	newID := added["created_id"].(string)

	// the new question has a blank accepted answer, so validation fails
	validated := mustCall(t, ts, MethodValidate, map[string]any{"session_id": sid})
	assert.Equal(t, false, validated["valid"])
	assert.Contains(t, validated["errors"], newID+"-question")

	_, err := call(t, ts, MethodSave, map[string]any{"session_id": sid})
	require.Error(t, err)
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	require.Len(t, st.Details(), 1)
	br, ok := st.Details()[0].(*errdetails.BadRequest)
	require.True(t, ok)
	assert.NotEmpty(t, br.GetFieldViolations())

	mustCall(t, ts, MethodApplyEdit, map[string]any{
		"session_id":  sid,
		"op":          "update",
		"question_id": newID,
		"patch":       map[string]any{"question_text": "Capital of Italy?", "accepted_answers": []any{"Rome", "Roma"}},
	})

	changes := mustCall(t, ts, MethodGetChanges, map[string]any{"session_id": sid})
	assert.Len(t, changes["new"], 1)
	assert.Len(t, changes["edited"], 0)

	saved := mustCall(t, ts, MethodSave, map[string]any{"session_id": sid})
	assert.Equal(t, float64(1), saved["inserted"])
	ids := saved["id_map"].(map[string]any)
	require.Contains(t, ids, newID)
	assert.Equal(t, false, sessionOf(t, saved)["has_changes"])
	require.Len(t, ts.committer.Plans, 1)

	mustCall(t, ts, MethodCloseSession, map[string]any{"session_id": sid})
	_, err = call(t, ts, MethodGetSession, map[string]any{"session_id": sid})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestService_RejectsBadRequests(t *testing.T) {
	ts := startServer(t)

	_, err := call(t, ts, MethodOpenSession, map[string]any{"quiz_id": "quiz-1", "kind": "essay"})
	st := status.Convert(err)
	assert.Equal(t, codes.InvalidArgument, st.Code())
	require.Len(t, st.Details(), 1)
	br := st.Details()[0].(*errdetails.BadRequest)
	assert.Equal(t, "kind", br.GetFieldViolations()[0].GetField())

	_, err = call(t, ts, MethodGetSession, map[string]any{"session_id": "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	opened := mustCall(t, ts, MethodOpenSession, map[string]any{"quiz_id": "quiz-1", "kind": "multiple_choice", "inline": true})
	sid := opened["session_id"].(string)

	_, err = call(t, ts, MethodApplyEdit, map[string]any{"session_id": sid, "op": "remove"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err), "remove needs a question id")

	_, err = call(t, ts, MethodApplyEdit, map[string]any{
		"session_id": sid, "op": "update", "question_id": "x", "patch": map[string]any{"points": "many"},
	})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = call(t, ts, MethodApplyEdit, map[string]any{"session_id": sid, "op": "add", "expected_version": 42})
	assert.Equal(t, codes.Aborted, status.Code(err))
}

func TestService_ListQuestionsPages(t *testing.T) {
	ts := startServer(t)
	ts.readModel.Err = nil
	answer := "b"
	rows := make([]*dto.QuestionDTO, 0, 3)
	for i, id := range []string{"q1", "q2", "q3"} {
		rows = append(rows, &dto.QuestionDTO{
			QuizID: "quiz-9", QuestionID: id, Kind: "multiple_choice", Position: int64(i + 1),
			QuestionText: "Q" + id, Options: []string{"a", "b"}, CorrectAnswer: &answer, Points: 1,
		})
	}
	ts.readModel.Put("quiz-9", rows...)

	first := mustCall(t, ts, MethodListQuestions, map[string]any{"quiz_id": "quiz-9", "kind": "multiple_choice", "page_size": 2})
	assert.Len(t, first["questions"], 2)
	assert.Equal(t, "2", first["next_page_token"])

	rest := mustCall(t, ts, MethodListQuestions, map[string]any{
		"quiz_id": "quiz-9", "kind": "multiple_choice", "page_size": 2, "page_token": first["next_page_token"],
	})
	qs := rest["questions"].([]any)
	require.Len(t, qs, 1)
	assert.Equal(t, "q3", qs[0].(map[string]any)["question_id"])
	assert.Equal(t, "", rest["next_page_token"])

	_, err := call(t, ts, MethodListQuestions, map[string]any{"quiz_id": "quiz-9", "kind": "multiple_choice", "page_token": "later"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
