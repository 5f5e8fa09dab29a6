package quiz

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
)

// mapError translates domain sentinel errors into proper gRPC status codes.
// Unknown errors become codes.Internal.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			violations = append(violations, &errdetails.BadRequest_FieldViolation{Field: f.Key, Description: f.Message})
		}
		return withViolations(codes.InvalidArgument, verr.Error(), violations)
	}

	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrSessionConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrUnknownOperation),
		errors.Is(err, domain.ErrQuizIDRequired):
		return status.Error(codes.InvalidArgument, err.Error())
	}

	return status.Error(codes.Internal, err.Error())
}

// invalidArgument reports a malformed request, with field details when err
// came from the validator.
func invalidArgument(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, &errdetails.BadRequest_FieldViolation{
			Field:       fe.Field(),
			Description: "failed on " + fe.Tag(),
		})
	}
	return withViolations(codes.InvalidArgument, "invalid request", violations)
}

func withViolations(code codes.Code, msg string, violations []*errdetails.BadRequest_FieldViolation) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
