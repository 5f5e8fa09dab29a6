package quiz

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	shared "github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/shared"
)

// RPCObserver receives per-call measurements.
type RPCObserver interface {
	ObserveRPC(method, code string, elapsed time.Duration)
}

// UnaryInterceptor logs every call and reports it to obs when obs is set.
func UnaryInterceptor(log *logrus.Entry, obs RPCObserver) grpc.UnaryServerInterceptor {
	log = shared.Logger(log)
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		started := time.Now()
		resp, err := handler(ctx, req)
		elapsed := time.Since(started)
		code := status.Code(err)

		if obs != nil {
			obs.ObserveRPC(info.FullMethod, code.String(), elapsed)
		}

		entry := log.WithFields(logrus.Fields{
			"method":   info.FullMethod,
			"code":     code.String(),
			"duration": elapsed.String(),
		})
		switch {
		case err == nil:
			entry.Debug("rpc finished")
		case code == codes.Internal || code == codes.Unknown:
			entry.WithError(err).Error("rpc failed")
		default:
			entry.WithError(err).Info("rpc rejected")
		}
		return resp, err
	}
}
