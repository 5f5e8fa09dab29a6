package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/contracts"
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/queries"
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
	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/usecases/validate_session"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
	committer "github.com/murkotick/quiz-authoring-service/internal/pkg/committer"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/config"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/metrics"
	grpcquiz "github.com/murkotick/quiz-authoring-service/internal/transport/grpc/quiz"
)

func main() {
	cfg, err := config.Load(config.DefaultEnvFiles...)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logrus.NewEntry(cfg.Logger()).WithField("service", "quiz-authoring")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM.
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Info("shutdown signal received")
		cancel()
	}()

	client, err := spanner.NewClient(ctx, cfg.Spanner.Database)
	if err != nil {
		log.WithError(err).Fatal("spanner.NewClient")
	}
	defer client.Close()

	clk := clock.RealClock{}
	sessions, closeStore, err := newSessionStore(ctx, cfg, clk)
	if err != nil {
		log.WithError(err).Fatal("session store")
	}
	defer closeStore()

	m := metrics.Default()
	questionRepo := repo.NewQuestionRepo()
	outboxRepo := repo.NewOutboxRepo()
	cm := committer.NewAdapter(client)
	readModel := queries.NewSpannerReadModel(client)

	// CQRS wiring
	cmds := grpcquiz.Commands{
		Open:     open_session.NewInteractor(readModel, sessions, clk, log),
		Edit:     edit_session.NewInteractor(sessions, log),
		Validate: validate_session.NewInteractor(sessions),
		Reset:    reset_session.NewInteractor(readModel, sessions, log),
		Clear:    clear_changes.NewInteractor(sessions),
		Save:     save_session.NewInteractor(questionRepo, outboxRepo, cm, readModel, sessions, m, clk, log),
		Close:    close_session.NewInteractor(sessions, log),
	}
	qrys := grpcquiz.Queries{
		Get:  get_session.NewHandler(sessions),
		Diff: diff_session.NewInteractor(sessions),
		List: list_questions.NewHandler(readModel),
	}
	h := grpcquiz.NewHandler(cmds, qrys, log)

	// gRPC server
	srv := grpc.NewServer(grpc.UnaryInterceptor(grpcquiz.UnaryInterceptor(log, m)))
	grpcquiz.RegisterQuizAuthoringServiceServer(srv, h)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.WithError(err).Fatalf("listen %s", cfg.GRPCAddr)
	}

	go func() {
		log.Infof("gRPC server listening on %s", cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil {
			log.WithError(err).Error("grpc serve")
			cancel()
		}
	}()

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infof("metrics listening on %s", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics serve")
		}
	}()

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer stop()
	_ = metricsSrv.Shutdown(shutdownCtx)

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		srv.Stop()
	}

	log.Info("server stopped")
}

func newSessionStore(ctx context.Context, cfg *config.Config, clk clock.Clock) (contracts.SessionStore, func(), error) {
	if cfg.Session.Store != config.StoreRedis {
		return session.NewMemoryStore(cfg.Session.TTL, clk), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.Session.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return session.NewRedisStore(rdb, cfg.Session.TTL, clk), func() { _ = rdb.Close() }, nil
}
