package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/gin-gonic/gin"
	"github.com/layer-3/walletauth/adapters/events"
	"github.com/layer-3/walletauth/adapters/store"
	"github.com/layer-3/walletauth/adapters/store/postgres"
	"github.com/layer-3/walletauth/adapters/tokenizer"
	"github.com/layer-3/walletauth/adapters/verifier"
	"github.com/layer-3/walletauth/config"
	"github.com/layer-3/walletauth/logging"
	"github.com/layer-3/walletauth/ports"
	"github.com/layer-3/walletauth/service"
	transport "github.com/layer-3/walletauth/transport/http"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Development)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	gin.SetMode(ginMode(cfg.Development))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// ginMode keeps gin's debug output to development runs.
func ginMode(development bool) string {
	if development {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var (
		identities   ports.IdentityRepository    = store.NewMemoryIdentities()
		transactions ports.TransactionRepository = store.NewMemoryTransactions()
		replay       ports.ReplayGuard           = store.NewMemoryStore()
		eventPub     ports.EventPublisher        = events.NopPublisher{}
		healthCheck  func(context.Context) error
	)

	if cfg.DatabaseDSN != "" {
		if err := postgres.Migrate(ctx, cfg.DatabaseDSN); err != nil {
			return err
		}
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer db.Close()

		identities = postgres.NewIdentityRepo(db)
		transactions = postgres.NewTransactionRepo(db)
		healthCheck = db.Probe
		logger.Info("using postgres storage")
	} else {
		logger.Warn("no database configured, identities and transactions are kept in memory")
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return err
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{
				Client: redisClient,
			},
			logging.NewWatermillAdapter(logger),
		)
		if err != nil {
			return err
		}
		defer publisher.Close()

		replay = store.NewRedisStore(redisClient)
		eventPub = events.NewWatermillPublisher(publisher)
		logger.Info("using redis replay guard and event stream")
	}

	proofs, err := verifier.New(cfg.TrustPolicy)
	if err != nil {
		return err
	}
	if cfg.TrustPolicy != verifier.PolicySignature {
		logger.Warn("signatures are not cryptographically verified", zap.String("trust_policy", cfg.TrustPolicy))
	}

	tokens, err := tokenizer.NewJWTTokenizer([]byte(cfg.SessionSecret))
	if err != nil {
		return err
	}

	authService := service.NewAuthService(identities, tokens, proofs,
		service.WithReplayGuard(replay, cfg.ReplayWindow),
		service.WithEventPublisher(eventPub),
		service.WithLogger(logger.Named("auth")),
	)
	ledger := service.NewLedgerService(transactions, eventPub, logger.Named("ledger"))

	router := transport.SetupRouter(authService, ledger, logger.Named("http"), transport.RouterConfig{
		SecureCookies: cfg.SecureCookies,
		HealthCheck:   healthCheck,
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.String("trust_policy", cfg.TrustPolicy))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
