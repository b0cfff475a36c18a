package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexedwards/scs/goredisstore"
	"github.com/alexedwards/scs/v2"
	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/events"
	"github.com/metinatakli/movie-reservation-core/internal/holdstore"
	"github.com/metinatakli/movie-reservation-core/internal/repository"
	appvalidator "github.com/metinatakli/movie-reservation-core/internal/validator"
	"github.com/metinatakli/movie-reservation-core/internal/vcs"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

var (
	version = vcs.Version()
)

type application struct {
	config         config
	logger         *slog.Logger
	redis          redis.UniversalClient
	validator      *validator.Validate
	sessionManager *scs.SessionManager

	ledger      domain.Ledger
	addOnRepo   domain.AddOnRepository
	holds       domain.HoldStore
	coordinator *booking.Coordinator
	projector   *booking.Projector

	// lockStoreUnreachable is set when the configured Redis lock store did
	// not answer at startup.
	lockStoreUnreachable bool
}

func Run() error {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if cfg.displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app := &application{
		config:         cfg,
		logger:         newLogger(cfg, os.Stdout),
		validator:      appvalidator.NewValidator(),
		sessionManager: scs.New(),
	}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	switch cfg.ledger {
	case ledgerPostgres:
		if cfg.db.migrate {
			err = repository.RunMigrations(cfg.db.dsn, cfg.db.migrations)
			if err != nil {
				return err
			}

			app.logger.Info("database migrations applied")
		}

		db, err := newDatabasePool(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		app.ledger = repository.NewPostgresLedger(db)
		app.addOnRepo = repository.NewPostgresAddOnRepository(db)
	case ledgerMemory:
		ledger := repository.NewMemoryLedger()

		app.ledger = ledger
		app.addOnRepo = ledger
	}

	if cfg.redis.url != "" {
		redisClient, err := newRedisClient(cfg)
		if err != nil {
			app.logger.Warn("redis unreachable, using in-memory sessions", "error", err)
		} else {
			defer redisClient.Close()

			app.redis = redisClient
			app.sessionManager = newSessionManager(redisClient)
		}
	}

	app.setupLockStore()

	var publisher events.Publisher = events.NoopPublisher{}

	if cfg.amqp.url != "" {
		amqpPublisher, err := events.NewAMQPPublisher(cfg.amqp.url)
		if err != nil {
			app.logger.Warn("reservation events disabled, broker unreachable", "error", err)
		} else {
			defer amqpPublisher.Close()
			publisher = amqpPublisher
		}
	}

	opts := app.bookingOptions()
	app.coordinator = booking.NewCoordinator(app.ledger, app.holds, publisher, app.logger, opts...)
	app.projector = booking.NewProjector(app.ledger, app.holds, app.logger, opts...)

	return app.run()
}

// setupLockStore picks the hold store. A Redis lock store that is down at
// startup leaves the service running with holds switched off, so kiosk
// bookings and availability keep working.
func (app *application) setupLockStore() {
	switch app.config.lockStore {
	case lockStoreRedis:
		if app.redis == nil {
			app.logger.Warn("lock store unavailable, seat holds disabled")

			app.lockStoreUnreachable = true
			app.holds = holdstore.NewMemoryStore(time.Now)
			return
		}

		app.holds = holdstore.NewRedisStore(app.redis)
	default:
		app.holds = holdstore.NewMemoryStore(time.Now)
	}
}

func (app *application) bookingOptions() []booking.Option {
	return []booking.Option{
		booking.WithHoldTTL(app.config.booking.holdTTL),
		booking.WithReservationTTL(app.config.booking.reservationTTL),
		booking.WithMaxSeats(app.config.booking.maxSeats),
		booking.WithLockStoreAvailable(app.config.lockStore != lockStoreNone && !app.lockStoreUnreachable),
	}
}

func newSessionManager(client *redis.Client) *scs.SessionManager {
	sessionManager := scs.New()

	sessionManager.Store = goredisstore.New(client)
	sessionManager.IdleTimeout = 20 * time.Minute
	sessionManager.Cookie.Name = "session_id"

	return sessionManager
}

func newRedisClient(cfg config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.redis.url,
		MaxIdleConns:    cfg.redis.maxIdleConns,
		MaxActiveConns:  cfg.redis.maxOpenConns,
		ConnMaxIdleTime: cfg.redis.maxIdleTime,
	})

	if err := redisotel.InstrumentTracing(rdb); err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err := rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func newDatabasePool(cfg config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.db.maxIdleTime
	config.MaxConns = int32(cfg.db.maxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.port),
		Handler:      app.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server",
		"addr", srv.Addr,
		"env", app.config.env,
		"ledger", app.config.ledger,
		"lock_store", app.config.lockStore)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}
