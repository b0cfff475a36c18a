package app

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/spf13/viper"
)

const (
	ledgerPostgres = "postgres"
	ledgerMemory   = "memory"

	lockStoreRedis  = "redis"
	lockStoreMemory = "memory"
	lockStoreNone   = "none"
)

type config struct {
	port             int
	env              string
	otelCollectorURL string
	ledger           string
	lockStore        string
	db               struct {
		dsn          string
		maxOpenConns int
		maxIdleTime  time.Duration
		migrate      bool
		migrations   string
	}
	redis struct {
		url          string
		maxOpenConns int
		maxIdleConns int
		maxIdleTime  time.Duration
	}
	amqp struct {
		url string
	}
	booking struct {
		holdTTL        time.Duration
		reservationTTL time.Duration
		maxSeats       int
	}
	limiter struct {
		enabled        bool
		capacity       int
		refillTokens   int
		refillInterval time.Duration
	}
	log struct {
		file       string
		maxSizeMB  int
		maxBackups int
	}
	trustIdentityHeader bool
	displayVersion      bool
}

// loadConfig layers configuration as defaults < config.yaml < environment
// (including .env) < command-line flags.
func loadConfig(args []string) (config, error) {
	var cfg config

	// a missing .env file is not an error
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, err
		}
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	fs.IntVar(&cfg.port, "port", v.GetInt("port"), "server port")
	fs.StringVar(&cfg.env, "env", v.GetString("env"), "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.otelCollectorURL, "otel-collector-url", v.GetString("otel-collector-url"), "OpenTelemetry collector gRPC endpoint")
	fs.StringVar(&cfg.ledger, "ledger", v.GetString("ledger"), "Ledger backend (postgres|memory)")
	fs.StringVar(&cfg.lockStore, "lock-store", v.GetString("lock-store"), "Seat hold store (redis|memory|none)")

	fs.StringVar(&cfg.db.dsn, "db-dsn", v.GetString("db-dsn"), "PostgreSQL DSN")
	fs.IntVar(&cfg.db.maxOpenConns, "db-max-open-conns", v.GetInt("db-max-open-conns"), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.db.maxIdleTime, "db-max-idle-time", v.GetDuration("db-max-idle-time"), "PostgreSQL max idle time for connections")
	fs.BoolVar(&cfg.db.migrate, "db-migrate", v.GetBool("db-migrate"), "Apply database migrations on startup")
	fs.StringVar(&cfg.db.migrations, "db-migrations", v.GetString("db-migrations"), "Migrations source URL")

	fs.StringVar(&cfg.redis.url, "redis-url", v.GetString("redis-url"), "Redis URL")
	fs.IntVar(&cfg.redis.maxOpenConns, "redis-max-open-conns", v.GetInt("redis-max-open-conns"), "Redis max open connections")
	fs.IntVar(&cfg.redis.maxIdleConns, "redis-max-idle-conns", v.GetInt("redis-max-idle-conns"), "Redis max idle connections")
	fs.DurationVar(&cfg.redis.maxIdleTime, "redis-max-idle-time", v.GetDuration("redis-max-idle-time"), "Redis max idle time for connections")

	fs.StringVar(&cfg.amqp.url, "amqp-url", v.GetString("amqp-url"), "RabbitMQ URL for reservation events, empty disables publishing")

	fs.DurationVar(&cfg.booking.holdTTL, "hold-ttl", v.GetDuration("hold-ttl"), "Seat hold lifetime")
	fs.DurationVar(&cfg.booking.reservationTTL, "reservation-ttl", v.GetDuration("reservation-ttl"), "Reservation expiry window")
	fs.IntVar(&cfg.booking.maxSeats, "max-seats", v.GetInt("max-seats"), "Maximum seats per request")

	fs.BoolVar(&cfg.limiter.enabled, "limiter-enabled", v.GetBool("limiter-enabled"), "Enable rate limiting of write routes")
	fs.IntVar(&cfg.limiter.capacity, "limiter-capacity", v.GetInt("limiter-capacity"), "Rate limiter bucket size")
	fs.IntVar(&cfg.limiter.refillTokens, "limiter-refill-tokens", v.GetInt("limiter-refill-tokens"), "Tokens added per refill interval")
	fs.DurationVar(&cfg.limiter.refillInterval, "limiter-refill-interval", v.GetDuration("limiter-refill-interval"), "Rate limiter refill interval")

	fs.StringVar(&cfg.log.file, "log-file", v.GetString("log-file"), "Write JSON logs to this file as well, rotated")
	fs.IntVar(&cfg.log.maxSizeMB, "log-max-size", v.GetInt("log-max-size"), "Log file size in MB before rotation")
	fs.IntVar(&cfg.log.maxBackups, "log-max-backups", v.GetInt("log-max-backups"), "Rotated log files to keep")

	fs.BoolVar(&cfg.trustIdentityHeader, "trust-identity-header", v.GetBool("trust-identity-header"), "Accept the requester id from the "+requesterIDHeader+" header")
	fs.BoolVar(&cfg.displayVersion, "version", false, "Display version and exit")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if cfg.displayVersion {
		return cfg, nil
	}

	return cfg, validateConfig(cfg)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", 3000)
	v.SetDefault("env", "dev")
	v.SetDefault("ledger", ledgerPostgres)
	v.SetDefault("lock-store", lockStoreRedis)

	v.SetDefault("db-max-open-conns", 25)
	v.SetDefault("db-max-idle-time", 15*time.Minute)
	v.SetDefault("db-migrations", "file://migrations")

	v.SetDefault("redis-max-open-conns", 25)
	v.SetDefault("redis-max-idle-conns", 10)
	v.SetDefault("redis-max-idle-time", 2*time.Minute)

	v.SetDefault("hold-ttl", booking.DefaultHoldTTL)
	v.SetDefault("reservation-ttl", booking.DefaultReservationTTL)
	v.SetDefault("max-seats", booking.DefaultMaxSeats)

	v.SetDefault("limiter-enabled", true)
	v.SetDefault("limiter-capacity", 20)
	v.SetDefault("limiter-refill-tokens", 1)
	v.SetDefault("limiter-refill-interval", 3*time.Second)

	v.SetDefault("log-max-size", 10)
	v.SetDefault("log-max-backups", 7)
}

func validateConfig(cfg config) error {
	var errs []error

	switch cfg.ledger {
	case ledgerPostgres:
		if cfg.db.dsn == "" {
			errs = append(errs, errors.New("db-dsn is required for the postgres ledger"))
		}
	case ledgerMemory:
	default:
		errs = append(errs, errors.New("ledger must be postgres or memory"))
	}

	switch cfg.lockStore {
	case lockStoreRedis:
		if cfg.redis.url == "" {
			errs = append(errs, errors.New("redis-url is required for the redis lock store"))
		}
	case lockStoreMemory, lockStoreNone:
	default:
		errs = append(errs, errors.New("lock-store must be redis, memory or none"))
	}

	if cfg.booking.holdTTL <= 0 {
		errs = append(errs, errors.New("hold-ttl must be positive"))
	}

	if cfg.booking.maxSeats < 1 || cfg.booking.maxSeats > booking.MaxSeatsLimit {
		errs = append(errs, fmt.Errorf("max-seats must be between 1 and %d", booking.MaxSeatsLimit))
	}

	return errors.Join(errs...)
}
