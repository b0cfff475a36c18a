package integration_test

import (
	"context"
	"log"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-reservation-core/internal/booking"
	"github.com/metinatakli/movie-reservation-core/internal/domain"
	"github.com/metinatakli/movie-reservation-core/internal/events"
	"github.com/metinatakli/movie-reservation-core/internal/holdstore"
	"github.com/metinatakli/movie-reservation-core/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

var (
	popcornID  = uuid.MustParse("7f1d6a3e-4c1b-4c55-9a55-0e6f4c1a0a01")
	reclinerID = uuid.MustParse("7f1d6a3e-4c1b-4c55-9a55-0e6f4c1a0a05")
)

// BaseSuite runs the booking core against real Postgres and Redis.
type BaseSuite struct {
	suite.Suite
	dbContainer    *PostgresContainer
	cacheContainer *RedisContainer

	db          *pgxpool.Pool
	redis       *redis.Client
	logger      *slog.Logger
	ledger      *repository.PostgresLedger
	addOns      *repository.PostgresAddOnRepository
	holds       *holdstore.RedisStore
	coordinator *booking.Coordinator
	projector   *booking.Projector
}

func (s *BaseSuite) SetupSuite() {
	if testing.Short() {
		s.T().Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := getDbContainer(ctx)
	if err != nil {
		s.T().Fatalf("failed to start container: %s", err)
	}
	s.dbContainer = postgresContainer

	redisContainer, err := getCacheContainer(ctx)
	if err != nil {
		s.T().Fatalf("failed to start container: %s", err)
	}
	s.cacheContainer = redisContainer

	db, err := pgxpool.New(ctx, postgresContainer.ConnectionString)
	if err != nil {
		s.T().Fatalf("cannot connect to database: %s", err)
	}
	s.db = db

	s.redis = redis.NewClient(&redis.Options{Addr: redisContainer.ConnectionString})
	s.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s.ledger = repository.NewPostgresLedger(db)
	s.addOns = repository.NewPostgresAddOnRepository(db)
	s.holds = holdstore.NewRedisStore(s.redis)

	s.coordinator = s.newCoordinator(nil)
	s.projector = booking.NewProjector(s.ledger, s.holds, s.logger)
}

func (s *BaseSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.redis != nil {
		s.redis.Close()
	}
	if s.dbContainer != nil {
		if err := testcontainers.TerminateContainer(s.dbContainer.Container.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
	if s.cacheContainer != nil {
		if err := testcontainers.TerminateContainer(s.cacheContainer.Container); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}
}

// SetupTest clears holds and every table except the seeded add-ons.
func (s *BaseSuite) SetupTest() {
	ctx := context.Background()

	s.Require().NoError(s.redis.FlushAll(ctx).Err())

	_, err := s.db.Exec(ctx, `
		TRUNCATE reservation_seats, reservation_add_ons, reservations, show_seats, shows, reward_accounts
	`)
	s.Require().NoError(err)
}

func (s *BaseSuite) newCoordinator(publisher events.Publisher, opts ...booking.Option) *booking.Coordinator {
	return booking.NewCoordinator(s.ledger, s.holds, publisher, s.logger, opts...)
}

// newCoordinatorWithoutHolds books without consulting the hold store.
func (s *BaseSuite) newCoordinatorWithoutHolds() *booking.Coordinator {
	return s.newCoordinator(nil, booking.WithLockStoreAvailable(false))
}

// createShow stores a rows x seatsPerRow show priced 10/15/20 by tier.
func (s *BaseSuite) createShow(rows, seatsPerRow int) *domain.Show {
	prices := domain.TierPrices{
		Standard: decimal.NewFromInt(10),
		Premium:  decimal.NewFromInt(15),
		VIP:      decimal.NewFromInt(20),
	}

	show := domain.NewShow("Heat", "Hall 1", time.Now().Add(24*time.Hour).Truncate(time.Second), rows, seatsPerRow, prices)

	s.Require().NoError(s.ledger.CreateShow(context.Background(), show))

	return show
}
