package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
)

// Querier is the subset of pgx satisfied by both pgxpool.Pool and pgx.Tx,
// letting every repository run inside or outside a transaction unchanged.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore is the postgres-backed Store.
type PGStore struct {
	pool *pgxpool.Pool
	q    Querier
	inTx bool
}

// NewPostgres establishes a connection pool and wraps it as a Store.
func NewPostgres(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PGStore, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PGStore{pool: pool, q: pool}, nil
}

// Close releases pool resources.
func (s *PGStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *PGStore) Tickets() TicketRepository             { return &pgTicketRepository{q: s.q} }
func (s *PGStore) History() HistoryRepository            { return &pgHistoryRepository{q: s.q} }
func (s *PGStore) Notifications() NotificationRepository { return &pgNotificationRepository{q: s.q} }
func (s *PGStore) Users() UserRepository                 { return &pgUserRepository{q: s.q} }
func (s *PGStore) SLAs() SLARepository                   { return &pgSLARepository{q: s.q} }
func (s *PGStore) Categories() CategoryRepository        { return &pgCategoryRepository{q: s.q} }

// WithTx runs fn against a transaction-scoped view of the store. A nested
// call reuses the ambient transaction.
func (s *PGStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	txStore := &PGStore{pool: s.pool, q: tx, inTx: true}
	if err := fn(txStore); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
