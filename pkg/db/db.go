// Package db — тонкая обёртка над pgxpool: пул + запуск функции
// в транзакции ReadCommitted.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transaction — то, что нужно вызывающему коду от соединения/транзакции.
type Transaction interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type Pg struct {
	pool *pgxpool.Pool
}

func NewPg(ctx context.Context, dsn string) (*Pg, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Pg{pool: pool}, nil
}

func (p *Pg) Close() { p.pool.Close() }

func (p *Pg) Conn() Transaction { return p.pool }

// InTx выполняет fn в транзакции ReadCommitted; откат при ошибке.
func (p *Pg) InTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(ctx, tx); err != nil {
		_ = tx.Rollback(ctx)
		return fmt.Errorf("run fn: %w", err)
	}
	return tx.Commit(ctx)
}
