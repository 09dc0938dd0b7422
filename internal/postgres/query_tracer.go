package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/socialdesk/socialdesk/internal/logger"
	"github.com/socialdesk/socialdesk/internal/sentry"
)

// TracedQuerier logs every statement with its duration and reports a sentry span
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	sentry *sentry.Service
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, sentry *sentry.Service, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		sentry:  sentry,
		txID:    txID,
	}
}

func (tq *TracedQuerier) trace(ctx context.Context, query string) (context.Context, func(error)) {
	start := time.Now()
	span, ctx := tq.sentry.StartDBSpan(ctx, "postgres.query", map[string]interface{}{"query": query})

	return ctx, func(err error) {
		sentry.FinishSpan(span)
		fields := []interface{}{
			"duration_ms", time.Since(start).Milliseconds(),
			"query", query,
		}
		if tq.txID != "" {
			fields = append(fields, "tx_id", tq.txID)
		}
		if err != nil && err != sql.ErrNoRows {
			tq.logger.Errorw("database query failed", append(fields, "error", err)...)
			return
		}
		tq.logger.Debugw("database query completed", fields...)
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	ctx, done := tq.trace(ctx, query)
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	done(err)
	return result, err
}

func (tq *TracedQuerier) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	ctx, done := tq.trace(ctx, query)
	rows, err := tq.Querier.QueryxContext(ctx, query, args...)
	done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, done := tq.trace(ctx, query)
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, done := tq.trace(ctx, query)
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	ctx, done := tq.trace(ctx, query)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	done(err)
	return result, err
}
