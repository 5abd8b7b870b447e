package dbmetrics

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/futbook/FieldBookingService/pkg/metrics"
)

// DBExecutor is the query surface repositories depend on.
// Satisfied by *sql.DB, *sql.Tx and the instrumented *DB wrapper.
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// TxExecutor is a DBExecutor bound to an open transaction.
type TxExecutor interface {
	DBExecutor
	Commit() error
	Rollback() error
}

type txContextKey struct{}

// WithTx stores an open transaction in the context. Repositories pick it up
// through GetExecutor, so the same repository code runs inside and outside
// of transactions.
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

// TxFromContext extracts the transaction stored by WithTx, if any.
func TxFromContext(ctx context.Context) (TxExecutor, bool) {
	tx, ok := ctx.Value(txContextKey{}).(TxExecutor)
	return tx, ok
}

// IsInTransaction reports whether the context carries an open transaction.
func IsInTransaction(ctx context.Context) bool {
	_, ok := TxFromContext(ctx)
	return ok
}

// GetExecutor returns the transaction from the context when present,
// otherwise the fallback executor.
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// DB wraps *sql.DB and reports query timings to prometheus.
type DB struct {
	db      *sql.DB
	metrics *metrics.Metrics
}

// Wrap creates an instrumented DB.
func Wrap(db *sql.DB, m *metrics.Metrics) *DB {
	return &DB{db: db, metrics: m}
}

// WrapWithDefault creates an instrumented DB and starts a background sampler
// for connection pool gauges. The sampler stops when stopCh is closed.
func WrapWithDefault(db *sql.DB, m *metrics.Metrics, stopCh <-chan struct{}) *DB {
	wrapped := Wrap(db, m)

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := db.Stats()
				m.SetDBConnections(stats.OpenConnections, stats.InUse, stats.Idle)
			case <-stopCh:
				return
			}
		}
	}()

	return wrapped
}

// ExecContext executes a statement and records its timing.
func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := d.db.ExecContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), err)
	return res, err
}

// QueryContext executes a query and records its timing.
func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), err)
	return rows, err
}

// QueryRowContext executes a single-row query and records its timing.
// Scan errors are not attributed here, only query latency.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := d.db.QueryRowContext(ctx, query, args...)
	d.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), nil)
	return row
}

// BeginTx opens an instrumented transaction.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (TxExecutor, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &instrumentedTx{tx: tx, metrics: d.metrics}, nil
}

type instrumentedTx struct {
	tx      *sql.Tx
	metrics *metrics.Metrics
}

func (t *instrumentedTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(ctx, query, args...)
	t.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), err)
	return res, err
}

func (t *instrumentedTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.tx.QueryContext(ctx, query, args...)
	t.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), err)
	return rows, err
}

func (t *instrumentedTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := t.tx.QueryRowContext(ctx, query, args...)
	t.metrics.ObserveDBQuery(queryOperation(query), time.Since(start), nil)
	return row
}

func (t *instrumentedTx) Commit() error {
	return t.tx.Commit()
}

func (t *instrumentedTx) Rollback() error {
	return t.tx.Rollback()
}

// queryOperation extracts the leading SQL verb for the metrics label.
func queryOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}
