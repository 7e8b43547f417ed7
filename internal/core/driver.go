package core

import (
	"context"
	"strings"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

// Driver owns connection acquisition and transaction boundaries for one
// client handle. The handle is borrowed: the driver never constructs it and
// closes it only on Destroy.
//
// Each unit of work follows acquire -> (begin -> commit/rollback)* -> release.
// The driver assumes exactly one release per acquisition, matching how the
// host query-builder sequences calls.
type Driver struct {
	client    client.Client
	reserved  client.Reserved
	destroyed bool
	log       logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
}

// Option is a functional option for configuring Driver.
type Option func(*Driver)

// WithLogger sets the logger for connection and transaction lifecycle events.
func WithLogger(log logger.Logger) Option {
	return func(d *Driver) {
		d.log = log
	}
}

// WithTracer sets the tracer used for statement execution spans.
func WithTracer(tr tracer.Tracer) Option {
	return func(d *Driver) {
		d.tracer = tr
	}
}

// WithSensitiveFields overrides the column names whose parameters are masked
// in debug logs.
func WithSensitiveFields(fields []string) Option {
	return func(d *Driver) {
		d.sanitizer = logger.NewSanitizer(fields)
	}
}

// NewDriver creates a driver bound to the given client handle.
func NewDriver(c client.Client, opts ...Option) *Driver {
	d := &Driver{
		client:    c,
		log:       &logger.NoopLogger{},
		sanitizer: logger.NewSanitizer(nil),
		tracer:    &tracer.NoopTracer{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Init prepares the driver for use. The underlying client is already live
// when supplied, so there is nothing to do. Never fails.
func (d *Driver) Init(_ context.Context) error {
	return nil
}

// AcquireConnection obtains a connection for one unit of work.
//
// The embedded backend has no server-side connection concept and does not
// support reservation; the shared client handle is wrapped directly, relying
// on the engine's internal serialization. Client/server backends reserve a
// sticky pool connection, which may suspend until the pool has a free slot.
// The reserved handle is retained so ReleaseConnection can return it.
func (d *Driver) AcquireConnection(ctx context.Context) (*Connection, error) {
	if d.destroyed {
		return nil, ErrDriverDestroyed
	}

	backend := d.client.Config().Backend
	if backend == client.SQLite {
		d.log.Debug("acquired shared handle", "backend", backend)
		return newConnection(d.client, backend, d.log, d.sanitizer, d.tracer), nil
	}

	reserved, err := d.client.Reserve(ctx)
	if err != nil {
		return nil, err
	}
	d.reserved = reserved
	d.log.Debug("acquired reserved connection", "backend", backend)
	return newConnection(reserved, backend, d.log, d.sanitizer, d.tracer), nil
}

// BeginTransaction opens a transaction on the supplied connection. With
// settings present the statement is "start transaction" augmented with the
// isolation level and/or access mode clauses, in that order; otherwise plain
// "begin". Settings are passed through verbatim, never validated here.
func (d *Driver) BeginTransaction(ctx context.Context, conn *Connection, settings TxSettings) error {
	stmt := beginStatement(settings)
	d.log.Debug("begin transaction", "statement", stmt)
	_, err := conn.ExecuteQuery(ctx, RawQuery(stmt))
	return err
}

// CommitTransaction commits the transaction on the supplied connection.
// A failure propagates unchanged; no compensating rollback is attempted.
func (d *Driver) CommitTransaction(ctx context.Context, conn *Connection) error {
	d.log.Debug("commit transaction")
	_, err := conn.ExecuteQuery(ctx, RawQuery("commit"))
	return err
}

// RollbackTransaction rolls back the transaction on the supplied connection.
func (d *Driver) RollbackTransaction(ctx context.Context, conn *Connection) error {
	d.log.Debug("rollback transaction")
	_, err := conn.ExecuteQuery(ctx, RawQuery("rollback"))
	return err
}

// ReleaseConnection returns the reserved connection to the pool. No-op when
// none was reserved (embedded backend).
func (d *Driver) ReleaseConnection(_ context.Context) error {
	if d.reserved == nil {
		return nil
	}
	err := d.reserved.Release()
	d.reserved = nil
	d.log.Debug("released connection")
	return err
}

// Destroy closes the entire client handle, ending all pooled connections.
// Terminal: the driver is unusable afterwards.
func (d *Driver) Destroy() error {
	d.destroyed = true
	return d.client.Close()
}

// beginStatement builds the transaction-start statement for the given
// settings. The three backends disagree on start syntax; the variance lives
// in this one conditional statement-builder rather than per-backend drivers.
func beginStatement(s TxSettings) string {
	if s.IsolationLevel == "" && s.AccessMode == "" {
		return "begin"
	}
	parts := []string{"start transaction"}
	if s.IsolationLevel != "" {
		parts = append(parts, "isolation level "+s.IsolationLevel)
	}
	if s.AccessMode != "" {
		parts = append(parts, s.AccessMode)
	}
	return strings.Join(parts, " ")
}
