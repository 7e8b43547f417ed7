package core

import (
	"context"
	"iter"
	"time"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/logger"
	"github.com/coregx/sqlbridge/internal/tracer"
)

// Connection wraps one live connection, either a reserved pool connection or
// the shared client handle (embedded backend), and executes compiled queries
// on it. Statements execute strictly in call order; at most one statement is
// in flight per Connection at a time.
type Connection struct {
	ex        client.Executor
	backend   string
	log       logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
}

func newConnection(ex client.Executor, backend string, log logger.Logger, san *logger.Sanitizer, tr tracer.Tracer) *Connection {
	return &Connection{
		ex:        ex,
		backend:   backend,
		log:       log,
		sanitizer: san,
		tracer:    tr,
	}
}

// ExecuteQuery sends the compiled SQL text with its positional parameters to
// the client's raw execution entry point and normalizes the result shape.
//
// Row-returning statements yield the rows unchanged, as opaque records keyed
// by column name. Statements whose result is not row-shaped yield an empty
// row slice; a row count is not recoverable through this path. Execution
// failures are wrapped with ExecuteErrorPrefix and returned, never retried.
func (c *Connection) ExecuteQuery(ctx context.Context, q CompiledQuery) (QueryResult, error) {
	ctx, span := c.tracer.StartSpan(ctx, "sqlbridge.execute")
	defer span.End()

	c.log.Debug("executing query",
		"backend", c.backend,
		"sql", q.SQL,
		"args", c.sanitizer.FormatArgs(c.sanitizer.MaskArgs(q.SQL, q.Args)),
	)

	start := time.Now()
	raw, err := c.ex.Unsafe(ctx, q.SQL, q.Args)

	meta := &tracer.StatementMetadata{
		SQL:       q.SQL,
		Duration:  time.Since(start),
		Error:     err,
		Backend:   c.backend,
		Operation: tracer.DetectOperation(q.SQL),
	}

	if err != nil {
		tracer.AddStatementAttributes(span, meta)
		return QueryResult{}, WrapError(err, ExecuteErrorPrefix)
	}

	rows, ok := raw.([]Row)
	if !ok {
		// Non-SELECT statement forms return a command result, not rows.
		rows = []Row{}
	}
	meta.RowCount = len(rows)
	tracer.AddStatementAttributes(span, meta)

	return QueryResult{Rows: rows}, nil
}

// StreamQuery executes the compiled query in full and yields the complete
// result as a single batch. The underlying client offers no cursor-based
// fetch, so incremental delivery is not possible: callers pay the full
// materialization cost up front. chunkSize is accepted for interface
// compatibility and ignored.
func (c *Connection) StreamQuery(ctx context.Context, q CompiledQuery, _ int) iter.Seq2[QueryResult, error] {
	return func(yield func(QueryResult, error) bool) {
		yield(c.ExecuteQuery(ctx, q))
	}
}
