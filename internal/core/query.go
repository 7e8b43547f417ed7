// Package core implements the connection and transaction lifecycle of the
// sqlbridge adapter: a driver that acquires and releases connections from the
// multi-backend client, and a connection adapter that executes compiled
// queries and normalizes their results.
package core

import "github.com/coregx/sqlbridge/internal/client"

// Row is a single normalized result record keyed by column name.
type Row = client.Row

// CompiledQuery is the immutable (SQL text, ordered parameter list) pair
// produced by the host query-builder. The adapter treats it as opaque input.
type CompiledQuery struct {
	// SQL is fully formed statement text with placeholder markers.
	SQL string
	// Args are the positional parameters, in placeholder order.
	Args []any
}

// RawQuery builds a CompiledQuery from bare statement text. Used for
// transaction boundary statements and other parameterless raw SQL.
func RawQuery(sql string) CompiledQuery {
	return CompiledQuery{SQL: sql}
}

// QueryResult is the normalized result of one executed query. Rows is always
// non-nil: statements that produce no result set yield an empty slice.
type QueryResult struct {
	Rows []Row
}

// TxSettings carries optional per-transaction negotiation. Both fields are
// backend-defined strings passed through verbatim into generated SQL; the
// driver does not validate permitted combinations.
type TxSettings struct {
	// IsolationLevel is e.g. "read committed" or "serializable".
	IsolationLevel string
	// AccessMode is e.g. "read only" or "read write".
	AccessMode string
}
