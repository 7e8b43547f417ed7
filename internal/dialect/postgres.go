package dialect

import (
	"context"
	"strconv"
	"strings"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/core"
)

// PostgresCompiler compiles statements for PostgreSQL.
type PostgresCompiler struct{}

// Compile rewrites '?' markers to numbered $n placeholders. Markers inside
// quoted strings and quoted identifiers are left untouched.
func (c *PostgresCompiler) Compile(sql string, args []any) core.CompiledQuery {
	var b strings.Builder
	b.Grow(len(sql) + 8)

	var inString, inIdent bool
	n := 0
	for _, r := range sql {
		switch {
		case r == '\'' && !inIdent:
			inString = !inString
		case r == '"' && !inString:
			inIdent = !inIdent
		case r == '?' && !inString && !inIdent:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return core.CompiledQuery{SQL: b.String(), Args: args}
}

// QuoteIdentifier quotes a PostgreSQL identifier using double quotes.
func (c *PostgresCompiler) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// PostgresAdapter reports PostgreSQL capabilities.
type PostgresAdapter struct{}

// SupportsReturning reports RETURNING support.
func (a *PostgresAdapter) SupportsReturning() bool { return true }

// SupportsTransactionalDDL reports transactional DDL support.
func (a *PostgresAdapter) SupportsTransactionalDDL() bool { return true }

// PostgresIntrospector reads schema metadata from the PostgreSQL catalog.
type PostgresIntrospector struct {
	ex client.Executor
}

// Tables lists base tables in the current schema.
func (i *PostgresIntrospector) Tables(ctx context.Context) ([]TableMetadata, error) {
	rows, err := queryRows(ctx, i.ex,
		`select table_name as name
		 from information_schema.tables
		 where table_schema = current_schema() and table_type = 'BASE TABLE'
		 order by table_name`, nil)
	if err != nil {
		return nil, err
	}

	tables := make([]TableMetadata, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, TableMetadata{Name: stringField(row, "name")})
	}
	return tables, nil
}

// Columns lists the columns of one table in ordinal position order.
func (i *PostgresIntrospector) Columns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	rows, err := queryRows(ctx, i.ex,
		`select column_name as name, data_type, is_nullable
		 from information_schema.columns
		 where table_schema = current_schema() and table_name = $1
		 order by ordinal_position`, []any{table})
	if err != nil {
		return nil, err
	}

	cols := make([]ColumnMetadata, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, ColumnMetadata{
			Name:     stringField(row, "name"),
			DataType: stringField(row, "data_type"),
			Nullable: strings.EqualFold(stringField(row, "is_nullable"), "YES"),
		})
	}
	return cols, nil
}
