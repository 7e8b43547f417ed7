package dialect

import (
	"context"
	"strings"

	"github.com/coregx/sqlbridge/internal/client"
	"github.com/coregx/sqlbridge/internal/core"
)

// MySQLCompiler compiles statements for MySQL and MariaDB.
type MySQLCompiler struct{}

// Compile passes the text through unchanged; MySQL uses '?' markers natively.
func (c *MySQLCompiler) Compile(sql string, args []any) core.CompiledQuery {
	return core.CompiledQuery{SQL: sql, Args: args}
}

// QuoteIdentifier quotes a MySQL identifier using backticks.
func (c *MySQLCompiler) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// MySQLAdapter reports MySQL/MariaDB capabilities.
type MySQLAdapter struct{}

// SupportsReturning reports RETURNING support. MySQL has none; MariaDB's
// partial support is not distinguished here.
func (a *MySQLAdapter) SupportsReturning() bool { return false }

// SupportsTransactionalDDL reports transactional DDL support. MySQL commits
// implicitly around DDL.
func (a *MySQLAdapter) SupportsTransactionalDDL() bool { return false }

// MySQLIntrospector reads schema metadata from information_schema.
type MySQLIntrospector struct {
	ex client.Executor
}

// Tables lists base tables in the current database.
func (i *MySQLIntrospector) Tables(ctx context.Context) ([]TableMetadata, error) {
	rows, err := queryRows(ctx, i.ex,
		`select table_name as name
		 from information_schema.tables
		 where table_schema = database() and table_type = 'BASE TABLE'
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
func (i *MySQLIntrospector) Columns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	rows, err := queryRows(ctx, i.ex,
		`select column_name as name, data_type, is_nullable
		 from information_schema.columns
		 where table_schema = database() and table_name = ?
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
