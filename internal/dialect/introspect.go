package dialect

import (
	"context"
	"fmt"

	"github.com/coregx/sqlbridge/internal/client"
)

// queryRows runs raw SQL through an executor and returns its rows. A
// non-row-shaped result yields an empty slice.
func queryRows(ctx context.Context, ex client.Executor, sql string, args []any) ([]client.Row, error) {
	raw, err := ex.Unsafe(ctx, sql, args)
	if err != nil {
		return nil, err
	}
	rows, ok := raw.([]client.Row)
	if !ok {
		return []client.Row{}, nil
	}
	return rows, nil
}

// stringField reads a column value as a string. MySQL drivers commonly return
// text columns as []byte.
func stringField(row client.Row, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// boolField reads a column value as a bool, accepting the integer and string
// encodings the three backends use for flags.
func boolField(row client.Row, key string) bool {
	switch v := row[key].(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case []byte:
		return len(v) > 0 && v[0] != '0'
	case string:
		return v != "" && v != "0"
	default:
		return false
	}
}
