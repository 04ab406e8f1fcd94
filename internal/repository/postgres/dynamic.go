package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

// scanRecord reads the current row of rows into a column-keyed map.
// Byte slices are decoded as JSON when they parse, since jsonb columns
// arrive as []byte; anything else falls back to a plain string.
func scanRecord(rows *sql.Rows) (repository.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	rec := make(repository.Record, len(cols))
	for i, col := range cols {
		rec[col] = normalizeValue(values[i])
	}
	return rec, nil
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case []byte:
		var decoded any
		if err := json.Unmarshal(t, &decoded); err == nil {
			return decoded
		}
		return string(t)
	case time.Time:
		return t
	default:
		return v
	}
}

// queryRecord runs a query expected to return exactly one row and scans it
// dynamically. sql.ErrNoRows maps to repository.ErrNotFound.
func queryRecord(ctx context.Context, q queryer, query string, args ...any) (repository.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, repository.ErrNotFound
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return rec, rows.Err()
}

func queryRecords(ctx context.Context, q queryer, query string, args ...any) ([]repository.Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []repository.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// insertRecord executes a built INSERT and returns the full inserted row.
func insertRecord(ctx context.Context, q queryer, table string, st *sqlbuild.Statement) (repository.Record, error) {
	return queryRecord(ctx, q, st.InsertSQL(table), st.Values...)
}

// updateRecord executes a built UPDATE keyed on id and returns the row.
func updateRecord(ctx context.Context, q queryer, table string, id int64, st *sqlbuild.Statement) (repository.Record, error) {
	query, args := st.UpdateSQL(table, "id")
	return queryRecord(ctx, q, query, append(args, id)...)
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}
