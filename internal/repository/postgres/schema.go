package postgres

import (
	"context"
	"database/sql"
	"sync"

	"expoevents-backend/internal/repository"
	"expoevents-backend/internal/sqlbuild"
)

type schemaRepository struct {
	db *sql.DB

	mu    sync.RWMutex
	cache map[string]sqlbuild.ColumnSet
}

func NewSchemaRepository(db *sql.DB) repository.SchemaRepository {
	return &schemaRepository{
		db:    db,
		cache: make(map[string]sqlbuild.ColumnSet),
	}
}

// Columns returns the live column set of a table, cached after the first
// introspection. Ordinal order is preserved by the query but the set is
// what callers consume; the dynamic builder supplies its own ordering.
func (r *schemaRepository) Columns(ctx context.Context, table string) (sqlbuild.ColumnSet, error) {
	r.mu.RLock()
	cached, ok := r.cache[table]
	r.mu.RUnlock()
	if ok {
		return cached, nil
	}

	query := `SELECT column_name FROM information_schema.columns
	          WHERE table_name = $1 ORDER BY ordinal_position`
	rows, err := r.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	set := sqlbuild.NewColumnSet(cols)
	r.mu.Lock()
	r.cache[table] = set
	r.mu.Unlock()
	return set, nil
}

// Invalidate drops the cached column set for a table, forcing the next
// Columns call to re-introspect. Used after deploy-time migrations.
func (r *schemaRepository) Invalidate(table string) {
	r.mu.Lock()
	delete(r.cache, table)
	r.mu.Unlock()
}
