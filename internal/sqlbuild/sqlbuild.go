// Package sqlbuild turns a logical payload into a parameterized SQL
// statement against whatever columns the live table actually has. Tables in
// this system drift across deployments (migrations that have not run
// everywhere), so statements are built from a field-descriptor table
// evaluated against a column-set snapshot instead of a hardcoded list.
package sqlbuild

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNoColumns is returned when a build resolves zero columns. Callers must
// treat this as a deployment problem, not an empty-payload no-op.
var ErrNoColumns = errors.New("no matching columns found in table")

// Kind selects the coercion applied to a logical value before binding.
type Kind int

const (
	KindString Kind = iota // pass-through, nil when absent
	KindBool               // true / "true" / "yes" → true, anything else → false
	KindArray              // arrays pass through, absent → empty array
	KindDate               // RFC3339 or YYYY-MM-DD string → time, unparseable → null
	KindJSON               // objects serialized for jsonb, absent → empty object
)

// Field maps one logical key to its candidate physical columns in priority
// order. When both a legacy and a current column exist the first listed
// candidate wins; that ordering is a compatibility shim and is load-bearing.
type Field struct {
	Key     string
	Columns []string
	Kind    Kind
}

// FieldMap is an ordered list of field descriptors. Order matters twice:
// earlier fields consume columns before later ones (so two logical keys
// aliasing the same column cannot both bind it), and the emitted column
// order follows it.
type FieldMap []Field

// ColumnSet is a snapshot of the columns a live table currently has.
type ColumnSet map[string]struct{}

// NewColumnSet builds a ColumnSet from an introspected column list.
func NewColumnSet(cols []string) ColumnSet {
	s := make(ColumnSet, len(cols))
	for _, c := range cols {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether the table has the given column.
func (s ColumnSet) Has(col string) bool {
	_, ok := s[col]
	return ok
}

// Statement is an ordered list of (column, placeholder, value) triples ready
// to be rendered as an INSERT or UPDATE. Literal placeholders (NOW()) carry
// no bound value.
type Statement struct {
	Columns      []string
	Placeholders []string
	Values       []any

	consumed map[string]bool
	idx      int
}

// Options controls the server-managed columns appended after the field map
// is evaluated.
type Options struct {
	// StatusDefault, when non-empty, is bound to the status column if the
	// table has one and no field already consumed it.
	StatusDefault string
	// Timestamps appends created_at/updated_at as literal NOW() when the
	// columns exist. The literal keeps row times on the database clock.
	Timestamps bool
}

// Build evaluates the field map against the live column set and payload.
// Logical keys are looked up in the payload by their key and, failing that,
// by the snake_case form, so camelCase and snake_case payloads both work.
func Build(fields FieldMap, payload map[string]any, cols ColumnSet, opts Options) (*Statement, error) {
	st := &Statement{consumed: make(map[string]bool)}

	for _, f := range fields {
		for _, col := range f.Columns {
			if !cols.Has(col) || st.consumed[col] {
				continue
			}
			st.Append(col, Coerce(f.Kind, lookup(payload, f.Key)))
			break // first matching candidate column wins
		}
	}

	if opts.StatusDefault != "" && cols.Has("status") && !st.consumed["status"] {
		st.Append("status", opts.StatusDefault)
	}
	if opts.Timestamps {
		if cols.Has("created_at") {
			st.AppendLiteral("created_at", "NOW()")
		}
		if cols.Has("updated_at") {
			st.AppendLiteral("updated_at", "NOW()")
		}
	}

	if len(st.Columns) == 0 {
		return nil, ErrNoColumns
	}
	return st, nil
}

// Append adds a bound (column, $n, value) triple.
func (st *Statement) Append(column string, value any) {
	if st.consumed == nil {
		st.consumed = make(map[string]bool)
	}
	st.idx++
	st.Columns = append(st.Columns, column)
	st.Placeholders = append(st.Placeholders, fmt.Sprintf("$%d", st.idx))
	st.Values = append(st.Values, value)
	st.consumed[column] = true
}

// AppendLiteral adds a column with a literal SQL expression and no binding.
func (st *Statement) AppendLiteral(column, literal string) {
	if st.consumed == nil {
		st.consumed = make(map[string]bool)
	}
	st.Columns = append(st.Columns, column)
	st.Placeholders = append(st.Placeholders, literal)
	st.consumed[column] = true
}

// Has reports whether the statement already carries the column.
func (st *Statement) Has(column string) bool {
	return st.consumed[column]
}

// InsertSQL renders the statement as an INSERT ... RETURNING *.
func (st *Statement) InsertSQL(table string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table,
		strings.Join(st.Columns, ", "),
		strings.Join(st.Placeholders, ", "),
	)
}

// UpdateSQL renders the statement as an UPDATE keyed on keyColumn; the key
// value must be appended to the returned args by the caller as the final
// parameter.
func (st *Statement) UpdateSQL(table, keyColumn string) (string, []any) {
	sets := make([]string, len(st.Columns))
	for i, col := range st.Columns {
		sets[i] = fmt.Sprintf("%s = %s", col, st.Placeholders[i])
	}
	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d RETURNING *",
		table,
		strings.Join(sets, ", "),
		keyColumn,
		st.idx+1,
	)
	return sql, st.Values
}

// Coerce applies the kind-specific conversion used by Build. Exposed so
// callers composing statements by hand keep identical semantics.
func Coerce(kind Kind, v any) any {
	switch kind {
	case KindBool:
		switch t := v.(type) {
		case bool:
			return t
		case string:
			return t == "true" || t == "yes"
		default:
			return false
		}
	case KindArray:
		switch t := v.(type) {
		case nil:
			return jsonValue{[]any{}}
		case []any:
			return jsonValue{t}
		case []string:
			arr := make([]any, len(t))
			for i, s := range t {
				arr[i] = s
			}
			return jsonValue{arr}
		default:
			// Non-array payloads pass through untouched; the original
			// behaved the same way and some callers rely on it.
			return v
		}
	case KindDate:
		switch t := v.(type) {
		case nil:
			return nil
		case time.Time:
			return t
		case *time.Time:
			return t
		case string:
			if t == "" {
				return nil
			}
			if ts, err := time.Parse(time.RFC3339, t); err == nil {
				return ts
			}
			if ts, err := time.Parse("2006-01-02", t); err == nil {
				return ts
			}
			return nil
		default:
			return nil
		}
	case KindJSON:
		switch t := v.(type) {
		case nil:
			return jsonValue{map[string]any{}}
		case map[string]any:
			return jsonValue{t}
		default:
			return v
		}
	default:
		return v
	}
}

// lookup resolves a logical key against the payload, accepting either the
// key itself or its snake_case form.
func lookup(payload map[string]any, key string) any {
	if v, ok := payload[key]; ok {
		return v
	}
	if v, ok := payload[toSnake(key)]; ok {
		return v
	}
	return nil
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// jsonValue binds arbitrary objects and arrays to jsonb parameters.
type jsonValue struct {
	v any
}

func (j jsonValue) Value() (driver.Value, error) {
	return json.Marshal(j.v)
}

// MarshalJSON keeps coerced values readable in debug logs and tests.
func (j jsonValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.v)
}
