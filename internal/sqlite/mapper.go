package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// Operator is a comparison accepted by Mapper.Delete.
type Operator string

// Supported delete operators. OpLike uses backslash as its escape character.
const (
	OpEqual Operator = "="
	OpLike  Operator = "LIKE"
)

// record constrains P to be a pointer to T that implements the Entity
// contract and can decode itself from a row.
type record[T any] interface {
	*T
	types.Entity
	Decode(row types.Row) error
}

// Mapper provides table creation, insertion, lookup, selection, update,
// deletion and id allocation for one entity kind. All values are bound as
// statement parameters; only table and column names, which come from the
// entity definition, are interpolated.
type Mapper[T any, P record[T]] struct {
	db      *sqlx.DB
	table   string
	schema  []types.Column
	columns []string
}

// NewMapper returns a mapper for the entity kind T over db.
func NewMapper[T any, P record[T]](db *sqlx.DB) *Mapper[T, P] {
	e := P(new(T))
	return &Mapper[T, P]{
		db:      db,
		table:   e.TableName(),
		schema:  e.Schema(),
		columns: e.Columns(),
	}
}

// TableName returns the backing table name.
func (m *Mapper[T, P]) TableName() string { return m.table }

// CreateTableSQL renders the CREATE TABLE IF NOT EXISTS statement for the
// entity schema.
func (m *Mapper[T, P]) CreateTableSQL() string {
	defs := make([]string, len(m.schema))
	for i, c := range m.schema {
		def := c.Name + " " + c.Type
		if c.Constraints != "" {
			def += " " + c.Constraints
		}
		defs[i] = "    " + def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)", m.table, strings.Join(defs, ",\n"))
}

// EnsureTable creates the backing table if it is absent.
func (m *Mapper[T, P]) EnsureTable(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, m.CreateTableSQL()); err != nil {
		return fmt.Errorf("%w: creating table %s: %w", types.ErrStorage, m.table, err)
	}
	return nil
}

// Create inserts a new row for e.
func (m *Mapper[T, P]) Create(ctx context.Context, e P) error {
	values := e.Values()
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.table, strings.Join(m.columns, ", "), placeholders(len(values)))
	if _, err := m.db.ExecContext(ctx, query, values...); err != nil {
		return fmt.Errorf("%w: inserting into %s: %w", types.ErrStorage, m.table, err)
	}
	return nil
}

// Find returns the row with the given primary key.
// Returns ErrNotFound if no row has that id.
func (m *Mapper[T, P]) Find(ctx context.Context, id int64) (T, error) {
	var out T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", strings.Join(m.columns, ", "), m.table)
	row := m.db.QueryRowxContext(ctx, query, id)
	if err := P(&out).Decode(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return out, fmt.Errorf("%s id %d: %w", m.table, id, types.ErrNotFound)
		}
		return out, fmt.Errorf("%w: reading %s id %d: %w", types.ErrStorage, m.table, id, err)
	}
	return out, nil
}

// All returns every row ordered by id.
func (m *Mapper[T, P]) All(ctx context.Context) ([]T, error) {
	return m.SelectWhere(ctx, "")
}

// SelectWhere returns the rows matching condition, ordered by id. The
// condition is a SQL fragment built by trusted code; user-supplied values
// must be passed in args and referenced with ? placeholders. An empty
// condition selects every row.
func (m *Mapper[T, P]) SelectWhere(ctx context.Context, condition string, args ...any) ([]T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(m.columns, ", "), m.table)
	if condition != "" {
		query += " WHERE " + condition
	}
	query += " ORDER BY id"

	rows, err := m.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting from %s: %w", types.ErrStorage, m.table, err)
	}
	defer rows.Close()

	results := []T{}
	for rows.Next() {
		var item T
		if err := P(&item).Decode(rows); err != nil {
			return nil, fmt.Errorf("%w: decoding %s row: %w", types.ErrStorage, m.table, err)
		}
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating %s: %w", types.ErrStorage, m.table, err)
	}
	return results, nil
}

// Update sets one column of the row with the given id and returns the number
// of rows affected. A missing id affects zero rows and is not an error.
// Returns ErrInvalidField if column is not part of the entity.
func (m *Mapper[T, P]) Update(ctx context.Context, id int64, column string, value any) (int64, error) {
	if !slices.Contains(m.columns, column) {
		return 0, fmt.Errorf("%s has no column %q: %w", m.table, column, types.ErrInvalidField)
	}
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE id = ?", m.table, column)
	res, err := m.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return 0, fmt.Errorf("%w: updating %s.%s: %w", types.ErrStorage, m.table, column, err)
	}
	return rowsAffected(res), nil
}

// Delete removes every row where column <op> value holds and returns the
// number of rows removed. Zero matches is not an error.
func (m *Mapper[T, P]) Delete(ctx context.Context, column string, op Operator, value any) (int64, error) {
	if !slices.Contains(m.columns, column) {
		return 0, fmt.Errorf("%s has no column %q: %w", m.table, column, types.ErrInvalidField)
	}
	var query string
	switch op {
	case OpEqual:
		query = fmt.Sprintf("DELETE FROM %s WHERE %s = ?", m.table, column)
	case OpLike:
		query = fmt.Sprintf(`DELETE FROM %s WHERE %s LIKE ? ESCAPE '\'`, m.table, column)
	default:
		return 0, fmt.Errorf("unsupported operator %q: %w", op, types.ErrInvalidField)
	}
	res, err := m.db.ExecContext(ctx, query, value)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting from %s: %w", types.ErrStorage, m.table, err)
	}
	return rowsAffected(res), nil
}

// NextID returns one more than the highest id in the table, or 1 when the
// table is empty. Not safe under concurrent writers.
func (m *Mapper[T, P]) NextID(ctx context.Context) (int64, error) {
	var highest int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(id), 0) FROM %s", m.table)
	if err := m.db.GetContext(ctx, &highest, query); err != nil {
		return 0, fmt.Errorf("%w: allocating %s id: %w", types.ErrStorage, m.table, err)
	}
	return highest + 1, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func rowsAffected(res sql.Result) int64 {
	n, err := res.RowsAffected()
	if err != nil {
		return 0
	}
	return n
}
