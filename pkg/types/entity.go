package types

// Column describes one column of an entity table.
type Column struct {
	Name        string // Column name (e.g. "version_id").
	Type        string // SQLite type affinity (INTEGER, TEXT).
	Constraints string // Column constraints (PRIMARY KEY, NOT NULL, REFERENCES ...).
}

// Entity is implemented by every record kind stored in the database.
// Columns and Values must correspond one to one and in the same order.
type Entity interface {
	// TableName returns the stable name of the backing table.
	TableName() string

	// Schema returns the column definitions used to create the table.
	Schema() []Column

	// Columns returns the column names in serialization order.
	Columns() []string

	// Values returns one serialized value per column, in Columns order.
	Values() []any
}

// Row is the minimal scanning interface needed to decode an entity.
// *sql.Row, *sql.Rows and *sqlx.Rows all satisfy it.
type Row interface {
	Scan(dest ...any) error
}

// ColumnNames extracts the names from a schema, preserving order.
func ColumnNames(schema []Column) []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	return names
}
