package types

// Version is a named profile (a machine, an environment) grouping Configs.
// Names are the user-facing key but are not unique in the store.
type Version struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Compile-time interface check.
var _ Entity = (*Version)(nil)

// TableName returns "versions".
func (Version) TableName() string { return VersionsTable }

// Schema declares the versions table.
func (Version) Schema() []Column {
	return []Column{
		{Name: "id", Type: "INTEGER", Constraints: "PRIMARY KEY"},
		{Name: "name", Type: "TEXT", Constraints: "NOT NULL"},
	}
}

// Columns returns id, name.
func (v Version) Columns() []string { return ColumnNames(v.Schema()) }

// Values serializes the version in Columns order.
func (v Version) Values() []any { return []any{v.ID, v.Name} }

// Decode fills v from a row scanned in Columns order.
func (v *Version) Decode(row Row) error {
	return row.Scan(&v.ID, &v.Name)
}
