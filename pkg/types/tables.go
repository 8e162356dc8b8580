package types

// Table names.
const (
	VersionsTable = "versions"
	ConfigsTable  = "configs"
)

// StandardTableNames lists the tables in dependency order (versions first,
// since configs reference them).
var StandardTableNames = []string{
	VersionsTable,
	ConfigsTable,
}
