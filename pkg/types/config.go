package types

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// LineSeparator joins Config lines before encoding and splits them after
// decoding.
const LineSeparator = "\n"

// Config is the last-known content of one tracked file belonging to one
// Version. Data holds the file split on LineSeparator; a file ending in a
// newline yields a final empty element.
type Config struct {
	ID        int64    `json:"id"`
	VersionID int64    `json:"version_id"`
	Path      string   `json:"path"`
	Data      []string `json:"data"`
}

// Compile-time interface check.
var _ Entity = (*Config)(nil)

// TableName returns "configs".
func (Config) TableName() string { return ConfigsTable }

// Schema declares the configs table. version_id references versions(id);
// the reference is not enforced, so deleting a version leaves its configs.
func (Config) Schema() []Column {
	return []Column{
		{Name: "id", Type: "INTEGER", Constraints: "PRIMARY KEY"},
		{Name: "path", Type: "TEXT", Constraints: "NOT NULL"},
		{Name: "data", Type: "TEXT", Constraints: "NOT NULL"},
		{Name: "version_id", Type: "INTEGER", Constraints: "NOT NULL REFERENCES versions(id)"},
	}
}

// Columns returns id, path, data, version_id.
func (c Config) Columns() []string { return ColumnNames(c.Schema()) }

// Values serializes the config in Columns order. Data is joined and base64
// encoded.
func (c Config) Values() []any {
	return []any{c.ID, c.Path, EncodeLines(c.Data), c.VersionID}
}

// Decode fills c from a row scanned in Columns order.
func (c *Config) Decode(row Row) error {
	var encoded string
	if err := row.Scan(&c.ID, &c.Path, &encoded, &c.VersionID); err != nil {
		return err
	}
	lines, err := DecodeLines(encoded)
	if err != nil {
		return fmt.Errorf("config %d: %w", c.ID, err)
	}
	c.Data = lines
	return nil
}

// SplitLines splits file content into lines. It never returns an empty
// slice: empty content yields a single empty line.
func SplitLines(content string) []string {
	return strings.Split(content, LineSeparator)
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string) string {
	return strings.Join(lines, LineSeparator)
}

// EncodeLines joins lines and encodes the result as standard base64, the
// on-disk format of the data column.
func EncodeLines(lines []string) string {
	return base64.StdEncoding.EncodeToString([]byte(JoinLines(lines)))
}

// DecodeLines reverses EncodeLines.
func DecodeLines(encoded string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decoding data column: %w", err)
	}
	return SplitLines(string(raw)), nil
}
