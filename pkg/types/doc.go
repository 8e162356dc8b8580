// Package types defines the Entity contract, the Config and Version entities,
// the store configuration, and the standard errors for cfgsync.
//
// Entities know their own table name, column schema, column order, value
// serialization, and row decoding. The generic mapper in internal/sqlite uses
// that contract to provide CRUD without per-entity SQL.
package types
