package sqlite

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cfgsync/pkg/types"
)

// setupMockMapper wires a versions mapper to a sqlmock connection.
func setupMockMapper(t *testing.T) (*Mapper[types.Version, *types.Version], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewMapper[types.Version](sqlx.NewDb(db, "sqlmock")), mock
}

var errDiskFull = errors.New("database or disk is full")

func TestMapperStorageFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		call      func(m *Mapper[types.Version, *types.Version]) error
	}{
		{
			name: "ensure table",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS versions")).
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				return m.EnsureTable(ctx)
			},
		},
		{
			name: "create",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO versions (id, name) VALUES (?, ?)")).
					WithArgs(int64(1), "home").
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				return m.Create(ctx, &types.Version{ID: 1, Name: "home"})
			},
		},
		{
			name: "select",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM versions WHERE name = ? ORDER BY id")).
					WithArgs("home").
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				_, err := m.SelectWhere(ctx, "name = ?", "home")
				return err
			},
		},
		{
			name: "find",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM versions WHERE id = ?")).
					WithArgs(int64(3)).
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				_, err := m.Find(ctx, 3)
				return err
			},
		},
		{
			name: "update",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("UPDATE versions SET name = ? WHERE id = ?")).
					WithArgs("work", int64(1)).
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				_, err := m.Update(ctx, 1, "name", "work")
				return err
			},
		},
		{
			name: "delete",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(regexp.QuoteMeta("DELETE FROM versions WHERE name = ?")).
					WithArgs("home").
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				_, err := m.Delete(ctx, "name", OpEqual, "home")
				return err
			},
		},
		{
			name: "next id",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM versions")).
					WillReturnError(errDiskFull)
			},
			call: func(m *Mapper[types.Version, *types.Version]) error {
				_, err := m.NextID(ctx)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, mock := setupMockMapper(t)
			tt.mockSetup(mock)

			err := tt.call(m)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrStorage)
			assert.ErrorIs(t, err, errDiskFull)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMapperNextIDFromMock(t *testing.T) {
	m, mock := setupMockMapper(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(id), 0) FROM versions")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(int64(41)))

	next, err := m.NextID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapperDeleteReportsRowsAffected(t *testing.T) {
	m, mock := setupMockMapper(t)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM versions WHERE name LIKE ? ESCAPE '\'`)).
		WithArgs("%ome").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := m.Delete(context.Background(), "name", OpLike, "%ome")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
