package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/marki?sslmode=disable": DialectPostgres,
		"postgresql://localhost/marki":                        DialectPostgres,
		"host=localhost user=marki dbname=marki":              DialectPostgres,
		"/var/lib/marki/marki.db":                             DialectSQLite,
		"file::memory:?cache=shared":                          DialectSQLite,
	}
	for dsn, want := range cases {
		assert.Equal(t, want, DialectFor(dsn), dsn)
	}
}

func TestOpenRejectsUnknownDialect(t *testing.T) {
	_, err := Open("mysql", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported dialect")
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(DialectSQLite, "file::memory:")
	require.NoError(t, err)
	require.NoError(t, db.Exec("SELECT 1").Error)
	require.NoError(t, Close(db))
}
