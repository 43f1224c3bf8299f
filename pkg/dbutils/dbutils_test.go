package dbutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/bcaldwell/statementimporter/pkg/config"
)

type testRow struct {
	bun.BaseModel `bun:"table:test_rows"`

	ID       int64 `bun:",pk,autoincrement"`
	Ref      string
	Category string
}

func TestTableSetString(t *testing.T) {
	db, err := CreateSQLiteClient(":memory:")
	require.NoError(t, err)
	defer db.Close()

	set := TableSetString(db, (*testRow)(nil), "id")
	assert.Equal(t, "ref = EXCLUDED.ref, category = EXCLUDED.category", set)
}

func TestCreateDBClientSQLite(t *testing.T) {
	db, err := CreateDBClient(config.SQLConfig{Driver: "SQLite", Database: ":memory:"}, config.Secrets{})
	require.NoError(t, err)
	defer db.Close()

	var one int
	require.NoError(t, db.NewRaw("SELECT 1").Scan(context.Background(), &one))
	assert.Equal(t, 1, one)
}

func TestCreateDBClientUnknownDriver(t *testing.T) {
	_, err := CreateDBClient(config.SQLConfig{Driver: "oracle"}, config.Secrets{})
	assert.ErrorContains(t, err, "unsupported sql driver")
}
