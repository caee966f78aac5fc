package satchel_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-db/satchel"
)

// The pipeline runs caller-supplied SQL through the same three result
// shapes as the structured operations.

func TestList_CustomSQL(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	values, err := satchel.List(ctx, store.DB(),
		"SELECT data->>'Value' FROM person WHERE data->>'NumValue' > ?",
		[]satchel.Param{{Name: "num", Value: 10}},
		func(rows *sql.Rows) (string, error) {
			var v string
			err := rows.Scan(&v)
			return v, err
		})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"purple", "purple"}, values)
}

func TestList_EmptyResultIsNotNil(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	docs, err := satchel.List(ctx, store.DB(),
		"SELECT data FROM person WHERE data->>'Value' = ?",
		[]satchel.Param{{Name: "value", Value: "absent"}},
		satchel.DocumentMapper[testDoc](nil))
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestList_MappingErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	_, err := satchel.List(ctx, store.DB(),
		"SELECT data->>'NumValue' FROM person", nil,
		satchel.DocumentMapper[testDoc](nil))
	require.Error(t, err, "a scalar column does not deserialize into a document")
}

func TestSingle_FirstRowOnly(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	doc, found, err := satchel.Single(ctx, store.DB(),
		"SELECT data FROM person WHERE data->>'Value' = ? ORDER BY data->>'Id'",
		[]satchel.Param{{Name: "value", Value: "purple"}},
		satchel.DocumentMapper[testDoc](nil))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "five", doc.Id)

	_, found, err = satchel.Single(ctx, store.DB(),
		"SELECT data FROM person WHERE data->>'Value' = ?",
		[]satchel.Param{{Name: "value", Value: "absent"}},
		satchel.DocumentMapper[testDoc](nil))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestScalar_Defaults(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	count, err := satchel.Scalar[int64](ctx, store.DB(),
		"SELECT COUNT(*) FROM person", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	// No row yields the zero value, not an error.
	missing, err := satchel.Scalar[string](ctx, store.DB(),
		"SELECT data->>'Value' FROM person WHERE 1 = 0", nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestExec_AffectedRows(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	affected, err := satchel.Exec(ctx, store.DB(),
		"DELETE FROM person WHERE data->>'Value' = ?",
		[]satchel.Param{{Name: "value", Value: "purple"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)
}

func TestPipeline_NilConnection(t *testing.T) {
	ctx := context.Background()

	_, err := satchel.List(ctx, nil, "SELECT 1", nil, satchel.DocumentMapper[testDoc](nil))
	require.ErrorIs(t, err, satchel.ErrNoConnection)

	_, _, err = satchel.Single(ctx, nil, "SELECT 1", nil, satchel.DocumentMapper[testDoc](nil))
	require.ErrorIs(t, err, satchel.ErrNoConnection)

	_, err = satchel.Scalar[int64](ctx, nil, "SELECT 1", nil)
	require.ErrorIs(t, err, satchel.ErrNoConnection)

	_, err = satchel.Exec(ctx, nil, "DELETE FROM person", nil)
	require.ErrorIs(t, err, satchel.ErrNoConnection)
}

func TestPipeline_BackendErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	_, err := satchel.Scalar[int64](ctx, store.DB(),
		"SELECT COUNT(*) FROM no_such_table", nil)
	require.Error(t, err)
}

// A caller-owned connection satisfies the same Querier surface; the
// caller stays responsible for releasing it.
func TestPipeline_CallerOwnedConnection(t *testing.T) {
	ctx := context.Background()
	store := seededStore(t)

	conn, err := store.DB().Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	count, err := satchel.Scalar[int64](ctx, conn,
		"SELECT COUNT(*) FROM person", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}
