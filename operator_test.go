package satchel_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satchel-db/satchel"
	"github.com/satchel-db/satchel/postgres"
	"github.com/satchel-db/satchel/sqlite"
)

// Every operator table entry must bind exactly as many values as its
// fragment consumes. Existence checks bind none on either dialect,
// whatever native form they compile to; Between always binds two.
func TestOperatorTables_ArityMatchesTemplate(t *testing.T) {
	for _, d := range []satchel.Dialect{postgres.Dialect, sqlite.Dialect} {
		t.Run(d.Name(), func(t *testing.T) {
			for op, sql := range d.Operators() {
				assert.Equal(t, sql.Arity, strings.Count(sql.Template, "{v}"),
					"%s template %q", op, sql.Template)
				if sql.NumericTemplate != "" {
					assert.Equal(t, sql.Arity, strings.Count(sql.NumericTemplate, "{v}"),
						"%s numeric template %q", op, sql.NumericTemplate)
				}
			}
		})
	}
}

func TestOperatorTables_DeclaredArity(t *testing.T) {
	for _, d := range []satchel.Dialect{postgres.Dialect, sqlite.Dialect} {
		t.Run(d.Name(), func(t *testing.T) {
			ops := d.Operators()
			assert.Equal(t, 0, ops[satchel.Exists].Arity)
			assert.Equal(t, 0, ops[satchel.NotExists].Arity)
			assert.Equal(t, 2, ops[satchel.Between].Arity)
			for _, op := range []satchel.Operator{
				satchel.Equal, satchel.NotEqual,
				satchel.Greater, satchel.GreaterOrEqual,
				satchel.Less, satchel.LessOrEqual,
				satchel.In,
			} {
				assert.Equal(t, 1, ops[op].Arity, "%s", op)
			}
		})
	}
}

func TestMapOperator_Unknown(t *testing.T) {
	_, err := satchel.MapOperator(sqlite.Dialect, satchel.Operator(99))
	require.ErrorIs(t, err, satchel.ErrUnsupported)

	_, err = satchel.MapOperator(sqlite.Dialect, satchel.Contains)
	require.ErrorIs(t, err, satchel.ErrUnsupported)
}

func TestOperatorString(t *testing.T) {
	assert.Equal(t, "EQ", satchel.Equal.String())
	assert.Equal(t, "NOT_EXISTS", satchel.NotExists.String())
	assert.Equal(t, "Operator(99)", satchel.Operator(99).String())
}

func TestParseOperator(t *testing.T) {
	cases := []struct {
		in   string
		want satchel.Operator
	}{
		{"EQ", satchel.Equal},
		{"eq", satchel.Equal},
		{"=", satchel.Equal},
		{"!=", satchel.NotEqual},
		{"<>", satchel.NotEqual},
		{">", satchel.Greater},
		{">=", satchel.GreaterOrEqual},
		{"<", satchel.Less},
		{"<=", satchel.LessOrEqual},
		{"between", satchel.Between},
		{"IN", satchel.In},
		{"exists", satchel.Exists},
		{"NOT_EXISTS", satchel.NotExists},
		{"contains", satchel.Contains},
		{"JSON_PATH_MATCH", satchel.JSONPathMatch},
	}
	for _, tc := range cases {
		got, err := satchel.ParseOperator(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}

	_, err := satchel.ParseOperator("LIKE")
	require.Error(t, err)
}
