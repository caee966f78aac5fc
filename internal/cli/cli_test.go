package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes one command invocation against the given database
// and returns captured stdout.
func runCLI(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(append([]string{"--driver", "sqlite", "--url", dbPath, "-t", "person"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cli.db")
	_, err := runCLI(t, dbPath, "ensure")
	require.NoError(t, err)
	return dbPath
}

func seedDB(t *testing.T, dbPath string) {
	t.Helper()
	for _, doc := range []string{
		`{"Id":"one","Value":"purple","NumValue":10}`,
		`{"Id":"two","Value":"blue","NumValue":20}`,
		`{"Id":"three","Value":"purple","NumValue":30}`,
	} {
		_, err := runCLI(t, dbPath, "insert", doc)
		require.NoError(t, err)
	}
}

func TestCLI_EnsureIsIdempotent(t *testing.T) {
	dbPath := testDB(t)
	out, err := runCLI(t, dbPath, "ensure")
	require.NoError(t, err)
	assert.Contains(t, out, "person ready")
}

func TestCLI_InsertAndGet(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "get", "two")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "blue", doc["Value"])
}

func TestCLI_GetMissingFails(t *testing.T) {
	dbPath := testDB(t)

	_, err := runCLI(t, dbPath, "get", "nobody")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not found")
}

func TestCLI_InsertDuplicateFails(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	_, err := runCLI(t, dbPath, "insert", `{"Id":"one","Value":"again"}`)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestCLI_SaveReplaces(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	_, err := runCLI(t, dbPath, "save", `{"Id":"one","Value":"green"}`)
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "get", "one")
	require.NoError(t, err)
	assert.Contains(t, out, "green")

	out, err = runCLI(t, dbPath, "count")
	require.NoError(t, err)
	assert.Equal(t, "3", strings.TrimSpace(out))
}

func TestCLI_InsertFromStdin(t *testing.T) {
	dbPath := testDB(t)

	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetIn(strings.NewReader(`{"Id":"piped","Value":"stdin"}`))
	cmd.SetArgs([]string{"--driver", "sqlite", "--url", dbPath, "-t", "person", "insert", "-"})
	require.NoError(t, cmd.Execute())

	got, err := runCLI(t, dbPath, "get", "piped")
	require.NoError(t, err)
	assert.Contains(t, got, "stdin")
}

func TestCLI_ListOrdered(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "list", "--order-by", "NumValue DESC")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"three"`)
	assert.Contains(t, lines[2], `"one"`)
}

func TestCLI_ListByField(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "list", "--field", "Value", "--op", "EQ", "--value", `"purple"`)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestCLI_CountAndExists(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "count", "--field", "NumValue", "--op", "GT", "--value", "15")
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))

	out, err = runCLI(t, dbPath, "count", "--id", "one")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))

	out, err = runCLI(t, dbPath, "exists", "--id", "one")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(out))

	out, err = runCLI(t, dbPath, "exists", "--id", "nobody")
	require.NoError(t, err)
	assert.Equal(t, "false", strings.TrimSpace(out))
}

func TestCLI_PatchAndRemoveFields(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	_, err := runCLI(t, dbPath, "patch", "--id", "one", `{"Seen":true}`)
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "get", "one")
	require.NoError(t, err)
	assert.Contains(t, out, `"Seen":true`)
	assert.Contains(t, out, `"purple"`, "sibling fields survive the patch")

	_, err = runCLI(t, dbPath, "remove-fields", "--id", "one", "Seen", "NumValue")
	require.NoError(t, err)

	out, err = runCLI(t, dbPath, "get", "one")
	require.NoError(t, err)
	assert.NotContains(t, out, "Seen")
	assert.NotContains(t, out, "NumValue")
}

func TestCLI_Delete(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	_, err := runCLI(t, dbPath, "delete", "--field", "Value", "--op", "EQ", "--value", `"purple"`)
	require.NoError(t, err)

	out, err := runCLI(t, dbPath, "count")
	require.NoError(t, err)
	assert.Equal(t, "1", strings.TrimSpace(out))
}

func TestCLI_Query(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "query", "--scalar",
		"SELECT data->>'Value' FROM person WHERE data->>'Id' = ?", `"two"`)
	require.NoError(t, err)
	assert.Equal(t, "blue", strings.TrimSpace(out))

	out, err = runCLI(t, dbPath, "query", "--exec", "DELETE FROM person WHERE data->>'Value' = ?", `"purple"`)
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(out))
}

func TestCLI_JSONFormat(t *testing.T) {
	dbPath := testDB(t)
	seedDB(t, dbPath)

	out, err := runCLI(t, dbPath, "--format", "json", "count")
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, float64(3), resp.Data)
}

func TestCLI_SelectorValidation(t *testing.T) {
	dbPath := testDB(t)

	_, err := runCLI(t, dbPath, "delete")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCLI(t, dbPath, "count", "--field", "Value", "--contains", `{"Value":"x"}`)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCLI(t, dbPath, "exists", "--field", "Value", "--op", "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operator")
}

func TestCLI_MissingConnection(t *testing.T) {
	t.Setenv("SATCHEL_URL", "")
	t.Setenv("SATCHEL_DRIVER", "")
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"-t", "person", "count"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCLI_UnknownDriver(t *testing.T) {
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--driver", "oracle", "--url", "x", "-t", "person", "count"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, float64(18), parseValue("18"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, "purple", parseValue(`"purple"`))
	assert.Equal(t, []any{float64(1), float64(2)}, parseValue("[1,2]"))
	assert.Equal(t, "bare string", parseValue("bare string"))
}
