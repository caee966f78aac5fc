package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "satchel", cmd.Use)
	assert.Contains(t, cmd.Long, "JSON documents")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"ensure", "insert", "save", "get", "list", "count",
		"exists", "patch", "remove-fields", "delete", "query",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	tableFlag := cmd.PersistentFlags().Lookup("table")
	require.NotNil(t, tableFlag)
	assert.Equal(t, "t", tableFlag.Shorthand)

	for _, name := range []string{"url", "driver", "key-field", "config"} {
		require.NotNil(t, cmd.PersistentFlags().Lookup(name), "flag %s should exist", name)
	}
}

func TestSelectorFlags(t *testing.T) {
	cmd := NewRootCommand()
	for _, cmdName := range []string{"list", "count", "exists", "patch", "remove-fields", "delete"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err)
			for _, flag := range []string{"id", "field", "op", "value", "contains", "path"} {
				require.NotNil(t, subCmd.Flags().Lookup(flag), "flag %s should exist", flag)
			}
		})
	}
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "count", "-t", "person"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestConfigFileResolution(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "satchel.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"url: /tmp/docs.db\ndriver: sqlite\ntable: person\nkey_field: DocKey\n"), 0o644))

	opts := &RootOptions{ConfigFile: configPath}
	require.NoError(t, resolveConnection(opts))
	assert.Equal(t, "/tmp/docs.db", opts.URL)
	assert.Equal(t, "sqlite", opts.Driver)
	assert.Equal(t, "person", opts.Table)
	assert.Equal(t, "DocKey", opts.KeyField)
}

func TestConfigFileFlagsWin(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "satchel.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(
		"url: /tmp/docs.db\ndriver: sqlite\n"), 0o644))

	opts := &RootOptions{ConfigFile: configPath, URL: "/elsewhere.db"}
	require.NoError(t, resolveConnection(opts))
	assert.Equal(t, "/elsewhere.db", opts.URL, "flag value is not overwritten")
	assert.Equal(t, "sqlite", opts.Driver)
}

func TestEnvResolution(t *testing.T) {
	t.Setenv("SATCHEL_URL", "/env/docs.db")
	t.Setenv("SATCHEL_DRIVER", "sqlite")

	opts := &RootOptions{}
	require.NoError(t, resolveConnection(opts))
	assert.Equal(t, "/env/docs.db", opts.URL)
	assert.Equal(t, "sqlite", opts.Driver)
}

func TestExitCodes(t *testing.T) {
	cmdErr := NewExitError(ExitCommandError, "bad flags")
	assert.Equal(t, ExitCommandError, GetExitCode(cmdErr))

	wrapped := WrapExitError(ExitFailure, "outer", cmdErr)
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
	assert.ErrorIs(t, wrapped, cmdErr)

	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
}
