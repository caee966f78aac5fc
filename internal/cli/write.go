package cli

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

// readDocument parses the document argument, reading stdin when the
// argument is "-".
func readDocument(cmd *cobra.Command, arg string) (map[string]any, error) {
	raw := []byte(arg)
	if arg == "-" {
		var err error
		raw, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "read document from stdin", err)
		}
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid document JSON", err)
	}
	return doc, nil
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insert <document-json>",
		Short: "Store a new document",
		Long: `Store a new document. A duplicate key is an error.
Pass "-" to read the document from stdin.

Example:
  satchel insert -t person '{"Id":"one","Value":"purple"}'
  cat doc.json | satchel insert -t person -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(rootOpts, cmd, args[0], false)
		},
	}
	return cmd
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save <document-json>",
		Short: "Store a document, replacing any existing one with the same key",
		Long: `Store a document under its key, replacing the existing document
if one is present. Pass "-" to read the document from stdin.

Example:
  satchel save -t person '{"Id":"one","Value":"blue"}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(rootOpts, cmd, args[0], true)
		},
	}
	return cmd
}

func runWrite(opts *RootOptions, cmd *cobra.Command, arg string, upsert bool) error {
	if err := requireTable(opts); err != nil {
		return err
	}
	doc, err := readDocument(cmd, arg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	if upsert {
		err = store.Save(ctx, opts.Table, doc)
	} else {
		err = store.Insert(ctx, opts.Table, doc)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "store document", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success("stored")
}
