package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satchel-db/satchel"
)

// EnsureOptions holds flags for the ensure command.
type EnsureOptions struct {
	*RootOptions
	FieldIndex    string
	Fields        []string
	DocumentIndex string
}

// NewEnsureCommand creates the ensure command.
func NewEnsureCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EnsureOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create the document table and indexes if they do not exist",
		Long: `Create the document table, its key index and any requested
secondary indexes. Safe to run repeatedly.

Example:
  satchel ensure --driver sqlite --url ./docs.db --table person
  satchel ensure -t person --field-index idx_person_value --fields Value
  satchel ensure -t person --document-index optimized`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnsure(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.FieldIndex, "field-index", "", "name of a field index to create (requires --fields)")
	cmd.Flags().StringSliceVar(&opts.Fields, "fields", nil, "field paths covered by --field-index")
	cmd.Flags().StringVar(&opts.DocumentIndex, "document-index", "", "whole-document index kind (full|optimized, PostgreSQL only)")

	return cmd
}

func runEnsure(opts *EnsureOptions, cmd *cobra.Command) error {
	if err := requireTable(opts.RootOptions); err != nil {
		return err
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.EnsureTable(ctx, opts.Table); err != nil {
		return WrapExitError(ExitFailure, "ensure table", err)
	}

	if opts.FieldIndex != "" {
		if len(opts.Fields) == 0 {
			return NewExitError(ExitCommandError, "--field-index requires --fields")
		}
		if err := store.EnsureFieldIndex(ctx, opts.Table, opts.FieldIndex, opts.Fields); err != nil {
			return WrapExitError(ExitFailure, "ensure field index", err)
		}
	}

	if opts.DocumentIndex != "" {
		var kind satchel.DocumentIndex
		switch opts.DocumentIndex {
		case "full":
			kind = satchel.FullDocumentIndex
		case "optimized":
			kind = satchel.OptimizedDocumentIndex
		default:
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid document index kind %q: must be full or optimized", opts.DocumentIndex))
		}
		if err := store.EnsureDocumentIndex(ctx, opts.Table, kind); err != nil {
			return WrapExitError(ExitFailure, "ensure document index", err)
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(fmt.Sprintf("table %s ready", opts.Table))
}
