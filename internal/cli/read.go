package cli

import (
	"github.com/spf13/cobra"

	"github.com/satchel-db/satchel"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch the document with the given key",
		Long: `Fetch a single document by key. A missing document exits
non-zero.

Example:
  satchel get -t person one`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runGet(opts *RootOptions, cmd *cobra.Command, id string) error {
	if err := requireTable(opts); err != nil {
		return err
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, found, err := satchel.FindByID[map[string]any](ctx, store, opts.Table, id)
	if err != nil {
		return WrapExitError(ExitFailure, "fetch document", err)
	}
	if !found {
		return NewExitError(ExitFailure, "document not found: "+id)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(doc)
}

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	OrderBy []string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Fetch documents from a table",
		Long: `Fetch documents, optionally filtered by a field comparison,
a containment criteria or a JSON path, and optionally ordered.

Example:
  satchel list -t person
  satchel list -t person --order-by "NumValue DESC"
  satchel list -t person --field Value --op EQ --value '"purple"'
  satchel list -t person --contains '{"Value":"purple"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)
	cmd.Flags().StringSliceVar(&opts.OrderBy, "order-by", nil, `ordering field paths (" DESC" suffix honored)`)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runList(opts, selector, cmd)
	}
	return cmd
}

func runList(opts *ListOptions, sel *Selector, cmd *cobra.Command) error {
	if err := requireTable(opts.RootOptions); err != nil {
		return err
	}
	if sel.ID != "" {
		return NewExitError(ExitCommandError, "use get to fetch by key")
	}
	if sel.modeCount() > 1 {
		return NewExitError(ExitCommandError, "set at most one of --field, --contains, --path")
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer db.Close()

	var docs []map[string]any
	switch {
	case sel.Field != "":
		field, op, value, err := sel.fieldArgs()
		if err != nil {
			return err
		}
		docs, err = satchel.FindByField[map[string]any](ctx, store, opts.Table, field, op, value, opts.OrderBy...)
		if err != nil {
			return WrapExitError(ExitFailure, "list documents", err)
		}
	case sel.Contains != "":
		criteria, err := sel.containsArg()
		if err != nil {
			return err
		}
		docs, err = satchel.FindByContains[map[string]any](ctx, store, opts.Table, criteria, opts.OrderBy...)
		if err != nil {
			return WrapExitError(ExitFailure, "list documents", err)
		}
	case sel.Path != "":
		docs, err = satchel.FindByJSONPath[map[string]any](ctx, store, opts.Table, sel.Path, opts.OrderBy...)
		if err != nil {
			return WrapExitError(ExitFailure, "list documents", err)
		}
	default:
		docs, err = satchel.FindAll[map[string]any](ctx, store, opts.Table, opts.OrderBy...)
		if err != nil {
			return WrapExitError(ExitFailure, "list documents", err)
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Documents(docs)
}
