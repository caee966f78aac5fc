package cli

import (
	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete matching documents",
		Long: `Delete the selected documents. Deleting by an absent key is
not an error.

Example:
  satchel delete -t person --id one
  satchel delete -t person --contains '{"Value":"purple"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runDelete(rootOpts, selector, cmd)
	}
	return cmd
}

func runDelete(opts *RootOptions, sel *Selector, cmd *cobra.Command) error {
	if err := requireTable(opts); err != nil {
		return err
	}
	if sel.modeCount() != 1 {
		return NewExitError(ExitCommandError, "set exactly one of --id, --field, --contains, --path")
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case sel.ID != "":
		err = store.DeleteByID(ctx, opts.Table, sel.ID)
	case sel.Field != "":
		field, op, value, ferr := sel.fieldArgs()
		if ferr != nil {
			return ferr
		}
		err = store.DeleteByField(ctx, opts.Table, field, op, value)
	case sel.Contains != "":
		criteria, cerr := sel.containsArg()
		if cerr != nil {
			return cerr
		}
		err = store.DeleteByContains(ctx, opts.Table, criteria)
	default:
		err = store.DeleteByJSONPath(ctx, opts.Table, sel.Path)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "delete documents", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success("deleted")
}
