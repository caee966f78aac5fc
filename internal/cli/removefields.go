package cli

import (
	"github.com/spf13/cobra"
)

// NewRemoveFieldsCommand creates the remove-fields command.
func NewRemoveFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-fields <field>...",
		Short: "Remove fields from matching documents",
		Long: `Remove the named top-level fields from the selected documents.
Fields a document does not carry are ignored.

Example:
  satchel remove-fields -t person --id one Sub
  satchel remove-fields -t person --field Value --op EQ --value '"purple"' NumValue Sub`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runRemoveFields(rootOpts, selector, cmd, args)
	}
	return cmd
}

func runRemoveFields(opts *RootOptions, sel *Selector, cmd *cobra.Command, fields []string) error {
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
		err = store.RemoveFieldsByID(ctx, opts.Table, sel.ID, fields...)
	case sel.Field != "":
		field, op, value, ferr := sel.fieldArgs()
		if ferr != nil {
			return ferr
		}
		err = store.RemoveFieldsByField(ctx, opts.Table, field, op, value, fields...)
	case sel.Contains != "":
		criteria, cerr := sel.containsArg()
		if cerr != nil {
			return cerr
		}
		err = store.RemoveFieldsByContains(ctx, opts.Table, criteria, fields...)
	default:
		err = store.RemoveFieldsByJSONPath(ctx, opts.Table, sel.Path, fields...)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "remove fields", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success("fields removed")
}
