package cli

import (
	"github.com/spf13/cobra"
)

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exists",
		Short: "Report whether any document matches a selection",
		Long: `Report whether a document exists, selected by key, field
comparison, containment criteria or JSON path. Prints true or false.

Example:
  satchel exists -t person --id one
  satchel exists -t person --field Value --op EQ --value '"purple"'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runExists(rootOpts, selector, cmd)
	}
	return cmd
}

func runExists(opts *RootOptions, sel *Selector, cmd *cobra.Command) error {
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

	var found bool
	switch {
	case sel.ID != "":
		found, err = store.ExistsByID(ctx, opts.Table, sel.ID)
	case sel.Field != "":
		field, op, value, ferr := sel.fieldArgs()
		if ferr != nil {
			return ferr
		}
		found, err = store.ExistsByField(ctx, opts.Table, field, op, value)
	case sel.Contains != "":
		criteria, cerr := sel.containsArg()
		if cerr != nil {
			return cerr
		}
		found, err = store.ExistsByContains(ctx, opts.Table, criteria)
	default:
		found, err = store.ExistsByJSONPath(ctx, opts.Table, sel.Path)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "check existence", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(found)
}
