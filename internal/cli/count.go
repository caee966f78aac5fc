package cli

import (
	"github.com/spf13/cobra"
)

// NewCountCommand creates the count command.
func NewCountCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count documents in a table",
		Long: `Count documents, optionally filtered by a key, a field
comparison, a containment criteria or a JSON path.

Example:
  satchel count -t person
  satchel count -t person --id one
  satchel count -t person --field NumValue --op GT --value 10
  satchel count -t person --contains '{"Value":"purple"}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCount(rootOpts, selector, cmd)
	}
	return cmd
}

func runCount(opts *RootOptions, sel *Selector, cmd *cobra.Command) error {
	if err := requireTable(opts); err != nil {
		return err
	}
	if sel.modeCount() > 1 {
		return NewExitError(ExitCommandError, "set at most one of --id, --field, --contains, --path")
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	var count int64
	switch {
	case sel.ID != "":
		count, err = store.CountByID(ctx, opts.Table, sel.ID)
		if err != nil {
			return WrapExitError(ExitFailure, "count documents", err)
		}
	case sel.Field != "":
		field, op, value, err := sel.fieldArgs()
		if err != nil {
			return err
		}
		count, err = store.CountByField(ctx, opts.Table, field, op, value)
		if err != nil {
			return WrapExitError(ExitFailure, "count documents", err)
		}
	case sel.Contains != "":
		criteria, err := sel.containsArg()
		if err != nil {
			return err
		}
		count, err = store.CountByContains(ctx, opts.Table, criteria)
		if err != nil {
			return WrapExitError(ExitFailure, "count documents", err)
		}
	case sel.Path != "":
		count, err = store.CountByJSONPath(ctx, opts.Table, sel.Path)
		if err != nil {
			return WrapExitError(ExitFailure, "count documents", err)
		}
	default:
		count, err = store.CountAll(ctx, opts.Table)
		if err != nil {
			return WrapExitError(ExitFailure, "count documents", err)
		}
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success(count)
}
