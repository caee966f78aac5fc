package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// NewPatchCommand creates the patch command.
func NewPatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patch <patch-json>",
		Short: "Merge-patch matching documents",
		Long: `Apply a merge patch to the selected documents: fields in the
patch replace the documents' fields, sibling fields are untouched.

Example:
  satchel patch -t person --id one '{"Value":"blue"}'
  satchel patch -t person --contains '{"Value":"purple"}' '{"Seen":true}'`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	selector := &Selector{}
	selector.Register(cmd)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runPatch(rootOpts, selector, cmd, args[0])
	}
	return cmd
}

func runPatch(opts *RootOptions, sel *Selector, cmd *cobra.Command, patchArg string) error {
	if err := requireTable(opts); err != nil {
		return err
	}
	if sel.modeCount() != 1 {
		return NewExitError(ExitCommandError, "set exactly one of --id, --field, --contains, --path")
	}
	var patch map[string]any
	if err := json.Unmarshal([]byte(patchArg), &patch); err != nil {
		return WrapExitError(ExitCommandError, "invalid patch JSON", err)
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	switch {
	case sel.ID != "":
		err = store.PatchByID(ctx, opts.Table, sel.ID, patch)
	case sel.Field != "":
		field, op, value, ferr := sel.fieldArgs()
		if ferr != nil {
			return ferr
		}
		err = store.PatchByField(ctx, opts.Table, field, op, value, patch)
	case sel.Contains != "":
		criteria, cerr := sel.containsArg()
		if cerr != nil {
			return cerr
		}
		err = store.PatchByContains(ctx, opts.Table, criteria, patch)
	default:
		err = store.PatchByJSONPath(ctx, opts.Table, sel.Path, patch)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "patch documents", err)
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
	return formatter.Success("patched")
}
