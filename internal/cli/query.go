package cli

import (
	"database/sql"

	"github.com/spf13/cobra"

	"github.com/satchel-db/satchel"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Exec   bool
	Scalar bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <sql> [param...]",
		Short: "Run custom SQL through the document pipeline",
		Long: `Run a custom SQL statement. Extra arguments bind as positional
parameters, parsed as JSON where possible. By default each row's first
column prints as one line; --scalar prints a single value and --exec
runs the statement for its effect and prints the affected row count.

Example:
  satchel query "SELECT data FROM person WHERE data->>'Value' = ?" '"purple"'
  satchel query --exec "DELETE FROM person"`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, cmd, args[0], args[1:])
		},
	}

	cmd.Flags().BoolVar(&opts.Exec, "exec", false, "run the statement for its effect")
	cmd.Flags().BoolVar(&opts.Scalar, "scalar", false, "print the first column of the first row only")

	return cmd
}

func runQuery(opts *QueryOptions, cmd *cobra.Command, query string, rawParams []string) error {
	if opts.Exec && opts.Scalar {
		return NewExitError(ExitCommandError, "--exec and --scalar are mutually exclusive")
	}
	params := make([]satchel.Param, len(rawParams))
	for i, raw := range rawParams {
		params[i] = satchel.Param{Name: "p", Value: parseValue(raw)}
	}
	ctx := cmd.Context()
	store, db, err := openStore(ctx, opts.RootOptions)
	if err != nil {
		return err
	}
	defer db.Close()

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	if opts.Exec {
		affected, err := satchel.Exec(ctx, store.DB(), query, params)
		if err != nil {
			return WrapExitError(ExitFailure, "execute statement", err)
		}
		return formatter.Success(affected)
	}

	firstColumn := func(rows *sql.Rows) (string, error) {
		var value string
		err := rows.Scan(&value)
		return value, err
	}

	if opts.Scalar {
		value, err := satchel.Scalar[string](ctx, store.DB(), query, params)
		if err != nil {
			return WrapExitError(ExitFailure, "run query", err)
		}
		return formatter.Success(value)
	}

	values, err := satchel.List(ctx, store.DB(), query, params, firstColumn)
	if err != nil {
		return WrapExitError(ExitFailure, "run query", err)
	}
	if opts.Format == "json" {
		return formatter.Success(values)
	}
	for _, value := range values {
		if err := formatter.Success(value); err != nil {
			return err
		}
	}
	return nil
}
