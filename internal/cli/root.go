package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	URL        string // connection string (file path for SQLite)
	Driver     string // "sqlite" | "postgres"
	Table      string
	KeyField   string
	ConfigFile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the satchel CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "satchel",
		Short: "Satchel - JSON document storage over SQL engines",
		Long: `Manage JSON documents stored in PostgreSQL or SQLite tables.

Connection settings come from flags, a YAML config file (--config),
a .env file in the working directory, or the SATCHEL_URL and
SATCHEL_DRIVER environment variables, in that order.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return resolveConnection(opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.URL, "url", "", "connection string (file path for sqlite)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver (sqlite|postgres)")
	cmd.PersistentFlags().StringVarP(&opts.Table, "table", "t", "", "document table name")
	cmd.PersistentFlags().StringVar(&opts.KeyField, "key-field", "", "document key field (default Id)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to YAML config file")

	cmd.AddCommand(NewEnsureCommand(opts))
	cmd.AddCommand(NewInsertCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewCountCommand(opts))
	cmd.AddCommand(NewExistsCommand(opts))
	cmd.AddCommand(NewPatchCommand(opts))
	cmd.AddCommand(NewRemoveFieldsCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// resolveConnection fills unset connection options from the config
// file, .env and the environment. Flags always win.
func resolveConnection(opts *RootOptions) error {
	// A missing .env is fine; malformed content is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}

	if opts.ConfigFile != "" {
		fc, err := loadConfigFile(opts.ConfigFile)
		if err != nil {
			return err
		}
		if opts.URL == "" {
			opts.URL = fc.URL
		}
		if opts.Driver == "" {
			opts.Driver = fc.Driver
		}
		if opts.Table == "" {
			opts.Table = fc.Table
		}
		if opts.KeyField == "" {
			opts.KeyField = fc.KeyField
		}
	}

	if opts.URL == "" {
		opts.URL = os.Getenv("SATCHEL_URL")
	}
	if opts.Driver == "" {
		opts.Driver = os.Getenv("SATCHEL_DRIVER")
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
