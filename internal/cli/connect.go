package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satchel-db/satchel"
	"github.com/satchel-db/satchel/postgres"
	"github.com/satchel-db/satchel/sqlite"
)

// openStore connects to the configured backend and builds a Store
// over it. The caller owns the returned handle and must close it.
func openStore(ctx context.Context, opts *RootOptions) (*satchel.Store, *sql.DB, error) {
	if opts.URL == "" {
		return nil, nil, NewExitError(ExitCommandError, "no connection configured: set --url, SATCHEL_URL or a config file")
	}

	config := satchel.Config{KeyField: opts.KeyField}

	switch opts.Driver {
	case "sqlite", "sqlite3":
		db, err := sqlite.Open(opts.URL)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "open sqlite database", err)
		}
		store, err := sqlite.NewStore(db, config)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "postgres", "postgresql":
		db, err := postgres.Open(ctx, opts.URL)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "connect to postgresql", err)
		}
		store, err := postgres.NewStore(db, config)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "":
		return nil, nil, NewExitError(ExitCommandError, "no driver configured: set --driver, SATCHEL_DRIVER or a config file")
	default:
		return nil, nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown driver %q: must be sqlite or postgres", opts.Driver))
	}
}

// requireTable validates that a table name was configured.
func requireTable(opts *RootOptions) error {
	if opts.Table == "" {
		return NewExitError(ExitCommandError, "no table configured: set --table or a config file")
	}
	return nil
}
