package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/perch/internal/storage"
)

// openTenantDB opens an existing tenant database. Opening a missing
// tenant would silently create an empty database, so the file must
// already exist.
func openTenantDB(opts *RootOptions, tenant string, formatter *OutputFormatter) (*storage.DB, error) {
	path := filepath.Join(opts.DataDir, tenant+".db")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			msg := fmt.Sprintf("tenant database not found: %s", path)
			_ = formatter.Error(ErrCodeNotFound, msg, nil)
			return nil, NewExitError(ExitCommandError, msg)
		}
		msg := fmt.Sprintf("accessing tenant database: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return nil, NewExitError(ExitCommandError, msg)
	}

	db, err := storage.Open(path)
	if err != nil {
		msg := fmt.Sprintf("opening tenant database: %v", err)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return nil, WrapExitError(ExitCommandError, msg, err)
	}
	return db, nil
}
