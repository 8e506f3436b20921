package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"quicknotes/internal/errs"
)

// Backup writes a consistent copy of the SQLite database to dest.
// Server databases have their own backup tooling and are rejected.
func (db *DB) Backup(ctx context.Context, dest string) error {
	if db.dialect.name != sqliteDialect.name {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("backup is not supported for %s stores", db.dialect.name))
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := os.Stat(dest); err == nil {
		return errs.New(errs.InvalidArgument, fmt.Sprintf("backup target already exists: %s", dest))
	}
	if _, err := db.conn.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return storageErr("backup", err)
	}
	return nil
}

// Backup copies the store's database to dest.
func (s *NoteStore) Backup(ctx context.Context, dest string) error {
	return s.db.Backup(ctx, dest)
}
