package storage

import (
	"context"
	"database/sql"

	"quicknotes/internal/domain"
	"quicknotes/internal/errs"
)

// NoteStore implements domain.NoteStore over any of the SQL dialects.
type NoteStore struct {
	db *DB
}

// NewNoteStore creates a NoteStore on an open DB.
func NewNoteStore(db *DB) *NoteStore {
	return &NoteStore{db: db}
}

// DB returns the database the store writes to.
func (s *NoteStore) DB() *DB {
	return s.db
}

// Insert adds n. When n.ID is 0 the database assigns the id and it is written
// back into n. An explicit id that already exists is ignored.
func (s *NoteStore) Insert(ctx context.Context, n *domain.Note) (bool, error) {
	d := s.db.dialect
	if n.ID != 0 {
		res, err := s.db.conn.ExecContext(ctx, d.rebind(d.insertWithID), n.ID, n.Heading, n.Text)
		if err != nil {
			return false, storageErr("insert note", err)
		}
		changed, err := affected(res)
		if err != nil || !changed || d.syncIDs == "" {
			return changed, err
		}
		if _, err := s.db.conn.ExecContext(ctx, d.syncIDs); err != nil {
			return true, storageErr("insert note", err)
		}
		return true, nil
	}

	if d.returningID {
		var id int64
		if err := s.db.conn.QueryRowContext(ctx, d.rebind(d.insertAuto), n.Heading, n.Text).Scan(&id); err != nil {
			return false, storageErr("insert note", err)
		}
		n.ID = id
		return true, nil
	}

	res, err := s.db.conn.ExecContext(ctx, d.rebind(d.insertAuto), n.Heading, n.Text)
	if err != nil {
		return false, storageErr("insert note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, storageErr("insert note", err)
	}
	n.ID = id
	return true, nil
}

func (s *NoteStore) Update(ctx context.Context, n domain.Note) (bool, error) {
	res, err := s.db.conn.ExecContext(ctx,
		s.db.dialect.rebind(`UPDATE Notes SET heading = ?, text = ? WHERE id = ?`),
		n.Heading, n.Text, n.ID,
	)
	if err != nil {
		return false, storageErr("update note", err)
	}
	return affected(res)
}

func (s *NoteStore) Delete(ctx context.Context, n domain.Note) (bool, error) {
	res, err := s.db.conn.ExecContext(ctx, s.db.dialect.rebind(`DELETE FROM Notes WHERE id = ?`), n.ID)
	if err != nil {
		return false, storageErr("delete note", err)
	}
	return affected(res)
}

// List returns every note ordered by id.
func (s *NoteStore) List(ctx context.Context) ([]domain.Note, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT id, heading, text FROM Notes ORDER BY id`)
	if err != nil {
		return nil, storageErr("list notes", err)
	}
	defer rows.Close()

	notes := []domain.Note{}
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.Heading, &n.Text); err != nil {
			return nil, storageErr("list notes", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list notes", err)
	}
	return notes, nil
}

// Close closes the underlying database.
func (s *NoteStore) Close() error {
	return s.db.Close()
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("rows affected", err)
	}
	return n > 0, nil
}

// storageErr marks driver failures as unavailable storage. They are never retried.
func storageErr(op string, err error) error {
	return errs.Wrap(errs.Unavailable, "note store: "+op, err)
}
