package persist

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/five82/panegrid/internal/layout"
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	env     TEXT NOT NULL,
	view    TEXT NOT NULL,
	item_id TEXT NOT NULL,
	x       INTEGER NOT NULL,
	y       INTEGER NOT NULL,
	w       INTEGER NOT NULL,
	h       INTEGER NOT NULL,
	PRIMARY KEY (env, view, item_id)
);
CREATE TABLE IF NOT EXISTS views (
	env  TEXT NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (env, name)
);
CREATE TABLE IF NOT EXISTS view_entries (
	env      TEXT NOT NULL,
	view     TEXT NOT NULL,
	item_id  TEXT NOT NULL,
	priority INTEGER NOT NULL,
	w        INTEGER NOT NULL,
	h        INTEGER NOT NULL,
	PRIMARY KEY (env, view, item_id)
);
`

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string { return s.path }

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Positions(env, view string) (map[string]layout.Rect, error) {
	rows, err := s.db.Query(`SELECT item_id, x, y, w, h FROM positions WHERE env = ? AND view = ?`, env, view)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]layout.Rect)
	for rows.Next() {
		var id string
		var r layout.Rect
		if err := rows.Scan(&id, &r.X, &r.Y, &r.Width, &r.Height); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out[id] = r
	}
	return out, rows.Err()
}

func (s *SQLite) SavePositions(env, view string, l layout.Layout) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM positions WHERE env = ? AND view = ?`, env, view); err != nil {
			return fmt.Errorf("clear positions: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO positions (env, view, item_id, x, y, w, h) VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare positions: %w", err)
		}
		defer stmt.Close()
		for id, r := range rects(l) {
			if _, err := stmt.Exec(env, view, id, r.X, r.Y, r.Width, r.Height); err != nil {
				return fmt.Errorf("insert position %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SQLite) Views(env string) (map[string]layout.View, error) {
	out := make(map[string]layout.View)

	names, err := s.db.Query(`SELECT name FROM views WHERE env = ?`, env)
	if err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}
	for names.Next() {
		var name string
		if err := names.Scan(&name); err != nil {
			names.Close()
			return nil, fmt.Errorf("scan view: %w", err)
		}
		out[name] = layout.View{Name: name, Entries: make(map[string]layout.ViewEntry)}
	}
	names.Close()
	if err := names.Err(); err != nil {
		return nil, fmt.Errorf("query views: %w", err)
	}

	rows, err := s.db.Query(`SELECT view, item_id, priority, w, h FROM view_entries WHERE env = ?`, env)
	if err != nil {
		return nil, fmt.Errorf("query view entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name, id string
		var e layout.ViewEntry
		if err := rows.Scan(&name, &id, &e.Priority, &e.Width, &e.Height); err != nil {
			return nil, fmt.Errorf("scan view entry: %w", err)
		}
		v, ok := out[name]
		if !ok {
			continue
		}
		v.Entries[id] = e
	}
	return out, rows.Err()
}

func (s *SQLite) SaveView(env string, v layout.View) error {
	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO views (env, name) VALUES (?, ?)`, env, v.Name); err != nil {
			return fmt.Errorf("insert view: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM view_entries WHERE env = ? AND view = ?`, env, v.Name); err != nil {
			return fmt.Errorf("clear view entries: %w", err)
		}
		stmt, err := tx.Prepare(`INSERT INTO view_entries (env, view, item_id, priority, w, h) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare view entries: %w", err)
		}
		defer stmt.Close()
		for id, e := range v.Entries {
			if _, err := stmt.Exec(env, v.Name, id, e.Priority, e.Width, e.Height); err != nil {
				return fmt.Errorf("insert view entry %s: %w", id, err)
			}
		}
		return nil
	})
}

func (s *SQLite) DeleteView(env, name string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM views WHERE env = ? AND name = ?`,
			`DELETE FROM view_entries WHERE env = ? AND view = ?`,
			`DELETE FROM positions WHERE env = ? AND view = ?`,
		} {
			if _, err := tx.Exec(q, env, name); err != nil {
				return fmt.Errorf("delete view: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) Envs() ([]string, error) {
	rows, err := s.db.Query(`SELECT env FROM positions UNION SELECT env FROM views ORDER BY env`)
	if err != nil {
		return nil, fmt.Errorf("query envs: %w", err)
	}
	defer rows.Close()

	var envs []string
	for rows.Next() {
		var env string
		if err := rows.Scan(&env); err != nil {
			return nil, fmt.Errorf("scan env: %w", err)
		}
		envs = append(envs, env)
	}
	return envs, rows.Err()
}

func (s *SQLite) ForkEnv(src, dst string) error {
	return s.inTx(func(tx *sql.Tx) error {
		hasSrc, err := envExists(tx, src)
		if err != nil {
			return err
		}
		if !hasSrc {
			return ErrNotFound
		}
		hasDst, err := envExists(tx, dst)
		if err != nil {
			return err
		}
		if hasDst {
			return ErrExists
		}
		for _, q := range []string{
			`INSERT INTO positions (env, view, item_id, x, y, w, h) SELECT ?, view, item_id, x, y, w, h FROM positions WHERE env = ?`,
			`INSERT INTO views (env, name) SELECT ?, name FROM views WHERE env = ?`,
			`INSERT INTO view_entries (env, view, item_id, priority, w, h) SELECT ?, view, item_id, priority, w, h FROM view_entries WHERE env = ?`,
		} {
			if _, err := tx.Exec(q, dst, src); err != nil {
				return fmt.Errorf("fork env: %w", err)
			}
		}
		return nil
	})
}

func (s *SQLite) DeleteEnv(env string) error {
	return s.inTx(func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM positions WHERE env = ?`,
			`DELETE FROM views WHERE env = ?`,
			`DELETE FROM view_entries WHERE env = ?`,
		} {
			if _, err := tx.Exec(q, env); err != nil {
				return fmt.Errorf("delete env: %w", err)
			}
		}
		return nil
	})
}

func envExists(tx *sql.Tx, env string) (bool, error) {
	var n int
	err := tx.QueryRow(`SELECT
		(SELECT COUNT(*) FROM positions WHERE env = ?) +
		(SELECT COUNT(*) FROM views WHERE env = ?)`, env, env).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check env %s: %w", env, err)
	}
	return n > 0, nil
}

func (s *SQLite) inTx(fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// IsNotFound reports whether err means the environment had no state.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
