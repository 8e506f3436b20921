package storage

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// dialect holds the statements that differ between SQL backends.
// Statements are written with ? placeholders and rebound for numbered styles.
type dialect struct {
	name     string
	driver   string
	schema   []string
	numbered bool // $1, $2 ... placeholders

	insertAuto   string // id assigned by the database
	insertWithID string // explicit id, silently ignored on conflict
	returningID  bool   // insertAuto yields the id as a row instead of LastInsertId
	syncIDs      string // run after an explicit-id insert so later auto ids skip it
}

var sqliteDialect = dialect{
	name:   "sqlite",
	driver: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS Notes (
			id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
			heading TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
	},
	insertAuto:   `INSERT INTO Notes (heading, text) VALUES (?, ?)`,
	insertWithID: `INSERT OR IGNORE INTO Notes (id, heading, text) VALUES (?, ?, ?)`,
}

var postgresDialect = dialect{
	name:     "postgres",
	driver:   "postgres",
	numbered: true,
	schema: []string{
		`CREATE TABLE IF NOT EXISTS Notes (
			id BIGSERIAL PRIMARY KEY,
			heading TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
	},
	insertAuto:   `INSERT INTO Notes (heading, text) VALUES (?, ?) RETURNING id`,
	insertWithID: `INSERT INTO Notes (id, heading, text) VALUES (?, ?, ?) ON CONFLICT (id) DO NOTHING`,
	returningID:  true,
	syncIDs:      `SELECT setval(pg_get_serial_sequence('notes', 'id'), (SELECT MAX(id) FROM Notes))`,
}

var mysqlDialect = dialect{
	name:   "mysql",
	driver: "mysql",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS Notes (
			id BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			heading TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
	},
	insertAuto:   `INSERT INTO Notes (heading, text) VALUES (?, ?)`,
	insertWithID: `INSERT IGNORE INTO Notes (id, heading, text) VALUES (?, ?, ?)`,
}

func dialectFor(driver string) (dialect, error) {
	switch driver {
	case "sqlite", "sqlite3":
		return sqliteDialect, nil
	case "postgres", "postgresql":
		return postgresDialect, nil
	case "mysql":
		return mysqlDialect, nil
	default:
		return dialect{}, fmt.Errorf("unsupported sql driver: %s", driver)
	}
}

// rebind rewrites ? placeholders into $n for numbered dialects.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
