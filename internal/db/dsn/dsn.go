// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/config"
)

// ErrUnsupportedEngine is returned for a gorm engine without a dsn format.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Create builds the Data Source Name for the configured gorm engine.
// The mysql and postgres forms are understood by the sql session storages as well.
func Create(db config.DB) (string, error) {
	switch db.GormEngine {
	case config.EngineMySQL:
		return MySQL(db), nil
	case config.EnginePostgres:
		return Postgres(db), nil
	case config.EngineSQLite:
		return SQLite(db), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEngine, db.GormEngine)
	}
}

// MySQL returns a go-sql-driver dsn, user:password@tcp(host:port)/name?extras.
func MySQL(db config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
		db.Extras,
	)
}

// Postgres returns a keyword/value dsn, extras are appended as given, e.g. "sslmode=disable".
func Postgres(db config.DB) string {
	parts := []string{
		"host=" + db.Host,
		fmt.Sprintf("port=%d", db.Port),
		"user=" + db.User,
		"password=" + quote(db.Password),
		"dbname=" + db.Name,
	}

	if db.Extras != "" {
		parts = append(parts, db.Extras)
	}

	return strings.Join(parts, " ")
}

// SQLite returns the database file with extras as query, e.g. "_pragma=foreign_keys(1)".
func SQLite(db config.DB) string {
	if db.Extras == "" {
		return db.Name
	}

	return db.Name + "?" + db.Extras
}

func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, ` '\`) {
		return s
	}

	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
