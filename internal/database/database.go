package database

import (
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Dialect is the SQL flavour spoken by the store.
type Dialect string

const (
	SQLite   Dialect = "sqlite3"
	LibSQL   Dialect = "libsql"
	Postgres Dialect = "postgres"
)

// DB is a database handle that knows its dialect.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// DetectDialect picks the backend for a store URL.
func DetectDialect(url string) Dialect {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return Postgres
	case strings.HasPrefix(url, "libsql://"), strings.HasPrefix(url, "https://"),
		strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "wss://"), strings.HasPrefix(url, "ws://"):
		return LibSQL
	}
	return SQLite
}

// IsRemote reports whether the dialect talks to a server and therefore needs credentials.
func (d Dialect) IsRemote() bool {
	return d != SQLite
}

// Rebind rewrites ? placeholders to the dialect's own style.
func (d Dialect) Rebind(query string) string {
	if d != Postgres {
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

func (d Dialect) gooseDialect() string {
	switch d {
	case Postgres:
		return "postgres"
	case LibSQL:
		return "turso"
	}
	return "sqlite3"
}

// InitDB opens the store at url and brings its schema up to date.
// The returned teardown closes the connection.
func InitDB(url, authToken string) (*DB, func(), error) {
	db, err := Open(url, authToken)
	if err != nil {
		return nil, nil, err
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	teardown := func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}
	return db, teardown, nil
}

// Open connects to the store without touching its schema.
func Open(url, authToken string) (*DB, error) {
	dialect := DetectDialect(url)
	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case Postgres:
		log.Info("Opening PostgreSQL database")
		db, err = sql.Open("pgx", url)
	case LibSQL:
		log.Info("Opening Turso database", "url", url)
		dsn := url
		if authToken != "" {
			dsn += "?authToken=" + authToken
		}
		db, err = sql.Open("libsql", dsn)
	default:
		log.Info("Opening local SQLite database", "path", url)
		db, err = sql.Open("sqlite3", sqliteDSN(url))
		if err == nil && isMemory(url) {
			// Every connection to :memory: is a separate database.
			db.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect, err)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

// Migrate applies all pending schema migrations.
func Migrate(db *DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(db.Dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the latest applied migration version.
func SchemaVersion(db *DB) (int64, error) {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(db.Dialect.gooseDialect()); err != nil {
		return 0, err
	}
	return goose.GetDBVersion(db.DB)
}

func isMemory(url string) bool {
	return url == ":memory:" || url == "file::memory:" || strings.HasPrefix(url, "file::memory:?")
}

func sqliteDSN(url string) string {
	if isMemory(url) {
		return "file::memory:?_foreign_keys=on"
	}
	dsn := url
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// gooseLogger routes migration output through the application logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}
