package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// DB envuelve *sql.DB con el dialecto, para reescribir placeholders.
type DB struct {
	*sql.DB
	Dialect string
}

// Open abre SQLite (default, modernc) o Postgres (pgx stdlib) según la URL y verifica health.
//
//	file:lobby.db, lobby.db, :memory:     -> sqlite
//	postgres://..., postgresql://...      -> pgx
func Open(ctx context.Context, url string) (*DB, error) {
	driver, dsn, dialect := resolveDriver(url)
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if dialect == DialectSQLite {
		// sqlite no se lleva con escritores concurrentes; y :memory: es por conexión.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(1 * time.Hour)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return &DB{DB: db, Dialect: dialect}, nil
}

func resolveDriver(url string) (driver, dsn, dialect string) {
	u := strings.TrimSpace(url)
	low := strings.ToLower(u)
	switch {
	case strings.HasPrefix(low, "postgres://"), strings.HasPrefix(low, "postgresql://"):
		return "pgx", u, DialectPostgres
	case strings.HasPrefix(low, "sqlite://"):
		u = u[len("sqlite://"):]
	}
	if u == "" {
		u = "file:lobby.db"
	}
	if u != ":memory:" && !strings.Contains(u, "_pragma=") {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"
	}
	return "sqlite", u, DialectSQLite
}

// Migrate aplica todas las migraciones embebidas.
func Migrate(db *DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(db.Dialect); err != nil {
		return err
	}
	return goose.Up(db.DB, "migrations")
}

// rebind pasa los '?' a '$n' cuando el dialecto es postgres.
func (d *DB) rebind(q string) string {
	if d.Dialect != DialectPostgres {
		return q
	}
	var b strings.Builder
	b.Grow(len(q) + 8)
	n := 0
	for i := 0; i < len(q); i++ {
		if q[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
