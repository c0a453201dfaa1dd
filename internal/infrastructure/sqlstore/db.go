// Package sqlstore implementa los repositorios sobre database/sql + sqlx para MySQL y SQLite.
//
// MySQL serializa las ventas con SELECT ... FOR UPDATE en orden de id.
// SQLite usa una sola conexión y BEGIN IMMEDIATE: cada transacción toma el candado de escritura al empezar.
package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialectos soportados.
const (
	DialectMySQL  = "mysql"
	DialectSQLite = "sqlite"
)

func init() {
	// sqlx no reconoce el nombre "sqlite" de modernc; usa "?" como mysql.
	sqlx.BindDriver(DialectSQLite, sqlx.QUESTION)
}

// DB conexión sqlx más el dialecto, que decide el SQL de bloqueo y el esquema.
type DB struct {
	*sqlx.DB
	dialect string
}

// Dialect devuelve "mysql" o "sqlite".
func (db *DB) Dialect() string { return db.dialect }

// SQLiteDSN arma el DSN de modernc.org/sqlite para path (":memory:" o un archivo).
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Set("_txlock", "immediate")
	q.Set("_time_format", "sqlite")
	return "file:" + path + "?" + q.Encode()
}

// Open abre la base, verifica la conexión y crea el esquema si falta.
func Open(ctx context.Context, dialect, dsn string) (*DB, error) {
	var schema []string
	switch dialect {
	case DialectMySQL:
		schema = mysqlSchema
		normalized, err := normalizeMySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		dsn = normalized
	case DialectSQLite:
		schema = sqliteSchema
	default:
		return nil, fmt.Errorf("sqlstore: dialecto desconocido %q", dialect)
	}

	sdb, err := sqlx.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: abrir %s: %w", dialect, err)
	}
	if dialect == DialectSQLite {
		// Un solo escritor: las transacciones quedan en fila y ":memory:" no se pierde entre conexiones.
		sdb.SetMaxOpenConns(1)
	} else {
		sdb.SetMaxOpenConns(25)
		sdb.SetMaxIdleConns(5)
	}
	if err := sdb.PingContext(ctx); err != nil {
		_ = sdb.Close()
		return nil, fmt.Errorf("sqlstore: ping %s: %w", dialect, err)
	}

	db := &DB{DB: sdb, dialect: dialect}
	if err := db.ensureSchema(ctx, schema); err != nil {
		_ = sdb.Close()
		return nil, err
	}
	return db, nil
}

func (db *DB) ensureSchema(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if db.dialect == DialectMySQL && isDuplicateIndex(err) {
				continue
			}
			return fmt.Errorf("sqlstore: esquema: %w", err)
		}
	}
	if db.dialect == DialectMySQL {
		return db.widenAmounts(ctx)
	}
	return nil
}

// widenAmounts lleva a DECIMAL(19,5) los importes de bases creadas con menos decimales.
func (db *DB) widenAmounts(ctx context.Context) error {
	for _, col := range mysqlAmountColumns {
		var scale int
		err := db.GetContext(ctx, &scale, `
			SELECT NUMERIC_SCALE FROM information_schema.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? AND COLUMN_NAME = ?`, col.table, col.column)
		if err != nil {
			return fmt.Errorf("sqlstore: escala de %s.%s: %w", col.table, col.column, err)
		}
		if scale >= 5 {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s MODIFY %s DECIMAL(19,5) NOT NULL", col.table, col.column)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlstore: ampliar %s.%s: %w", col.table, col.column, err)
		}
	}
	return nil
}

// normalizeMySQLDSN fuerza parseTime y UTC para que DATETIME se lea como time.Time.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("sqlstore: MYSQL_DSN inválido: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// forUpdate sufijo de bloqueo de filas; en SQLite la transacción ya tiene el candado.
func forUpdate(dialect string) string {
	if dialect == DialectMySQL {
		return " FOR UPDATE"
	}
	return ""
}
