// Package dbutils opens the bun database statements are stored in.
package dbutils

import (
	"database/sql"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"k8s.io/klog"
	_ "modernc.org/sqlite"

	"github.com/bcaldwell/statementimporter/pkg/config"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// CreateDBClient connects to the configured database, creating the postgres
// database first if it is missing.
func CreateDBClient(sqlConfig config.SQLConfig, secrets config.Secrets) (*bun.DB, error) {
	switch strings.ToLower(sqlConfig.Driver) {
	case DriverSQLite:
		return CreateSQLiteClient(sqlConfig.Database)
	case DriverPostgres, "":
		return CreatePostgresClient(sqlConfig.Database, secrets)
	default:
		return nil, fmt.Errorf("unsupported sql driver %s", sqlConfig.Driver)
	}
}

// CreateSQLiteClient opens a sqlite database file, ":memory:" keeps it in memory.
func CreateSQLiteClient(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	// every connection to :memory: is its own database
	sqldb.SetMaxOpenConns(1)

	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", path, err)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func CreatePostgresClient(dbname string, secrets config.Secrets) (*bun.DB, error) {
	var pgconn *pgdriver.Connector

	// bypass creating of db if database_url is set because we are likely running in heroku then
	if secrets.DatabaseURL == "" {
		sqlHost := secrets.SQL.SqlHost
		// slightly silly logic to add port if missing
		if !strings.Contains(sqlHost, ":") {
			sqlHost += ":5432"
		}

		err := ensureDBExistsInPostgres(sqlHost, dbname, secrets.SQL)
		if err != nil {
			return nil, err
		}

		pgconn = pgdriver.NewConnector(
			pgdriver.WithAddr(sqlHost),
			pgdriver.WithInsecure(true),
			pgdriver.WithUser(secrets.SQL.SqlUsername),
			pgdriver.WithPassword(secrets.SQL.SqlPassword),
			pgdriver.WithDatabase(dbname),
		)
	} else {
		// this panics if its invalid
		pgconn = pgdriver.NewConnector(pgdriver.WithDSN(secrets.DatabaseURL))
	}

	db := sql.OpenDB(pgconn)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	return bun.NewDB(db, pgdialect.New()), nil
}

func ensureDBExistsInPostgres(addr, dbname string, sqlSecrets config.SqlSecrets) error {
	pgconn := pgdriver.NewConnector(
		pgdriver.WithAddr(addr),
		pgdriver.WithInsecure(true),
		pgdriver.WithUser(sqlSecrets.SqlUsername),
		pgdriver.WithPassword(sqlSecrets.SqlPassword),
		pgdriver.WithDatabase("postgres"),
	)

	db := sql.OpenDB(pgconn)
	defer db.Close()

	rows, err := db.Query("SELECT datname FROM pg_database WHERE datname = $1", dbname)
	if err != nil {
		return fmt.Errorf("failed to get list of databases: %w", err)
	}
	defer rows.Close()

	// next meaning there is a row, all we care about is if there is a row
	if !rows.Next() {
		klog.Infof("Creating database %s in postgres database", dbname)
		_, err := db.Exec(fmt.Sprintf(`CREATE DATABASE "%s"`, dbname))
		if err != nil {
			return fmt.Errorf("failed to create database %s: %w", dbname, err)
		}
	}

	return nil
}

// TableSetString builds the "col = EXCLUDED.col" list of an upsert for every
// column of model except exclude.
func TableSetString(db *bun.DB, model interface{}, exclude ...string) string {
	t := db.Dialect().Tables().Get(reflect.TypeOf(model).Elem())
	if t == nil {
		return ""
	}

	parts := []string{}

	for _, f := range t.Fields {
		if slices.Contains(exclude, f.Name) {
			continue
		}

		parts = append(parts, fmt.Sprintf("%s = EXCLUDED.%s", f.Name, f.Name))
	}

	return strings.Join(parts, ", ")
}
