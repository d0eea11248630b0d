package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"

	"github.com/darasahq/darasa/core"
	appfs "github.com/darasahq/darasa/fs"
)

const pingAttempts = 30

func connect(dbName string, asAdmin bool, conf *core.Config) (*sql.DB, error) {
	creds := url.UserPassword(conf.Database.User, conf.Database.Password)
	if asAdmin && conf.Database.AdminUser != "" {
		creds = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	q := make(url.Values)
	q.Set("timezone", "utc")
	if conf.Database.DisableTLS {
		q.Set("sslmode", "disable")
	} else {
		q.Set("sslmode", "require")
	}

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     creds,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return sql.Open(conf.Database.Engine, u.String())
}

// Open connects to the application database as the app user.
func Open(conf *core.Config) (*sql.DB, error) {
	return connect(conf.Database.Name, false, conf)
}

// waitReady pings until the server answers, backing off 100ms more per attempt.
func waitReady(db *sql.DB) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.Ping(); err == nil {
			return nil
		}
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "DB ping timeout")
}

func queryExists(db *sql.DB, query string, args ...interface{}) (bool, error) {
	var exists bool
	err := db.QueryRow(query, args...).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}

func ensureAppRole(db *sql.DB, conf *core.Config) error {
	exists, err := queryExists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app role")
	}
	if exists {
		return nil
	}
	q := fmt.Sprintf("CREATE USER %s CREATEDB ENCRYPTED PASSWORD '%s'", conf.Database.User, conf.Database.Password)
	if _, err = db.Exec(q); err != nil {
		return errors.Wrap(err, "creating app role")
	}
	return nil
}

func ensureDatabase(db *sql.DB, conf *core.Config) error {
	exists, err := queryExists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking database")
	}
	if exists {
		return nil
	}
	if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", conf.Database.Name)); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

// CreateIfNotExist bootstraps the app role and database. The role is only
// created when an admin user is configured; otherwise the app user is assumed
// to exist already.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.AdminUser != "" && conf.Database.User != "" {
		admin, err := connect("postgres", true, conf)
		if err != nil {
			return errors.Wrap(err, "opening database")
		}
		defer func() { _ = admin.Close() }()

		if err = waitReady(admin); err != nil {
			return errors.Wrap(err, "pinging database")
		}
		if err = ensureAppRole(admin, conf); err != nil {
			return err
		}
	}

	db, err := connect("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = waitReady(db); err != nil {
		return errors.Wrap(err, "pinging database")
	}
	return ensureDatabase(db, conf)
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	if err := goose.RunFS("up", db, appfs.FS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
