package repo

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const defaultDSN = "user=postgres dbname=postgres password=password sslmode=disable"

//go:embed schema.sql
var schema string

// DSN fills in a default connection string and requires TLS unless the
// caller chose an sslmode.
func DSN(connStr string) string {
	if connStr == "" {
		connStr = defaultDSN
	}
	if !strings.Contains(connStr, "sslmode=") {
		switch {
		case strings.HasPrefix(connStr, "postgres://"), strings.HasPrefix(connStr, "postgresql://"):
			sep := "?"
			if strings.Contains(connStr, "?") {
				sep = "&"
			}
			connStr += sep + "sslmode=require"
		default:
			connStr += " sslmode=require"
		}
	}
	return connStr
}

// Open connects to Postgres and checks the connection.
func Open(ctx context.Context, connStr string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", DSN(connStr))
	if err != nil {
		return nil, fmt.Errorf("db config: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

// ApplySchema creates missing tables. Every statement is idempotent.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	return err
}

type PostgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserDB(db *sqlx.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowxContext(ctx, query, login, email, password).Scan(&id)
	return id, err
}

// GetByLogin returns id 0 and no error for an unknown login.
func (r *PostgresUserRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var u struct {
		ID       int    `db:"id"`
		Password string `db:"password"`
	}
	err := r.db.GetContext(ctx, &u, "SELECT id, password FROM users WHERE login=$1", login)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", nil
	}
	if err != nil {
		return 0, "", err
	}
	return u.ID, u.Password, nil
}
