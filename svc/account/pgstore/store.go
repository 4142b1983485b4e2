// Package pgstore implements account.Storage on PostgreSQL.
package pgstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/accountkit/pkg/pg"
	"github.com/dmitrymomot/accountkit/svc/account"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations holds the goose migrations for the users table.
var Migrations fs.FS = mustSub(migrationFiles, "migrations")

// Unique constraint names from the users migration.
const (
	constraintEmail = "users_email_key"
	constraintPhone = "users_phone_number_key"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store is a PostgreSQL-backed account.Storage.
type Store struct {
	db DB
}

// New wraps db.
func New(db DB) *Store {
	return &Store{db: db}
}

const userColumns = `id, name, email, password_hash, COALESCE(phone_number, ''), created_at`

const (
	queryByID    = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	queryByEmail = `SELECT ` + userColumns + ` FROM users WHERE email = lower($1)`
	queryByPhone = `SELECT ` + userColumns + ` FROM users WHERE phone_number = $1`
	queryList    = `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`

	queryInsert = `INSERT INTO users (id, name, email, password_hash, phone_number, created_at)
VALUES ($1, $2, lower($3), $4, NULLIF($5, ''), $6)`

	queryUpdatePassword = `UPDATE users SET password_hash = $2 WHERE id = $1`
)

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (*account.User, error) {
	return s.getOne(ctx, queryByID, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*account.User, error) {
	u, err := s.getOne(ctx, queryByEmail, email)
	if pg.IsNotFoundError(err) {
		return nil, account.ErrUserNotFound
	}
	return u, err
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*account.User, error) {
	if phone == "" {
		return nil, fmt.Errorf("phone lookup: %w", account.ErrNotFound)
	}
	return s.getOne(ctx, queryByPhone, phone)
}

// CreateUser inserts user. Unique violations are reported as
// account.ErrDuplicateEmail or account.ErrDuplicatePhone.
func (s *Store) CreateUser(ctx context.Context, user *account.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	_, err := s.db.Exec(ctx, queryInsert,
		user.ID, user.Name, user.Email, user.PasswordHash, user.PhoneNumber, user.CreatedAt,
	)
	if err == nil {
		return nil
	}

	if pg.IsDuplicateKeyError(err) {
		switch pg.ConstraintName(err) {
		case constraintPhone:
			return account.ErrDuplicatePhone
		default:
			return account.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("insert user: %w", err)
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx, queryUpdatePassword, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", id, account.ErrNotFound)
	}
	return nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*account.User, error) {
	rows, err := s.db.Query(ctx, queryList)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*account.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *Store) getOne(ctx context.Context, query string, arg any) (*account.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, query, arg))
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, fmt.Errorf("%w: %w", account.ErrNotFound, err)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*account.User, error) {
	var u account.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PhoneNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
