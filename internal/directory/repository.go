package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores users in the relational database.
type Repository struct {
	pool querier
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("directory: pgx pool required")
	}
	return &Repository{pool: pool}
}

// NewRepositoryWithQuerier allows injecting mocks for tests.
func NewRepositoryWithQuerier(q querier) *Repository {
	if q == nil {
		panic("directory: querier required")
	}
	return &Repository{pool: q}
}

// FindByPhone returns the user for a normalized phone number.
func (r *Repository) FindByPhone(ctx context.Context, phone string) (*User, error) {
	query := `
		SELECT id, name, email, phone_number, created_at
		FROM users
		WHERE phone_number = $1
	`
	var user User
	if err := r.pool.QueryRow(ctx, query, phone).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("directory: select by phone: %w", err)
	}
	return &user, nil
}

// Upsert creates or updates a user keyed by normalized phone number.
func (r *Repository) Upsert(ctx context.Context, phone, name, email string) (*User, error) {
	query := `
		INSERT INTO users (id, name, email, phone_number)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (phone_number)
		DO UPDATE SET name = EXCLUDED.name, email = EXCLUDED.email, updated_at = now()
		RETURNING id, created_at
	`
	user := User{Name: name, Email: email, Phone: phone}
	if err := r.pool.QueryRow(ctx, query, uuid.New(), name, email, phone).Scan(
		&user.ID,
		&user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("directory: upsert: %w", err)
	}
	return &user, nil
}

// List returns all users ordered by creation time.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, name, email, phone_number, created_at
		FROM users
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("directory: list: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Phone, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("directory: scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("directory: iterate users: %w", err)
	}
	return users, nil
}
