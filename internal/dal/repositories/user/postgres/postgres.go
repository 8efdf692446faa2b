package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/titanshop/shop-svc/internal/dal/postgres"
	"github.com/titanshop/shop-svc/internal/service/models/user"
)

var userColumns = []string{
	"telegram_id", "username", "first_name", "last_name", "is_admin", "created_at",
}

// PostgresUserRepository owns the users table. Rows are written only by the
// identity-sync path and the admin-flag toggle.
type PostgresUserRepository struct {
	client *postgres.Client
}

// NewPostgresUserRepository creates a new user repository.
func NewPostgresUserRepository(client *postgres.Client) *PostgresUserRepository {
	return &PostgresUserRepository{
		client: client,
	}
}

// Upsert refreshes the denormalized display fields for a platform identity.
// The admin flag is deliberately left untouched on conflict.
func (r *PostgresUserRepository) Upsert(ctx context.Context, u user.User) error {
	query, args, err := sq.Insert("users").
		Columns("telegram_id", "username", "first_name", "last_name").
		Values(u.TelegramID, u.Username, u.FirstName, u.LastName).
		Suffix(`ON CONFLICT (telegram_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

// GetByTelegramID retrieves a user by their platform identity.
func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var u user.User
	err = r.client.Pool().QueryRow(ctx, query, args...).Scan(
		&u.TelegramID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.IsAdmin,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// ListAdmins returns every user carrying the administrator flag.
func (r *PostgresUserRepository) ListAdmins(ctx context.Context) ([]user.User, error) {
	query, args, err := sq.Select(userColumns...).
		From("users").
		Where(sq.Eq{"is_admin": true}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query admins: %w", err)
	}
	defer rows.Close()

	result := []user.User{}
	for rows.Next() {
		var u user.User
		err := rows.Scan(
			&u.TelegramID,
			&u.Username,
			&u.FirstName,
			&u.LastName,
			&u.IsAdmin,
			&u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// SetAdmin flips the administrator flag for a user.
func (r *PostgresUserRepository) SetAdmin(ctx context.Context, telegramID int64, isAdmin bool) error {
	query, args, err := sq.Update("users").
		Set("is_admin", isAdmin).
		Where(sq.Eq{"telegram_id": telegramID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}

	return nil
}

// Count returns the total number of known users.
func (r *PostgresUserRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("users").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int64
	if err := r.client.Pool().QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}

	return count, nil
}
