package postgresrepo

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/titanshop/shop-svc/internal/dal/postgres"
	"github.com/titanshop/shop-svc/internal/service/models/settings"
)

// PostgresSettingsRepository owns the settings table, a flat key/value
// shop configuration.
type PostgresSettingsRepository struct {
	client *postgres.Client
}

// NewPostgresSettingsRepository creates a new settings repository.
func NewPostgresSettingsRepository(client *postgres.Client) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{
		client: client,
	}
}

// GetAll loads the full settings map.
func (r *PostgresSettingsRepository) GetAll(ctx context.Context) (settings.Settings, error) {
	query, args, err := sq.Select("key", "value").
		From("settings").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.client.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	result := settings.Settings{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		result[key] = value
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Upsert writes a single key, inserting or overwriting as needed.
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, key, value string) error {
	query, args, err := sq.Insert("settings").
		Columns("key", "value", "updated_at").
		Values(key, value, time.Now()).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.client.Pool().Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert setting: %w", err)
	}

	return nil
}
