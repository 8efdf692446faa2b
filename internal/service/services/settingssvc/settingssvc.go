package settingssvc

import (
	"context"

	"github.com/titanshop/shop-svc/internal/service/models/settings"
)

type settingsRepository interface {
	GetAll(ctx context.Context) (settings.Settings, error)
	Upsert(ctx context.Context, key, value string) error
}

// SettingsService serves the flat key/value shop configuration.
type SettingsService struct {
	repo settingsRepository
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo settingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetAll loads the full settings map.
func (s *SettingsService) GetAll(ctx context.Context) (settings.Settings, error) {
	return s.repo.GetAll(ctx)
}

// Update upserts every provided key.
func (s *SettingsService) Update(ctx context.Context, values map[string]string) error {
	for key, value := range values {
		if err := s.repo.Upsert(ctx, key, value); err != nil {
			return err
		}
	}

	return nil
}
