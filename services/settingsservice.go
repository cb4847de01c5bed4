package services

import (
	"context"
	"sync"

	"myassistant/model"

	"go.uber.org/zap"
)

type SettingsPatch struct {
	EnableWelcome *bool
	EnableSfx     *bool
}

type SettingsService struct {
	mu       sync.RWMutex
	settings model.AppSettings
	store    *Store
	logger   *zap.Logger
}

func NewSettingsService(ctx context.Context, store *Store, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		settings: LoadFromStore(ctx, store, KeySettings, model.DefaultSettings()),
		store:    store,
		logger:   logger.Named("settings"),
	}
}

func (s *SettingsService) Settings() model.AppSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (model.AppSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.settings
	if patch.EnableWelcome != nil {
		next.EnableWelcome = *patch.EnableWelcome
	}
	if patch.EnableSfx != nil {
		next.EnableSfx = *patch.EnableSfx
	}
	if err := s.store.Save(ctx, KeySettings, next); err != nil {
		return s.settings, err
	}
	s.settings = next
	s.logger.Info("settings updated",
		zap.Bool("welcome", next.EnableWelcome),
		zap.Bool("sfx", next.EnableSfx))
	return next, nil
}

// Reset restores the defaults after a storage clear.
func (s *SettingsService) Reset(ctx context.Context) (model.AppSettings, error) {
	def := model.DefaultSettings()
	return s.Update(ctx, SettingsPatch{EnableWelcome: &def.EnableWelcome, EnableSfx: &def.EnableSfx})
}
