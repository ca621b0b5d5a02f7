package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type SettingService interface {
	Get(ctx context.Context, key, defaultValue string) (string, error)
	GetInt(ctx context.Context, key string, defaultValue int) (int, error)
	Set(ctx context.Context, key, value string, description *string) error
	List(ctx context.Context) ([]models.Setting, error)

	ImageSettings(ctx context.Context) (models.ImageSettings, error)
	UpdateImageSettings(ctx context.Context, settings models.ImageSettings) error
}

type settingService struct {
	settingRepo repository.SettingRepository
	defaults    config.Image
	log         zerolog.Logger
}

func NewSettingService(settingRepo repository.SettingRepository, defaults config.Image, log zerolog.Logger) SettingService {
	return &settingService{
		settingRepo: settingRepo,
		defaults:    defaults,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

// Get returns the stored value of key, or defaultValue when it was never set.
func (s *settingService) Get(ctx context.Context, key, defaultValue string) (string, error) {
	setting, err := s.settingRepo.Get(ctx, key)
	if err != nil {
		if models.IsNotFound(err) {
			return defaultValue, nil
		}
		return "", err
	}
	return setting.Value, nil
}

// GetInt is Get for integer settings. A value that does not parse falls back to defaultValue.
func (s *settingService) GetInt(ctx context.Context, key string, defaultValue int) (int, error) {
	raw, err := s.Get(ctx, key, strconv.Itoa(defaultValue))
	if err != nil {
		return 0, err
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.log.Warn().Str("key", key).Str("value", raw).Msg("Некорректное числовое значение настройки")
		return defaultValue, nil
	}
	return value, nil
}

// Set upserts key. A nil description keeps the stored one.
func (s *settingService) Set(ctx context.Context, key, value string, description *string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.NewValidationError("Ключ настройки не может быть пустым")
	}

	err := s.settingRepo.Set(ctx, &models.Setting{
		Key:         key,
		Value:       value,
		Description: description,
		UpdatedAt:   utcNow(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("Ошибка сохранения настройки")
		return err
	}

	return nil
}

func (s *settingService) List(ctx context.Context) ([]models.Setting, error) {
	return s.settingRepo.List(ctx)
}

func (s *settingService) ImageSettings(ctx context.Context) (models.ImageSettings, error) {
	var settings models.ImageSettings
	var err error

	if settings.MaxWidth, err = s.GetInt(ctx, models.SettingImageMaxWidth, s.defaults.MaxWidth); err != nil {
		return settings, err
	}
	if settings.MaxHeight, err = s.GetInt(ctx, models.SettingImageMaxHeight, s.defaults.MaxHeight); err != nil {
		return settings, err
	}
	if settings.Quality, err = s.GetInt(ctx, models.SettingImageQuality, s.defaults.Quality); err != nil {
		return settings, err
	}

	return settings, nil
}

func (s *settingService) UpdateImageSettings(ctx context.Context, settings models.ImageSettings) error {
	if err := validateStruct(settings); err != nil {
		return err
	}

	values := []struct {
		key, value, description string
	}{
		{models.SettingImageMaxWidth, strconv.Itoa(settings.MaxWidth), "Максимальная ширина изображения"},
		{models.SettingImageMaxHeight, strconv.Itoa(settings.MaxHeight), "Максимальная высота изображения"},
		{models.SettingImageQuality, strconv.Itoa(settings.Quality), "Качество JPEG"},
	}

	for _, v := range values {
		description := v.description
		if err := s.Set(ctx, v.key, v.value, &description); err != nil {
			return err
		}
	}

	return nil
}
