package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

var testImageDefaults = config.Image{MaxWidth: 1920, MaxHeight: 1920, Quality: 85}

func TestSettingService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewSettingService(env.repo.Setting, testImageDefaults, zerolog.Nop())

	t.Run("Значение по умолчанию", func(t *testing.T) {
		value, err := svc.Get(ctx, "site_title", "My Blog")
		require.NoError(t, err)
		assert.Equal(t, "My Blog", value)
	})

	t.Run("Сохранение и описание", func(t *testing.T) {
		description := "Заголовок сайта"
		require.NoError(t, svc.Set(ctx, "site_title", "CMS", &description))
		require.NoError(t, svc.Set(ctx, "site_title", "CMS 2", nil))

		value, err := svc.Get(ctx, "site_title", "")
		require.NoError(t, err)
		assert.Equal(t, "CMS 2", value)

		stored, err := env.repo.Setting.Get(ctx, "site_title")
		require.NoError(t, err)
		require.NotNil(t, stored.Description)
		assert.Equal(t, description, *stored.Description)
	})

	t.Run("Пустой ключ", func(t *testing.T) {
		err := svc.Set(ctx, "  ", "v", nil)
		assert.Equal(t, models.KindValidation, models.KindOf(err))
	})

	t.Run("Некорректное число", func(t *testing.T) {
		require.NoError(t, svc.Set(ctx, "posts_per_page", "ten", nil))

		value, err := svc.GetInt(ctx, "posts_per_page", 10)
		require.NoError(t, err)
		assert.Equal(t, 10, value)
	})

	t.Run("Настройки изображений", func(t *testing.T) {
		defaults, err := svc.ImageSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ImageSettings{MaxWidth: 1920, MaxHeight: 1920, Quality: 85}, defaults)

		require.NoError(t, svc.UpdateImageSettings(ctx, models.ImageSettings{MaxWidth: 800, MaxHeight: 600, Quality: 70}))

		updated, err := svc.ImageSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.ImageSettings{MaxWidth: 800, MaxHeight: 600, Quality: 70}, updated)
	})

	t.Run("Настройки изображений вне диапазона", func(t *testing.T) {
		invalid := []models.ImageSettings{
			{MaxWidth: 50, MaxHeight: 600, Quality: 70},
			{MaxWidth: 800, MaxHeight: 5000, Quality: 70},
			{MaxWidth: 800, MaxHeight: 600, Quality: 0},
		}
		for _, settings := range invalid {
			err := svc.UpdateImageSettings(ctx, settings)
			assert.Equal(t, models.KindValidation, models.KindOf(err))
		}
	})
}

func TestSettingService_StorageError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewSettingRepository(sqlx.NewDb(db, "sqlmock"))
	svc := NewSettingService(repo, testImageDefaults, zerolog.Nop())

	mock.ExpectQuery("SELECT key, value, description, updated_at FROM settings").
		WillReturnError(assert.AnError)

	_, err = svc.Get(context.Background(), "site_title", "default")
	require.Error(t, err)
	assert.Equal(t, models.KindStorage, models.KindOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
