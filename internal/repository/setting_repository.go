package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laisky/errors/v2"

	"blogCMS/internal/models"
)

type SettingRepositoryImpl struct {
	db Queryer
}

func NewSettingRepository(db Queryer) *SettingRepositoryImpl {
	return &SettingRepositoryImpl{db: db}
}

func (r *SettingRepositoryImpl) Get(ctx context.Context, key string) (*models.Setting, error) {
	query := `SELECT key, value, description, updated_at FROM settings WHERE key = ?`

	var setting models.Setting
	err := r.db.GetContext(ctx, &setting, r.db.Rebind(query), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Настройка не найдена")
		}
		return nil, models.NewStorageError("Ошибка при получении настройки", err)
	}

	return &setting, nil
}

// Set upserts by key. A nil Description keeps the stored one.
func (r *SettingRepositoryImpl) Set(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value, description, updated_at)
		VALUES (:key, :value, :description, :updated_at)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			description = COALESCE(excluded.description, settings.description),
			updated_at = excluded.updated_at
	`

	if setting.UpdatedAt.IsZero() {
		setting.UpdatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return translateError(err,
			"Настройка '"+setting.Key+"' конфликтует с существующими данными",
			"Ошибка базы данных при сохранении настройки '"+setting.Key+"'")
	}

	return nil
}

func (r *SettingRepositoryImpl) List(ctx context.Context) ([]models.Setting, error) {
	query := `SELECT key, value, description, updated_at FROM settings ORDER BY key`

	settings := []models.Setting{}
	if err := r.db.SelectContext(ctx, &settings, query); err != nil {
		return nil, models.NewStorageError("Ошибка при получении настроек", err)
	}

	return settings, nil
}
