package repository

import (
	"context"
	"database/sql"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"blogCMS/internal/models"
)

type MetaRepositoryImpl struct {
	db Queryer
}

func NewMetaRepository(db Queryer) *MetaRepositoryImpl {
	return &MetaRepositoryImpl{db: db}
}

func (r *MetaRepositoryImpl) Get(ctx context.Context, postID, key string) (*models.PostMeta, error) {
	query := `SELECT meta_id, post_id, meta_key, meta_value FROM post_meta WHERE post_id = ? AND meta_key = ?`

	var meta models.PostMeta
	err := r.db.GetContext(ctx, &meta, r.db.Rebind(query), postID, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Метаданные не найдены")
		}
		return nil, models.NewStorageError("Ошибка при получении метаданных", err)
	}

	return &meta, nil
}

// Set overwrites the value stored under key, inserting the row on first use.
func (r *MetaRepositoryImpl) Set(ctx context.Context, postID, key, value string) error {
	existing, err := r.Get(ctx, postID, key)
	if err != nil && !models.IsNotFound(err) {
		return err
	}

	if existing != nil {
		query := `UPDATE post_meta SET meta_value = ? WHERE meta_id = ?`
		if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), value, existing.MetaID); err != nil {
			return models.NewStorageError("Ошибка при обновлении метаданных", err)
		}
		return nil
	}

	meta := models.PostMeta{
		MetaID:    uuid.New().String(),
		PostID:    postID,
		MetaKey:   key,
		MetaValue: value,
	}

	query := `
		INSERT INTO post_meta (meta_id, post_id, meta_key, meta_value)
		VALUES (:meta_id, :post_id, :meta_key, :meta_value)
	`

	if _, err := r.db.NamedExecContext(ctx, query, meta); err != nil {
		return translateError(err, "Метаданные с таким ключом уже существуют", "Ошибка при сохранении метаданных")
	}

	return nil
}

func (r *MetaRepositoryImpl) Delete(ctx context.Context, postID, key string) error {
	query := `DELETE FROM post_meta WHERE post_id = ? AND meta_key = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), postID, key)
	if err != nil {
		return models.NewStorageError("Ошибка при удалении метаданных", err)
	}

	return checkAffected(result, "Метаданные не найдены")
}

func (r *MetaRepositoryImpl) ListByPost(ctx context.Context, postID string) ([]models.PostMeta, error) {
	query := `SELECT meta_id, post_id, meta_key, meta_value FROM post_meta WHERE post_id = ? ORDER BY meta_key`

	metas := []models.PostMeta{}
	if err := r.db.SelectContext(ctx, &metas, r.db.Rebind(query), postID); err != nil {
		return nil, models.NewStorageError("Ошибка при получении метаданных", err)
	}

	return metas, nil
}

func (r *MetaRepositoryImpl) DeleteByPost(ctx context.Context, postID string) error {
	query := `DELETE FROM post_meta WHERE post_id = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), postID); err != nil {
		return models.NewStorageError("Ошибка при удалении метаданных поста", err)
	}

	return nil
}
