package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"blogCMS/internal/models"
)

const imageColumns = `image_id, post_id, user_id, object_name, image_url, created_at`

type ImageRepositoryImpl struct {
	db Queryer
}

func NewImageRepository(db Queryer) *ImageRepositoryImpl {
	return &ImageRepositoryImpl{db: db}
}

func (r *ImageRepositoryImpl) Create(ctx context.Context, image *models.Image) error {
	query := `
		INSERT INTO images (image_id, post_id, user_id, object_name, image_url, created_at)
		VALUES (:image_id, :post_id, :user_id, :object_name, :image_url, :created_at)
	`

	if image.ImageID == "" {
		image.ImageID = uuid.New().String()
	}

	if image.CreatedAt.IsZero() {
		image.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, image); err != nil {
		return models.NewStorageError("Ошибка при создании изображения", err)
	}

	return nil
}

func (r *ImageRepositoryImpl) GetByID(ctx context.Context, imageID string) (*models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE image_id = ?`

	var image models.Image
	err := r.db.GetContext(ctx, &image, r.db.Rebind(query), imageID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Изображение не найдено")
		}
		return nil, models.NewStorageError("Ошибка получения изображения", err)
	}

	return &image, nil
}

func (r *ImageRepositoryImpl) ListByPost(ctx context.Context, postID string) ([]models.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE post_id = ? ORDER BY created_at`

	images := []models.Image{}
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), postID); err != nil {
		return nil, models.NewStorageError("Ошибка при получении изображений", err)
	}

	return images, nil
}

func (r *ImageRepositoryImpl) Delete(ctx context.Context, imageID string) error {
	query := `DELETE FROM images WHERE image_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), imageID)
	if err != nil {
		return models.NewStorageError("Ошибка при удалении изображения", err)
	}

	return checkAffected(result, "Изображение не найдено")
}

// DetachPost keeps the uploaded files but forgets the post they belonged to.
func (r *ImageRepositoryImpl) DetachPost(ctx context.Context, postID string) error {
	query := `UPDATE images SET post_id = NULL WHERE post_id = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), postID); err != nil {
		return models.NewStorageError("Ошибка при отвязке изображений поста", err)
	}

	return nil
}
