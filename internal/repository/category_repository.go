package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"blogCMS/internal/models"
)

type CategoryRepositoryImpl struct {
	db Queryer
}

func NewCategoryRepository(db Queryer) *CategoryRepositoryImpl {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (category_id, name, slug, created_at)
		VALUES (:category_id, :name, :slug, :created_at)
	`

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, category); err != nil {
		return translateError(err, "Категория с таким именем уже существует", "Ошибка при создании категории")
	}

	return nil
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	query := `SELECT category_id, name, slug, created_at FROM categories WHERE category_id = ?`

	var category models.Category
	err := r.db.GetContext(ctx, &category, r.db.Rebind(query), categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Категория не найдена")
		}
		return nil, models.NewStorageError("Ошибка при получении категории", err)
	}

	return &category, nil
}

func (r *CategoryRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]*models.Category, error) {
	result := make(map[string]*models.Category, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT category_id, name, slug, created_at FROM categories WHERE category_id IN (?)`, ids)
	if err != nil {
		return nil, models.NewStorageError("Ошибка при построении запроса категорий", err)
	}

	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, r.db.Rebind(query), args...); err != nil {
		return nil, models.NewStorageError("Ошибка при получении категорий", err)
	}

	for i := range categories {
		result[categories[i].ID] = &categories[i]
	}

	return result, nil
}

func (r *CategoryRepositoryImpl) List(ctx context.Context) ([]models.Category, error) {
	query := `SELECT category_id, name, slug, created_at FROM categories ORDER BY name`

	categories := []models.Category{}
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, models.NewStorageError("Ошибка при получении категорий", err)
	}

	return categories, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) error {
	query := `UPDATE categories SET name = :name, slug = :slug WHERE category_id = :category_id`

	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		return translateError(err, "Категория с таким именем уже существует", "Ошибка при обновлении категории")
	}

	return checkAffected(result, "Категория не найдена")
}

func (r *CategoryRepositoryImpl) Delete(ctx context.Context, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), categoryID)
	if err != nil {
		return models.NewStorageError("Ошибка при удалении категории", err)
	}

	return checkAffected(result, "Категория не найдена")
}

func (r *CategoryRepositoryImpl) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT COUNT(*) FROM categories WHERE name = ? AND category_id <> ?`, name, excludeID)
	if err != nil {
		return false, models.NewStorageError("Ошибка при проверке имени категории", err)
	}
	return found, nil
}

func (r *CategoryRepositoryImpl) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT COUNT(*) FROM categories WHERE slug = ? AND category_id <> ?`, slug, excludeID)
	if err != nil {
		return false, models.NewStorageError("Ошибка при проверке слага категории", err)
	}
	return found, nil
}
