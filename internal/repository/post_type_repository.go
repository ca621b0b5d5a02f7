package repository

import (
	"context"
	"database/sql"

	"github.com/Laisky/errors/v2"

	"blogCMS/internal/models"
)

const postTypeColumns = `name, label, singular_label, description, hierarchical, has_archive,
	supports_categories, supports_tags, supports_excerpt, supports_featured_image,
	menu_icon, menu_position, public`

type PostTypeRepositoryImpl struct {
	db Queryer
}

func NewPostTypeRepository(db Queryer) *PostTypeRepositoryImpl {
	return &PostTypeRepositoryImpl{db: db}
}

func (r *PostTypeRepositoryImpl) Upsert(ctx context.Context, postType *models.PostType) error {
	query := `
		INSERT INTO post_types (` + postTypeColumns + `)
		VALUES (:name, :label, :singular_label, :description, :hierarchical, :has_archive,
			:supports_categories, :supports_tags, :supports_excerpt, :supports_featured_image,
			:menu_icon, :menu_position, :public)
		ON CONFLICT (name) DO UPDATE SET
			label = excluded.label,
			singular_label = excluded.singular_label,
			description = excluded.description,
			hierarchical = excluded.hierarchical,
			has_archive = excluded.has_archive,
			supports_categories = excluded.supports_categories,
			supports_tags = excluded.supports_tags,
			supports_excerpt = excluded.supports_excerpt,
			supports_featured_image = excluded.supports_featured_image,
			menu_icon = excluded.menu_icon,
			menu_position = excluded.menu_position,
			public = excluded.public
	`

	if _, err := r.db.NamedExecContext(ctx, query, postType); err != nil {
		return translateError(err, "Тип записи уже существует", "Ошибка при сохранении типа записи")
	}

	return nil
}

func (r *PostTypeRepositoryImpl) Get(ctx context.Context, name string) (*models.PostType, error) {
	query := `SELECT ` + postTypeColumns + ` FROM post_types WHERE name = ?`

	var postType models.PostType
	err := r.db.GetContext(ctx, &postType, r.db.Rebind(query), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Тип записи не найден")
		}
		return nil, models.NewStorageError("Ошибка при получении типа записи", err)
	}

	return &postType, nil
}

func (r *PostTypeRepositoryImpl) List(ctx context.Context) ([]models.PostType, error) {
	query := `SELECT ` + postTypeColumns + ` FROM post_types ORDER BY menu_position, name`

	postTypes := []models.PostType{}
	if err := r.db.SelectContext(ctx, &postTypes, query); err != nil {
		return nil, models.NewStorageError("Ошибка при получении типов записей", err)
	}

	return postTypes, nil
}
