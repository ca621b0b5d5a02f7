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

type TagRepositoryImpl struct {
	db Queryer
}

func NewTagRepository(db Queryer) *TagRepositoryImpl {
	return &TagRepositoryImpl{db: db}
}

func (r *TagRepositoryImpl) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (tag_id, name, slug, created_at)
		VALUES (:tag_id, :name, :slug, :created_at)
	`

	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}

	if tag.CreatedAt.IsZero() {
		tag.CreatedAt = time.Now().UTC()
	}

	if _, err := r.db.NamedExecContext(ctx, query, tag); err != nil {
		return translateError(err, "Тег с таким именем уже существует", "Ошибка при создании тега")
	}

	return nil
}

func (r *TagRepositoryImpl) GetByID(ctx context.Context, tagID string) (*models.Tag, error) {
	query := `SELECT tag_id, name, slug, created_at FROM tags WHERE tag_id = ?`

	var tag models.Tag
	err := r.db.GetContext(ctx, &tag, r.db.Rebind(query), tagID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Тег не найден")
		}
		return nil, models.NewStorageError("Ошибка при получении тега", err)
	}

	return &tag, nil
}

// GetByNames resolves every existing tag among names with a single query.
func (r *TagRepositoryImpl) GetByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(names) == 0 {
		return tags, nil
	}

	query, args, err := sqlx.In(`SELECT tag_id, name, slug, created_at FROM tags WHERE name IN (?)`, names)
	if err != nil {
		return nil, models.NewStorageError("Ошибка при построении запроса тегов", err)
	}

	if err := r.db.SelectContext(ctx, &tags, r.db.Rebind(query), args...); err != nil {
		return nil, models.NewStorageError("Ошибка при получении тегов", err)
	}

	return tags, nil
}

func (r *TagRepositoryImpl) List(ctx context.Context) ([]models.Tag, error) {
	query := `SELECT tag_id, name, slug, created_at FROM tags ORDER BY name`

	tags := []models.Tag{}
	if err := r.db.SelectContext(ctx, &tags, query); err != nil {
		return nil, models.NewStorageError("Ошибка при получении тегов", err)
	}

	return tags, nil
}

func (r *TagRepositoryImpl) Update(ctx context.Context, tag *models.Tag) error {
	query := `UPDATE tags SET name = :name, slug = :slug WHERE tag_id = :tag_id`

	result, err := r.db.NamedExecContext(ctx, query, tag)
	if err != nil {
		return translateError(err, "Тег с таким именем уже существует", "Ошибка при обновлении тега")
	}

	return checkAffected(result, "Тег не найден")
}

func (r *TagRepositoryImpl) Delete(ctx context.Context, tagID string) error {
	query := `DELETE FROM tags WHERE tag_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), tagID)
	if err != nil {
		return models.NewStorageError("Ошибка при удалении тега", err)
	}

	return checkAffected(result, "Тег не найден")
}

func (r *TagRepositoryImpl) NameExists(ctx context.Context, name, excludeID string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT COUNT(*) FROM tags WHERE name = ? AND tag_id <> ?`, name, excludeID)
	if err != nil {
		return false, models.NewStorageError("Ошибка при проверке имени тега", err)
	}
	return found, nil
}

func (r *TagRepositoryImpl) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT COUNT(*) FROM tags WHERE slug = ? AND tag_id <> ?`, slug, excludeID)
	if err != nil {
		return false, models.NewStorageError("Ошибка при проверке слага тега", err)
	}
	return found, nil
}

func (r *TagRepositoryImpl) CountUsage(ctx context.Context, tagID string) (int, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM post_tags WHERE tag_id = ?`, tagID)
	if err != nil {
		return 0, models.NewStorageError("Ошибка при подсчете использования тега", err)
	}
	return n, nil
}

// SetPostTags replaces the post's tag set with tagIDs, keeping their order.
func (r *TagRepositoryImpl) SetPostTags(ctx context.Context, postID string, tagIDs []string) error {
	if err := r.DeleteByPost(ctx, postID); err != nil {
		return err
	}

	query := r.db.Rebind(`INSERT INTO post_tags (post_id, tag_id, position) VALUES (?, ?, ?)`)
	for i, tagID := range tagIDs {
		if _, err := r.db.ExecContext(ctx, query, postID, tagID, i); err != nil {
			return translateError(err, "Тег уже привязан к посту", "Ошибка при привязке тегов")
		}
	}

	return nil
}

func (r *TagRepositoryImpl) ListByPost(ctx context.Context, postID string) ([]models.Tag, error) {
	query := `
		SELECT t.tag_id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.post_id = ?
		ORDER BY pt.position
	`

	tags := []models.Tag{}
	if err := r.db.SelectContext(ctx, &tags, r.db.Rebind(query), postID); err != nil {
		return nil, models.NewStorageError("Ошибка при получении тегов поста", err)
	}

	return tags, nil
}

type postTagRow struct {
	PostID string `db:"post_id"`
	models.Tag
}

// ListByPosts loads the tags of several posts at once, keyed by post id.
func (r *TagRepositoryImpl) ListByPosts(ctx context.Context, postIDs []string) (map[string][]models.Tag, error) {
	result := make(map[string][]models.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`
		SELECT pt.post_id, t.tag_id, t.name, t.slug, t.created_at
		FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.tag_id
		WHERE pt.post_id IN (?)
		ORDER BY pt.post_id, pt.position
	`, postIDs)
	if err != nil {
		return nil, models.NewStorageError("Ошибка при построении запроса тегов", err)
	}

	var rows []postTagRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, models.NewStorageError("Ошибка при получении тегов постов", err)
	}

	for _, row := range rows {
		result[row.PostID] = append(result[row.PostID], row.Tag)
	}

	return result, nil
}

func (r *TagRepositoryImpl) DeleteByPost(ctx context.Context, postID string) error {
	query := `DELETE FROM post_tags WHERE post_id = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), postID); err != nil {
		return models.NewStorageError("Ошибка при отвязке тегов", err)
	}

	return nil
}
