package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	"blogCMS/internal/models"
)

const postColumns = `post_id, title, slug, content, excerpt, author, post_type, post_status,
	post_parent, featured, scheduled, category_id, user_id, created_at, updated_at, published_at`

type PostOrder int

const (
	OrderPublished PostOrder = iota
	OrderCreated
)

type PostRepositoryImpl struct {
	db Queryer
}

func NewPostRepository(db Queryer) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts
		(post_id, title, slug, content, excerpt, author, post_type, post_status,
		 post_parent, featured, scheduled, category_id, user_id, created_at, updated_at, published_at)
		VALUES
		(:post_id, :title, :slug, :content, :excerpt, :author, :post_type, :post_status,
		 :post_parent, :featured, :scheduled, :category_id, :user_id, :created_at, :updated_at, :published_at)
	`

	if post.ID == "" {
		post.ID = uuid.New().String()
	}

	if post.CreatedAt.IsZero() {
		now := time.Now().UTC()
		post.CreatedAt = now
		post.UpdatedAt = now
	}

	if _, err := r.db.NamedExecContext(ctx, query, post); err != nil {
		return translateError(err, "Пост с таким слагом уже существует", "Ошибка при создании поста")
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = ?`

	var post models.Post
	err := r.db.GetContext(ctx, &post, r.db.Rebind(query), postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Пост не найден")
		}
		return nil, models.NewStorageError("Ошибка при получении поста", err)
	}

	return &post, nil
}

// GetPublishedBySlug finds a published post. An empty postType matches any type.
func (r *PostRepositoryImpl) GetPublishedBySlug(ctx context.Context, slug, postType string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE slug = ? AND post_status = ?`
	args := []interface{}{slug, models.StatusPublish}

	if postType != "" {
		query += ` AND post_type = ?`
		args = append(args, postType)
	}

	var post models.Post
	err := r.db.GetContext(ctx, &post, r.db.Rebind(query), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.NewNotFoundError("Пост не найден")
		}
		return nil, models.NewStorageError("Ошибка при получении поста", err)
	}

	return &post, nil
}

// ListPublished lists published posts of postType (any type when empty) in the given order.
func (r *PostRepositoryImpl) ListPublished(ctx context.Context, postType string, order PostOrder) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_status = ?`
	args := []interface{}{models.StatusPublish}

	if postType != "" {
		query += ` AND post_type = ?`
		args = append(args, postType)
	}

	if order == OrderCreated {
		query += ` ORDER BY created_at DESC`
	} else {
		query += ` ORDER BY published_at DESC, created_at DESC`
	}

	return r.list(ctx, query, args...)
}

func (r *PostRepositoryImpl) ListFeatured(ctx context.Context, postType string, limit int) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + ` FROM posts
		WHERE post_type = ? AND post_status = ? AND featured = ?
		ORDER BY published_at DESC, created_at DESC
		LIMIT ?
	`

	return r.list(ctx, query, postType, models.StatusPublish, true, limit)
}

// ListByType returns posts of every status, newest first. An empty postType lists all posts.
func (r *PostRepositoryImpl) ListByType(ctx context.Context, postType string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []interface{}

	if postType != "" {
		query += ` WHERE post_type = ?`
		args = append(args, postType)
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, query, args...)
}

// ListVisible is ListByType restricted to published posts and the posts owned by userID.
func (r *PostRepositoryImpl) ListVisible(ctx context.Context, postType, userID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE (post_status = ? OR user_id = ?)`
	args := []interface{}{models.StatusPublish, userID}

	if postType != "" {
		query += ` AND post_type = ?`
		args = append(args, postType)
	}
	query += ` ORDER BY created_at DESC`

	return r.list(ctx, query, args...)
}

func (r *PostRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]*models.Post, error) {
	posts := []*models.Post{}
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...); err != nil {
		return nil, models.NewStorageError("Ошибка при получении постов", err)
	}
	return posts, nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = :title,
			slug = :slug,
			content = :content,
			excerpt = :excerpt,
			author = :author,
			post_status = :post_status,
			post_parent = :post_parent,
			featured = :featured,
			scheduled = :scheduled,
			category_id = :category_id,
			updated_at = :updated_at,
			published_at = :published_at
		WHERE post_id = :post_id
	`

	if post.UpdatedAt.IsZero() {
		post.UpdatedAt = time.Now().UTC()
	}

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return translateError(err, "Пост с таким слагом уже существует", "Ошибка при обновлении поста")
	}

	return checkAffected(result, "Пост не найден")
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = ?`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), postID)
	if err != nil {
		return models.NewStorageError("Ошибка при удалении поста", err)
	}

	return checkAffected(result, "Пост не найден")
}

func (r *PostRepositoryImpl) DetachChildren(ctx context.Context, parentID string) error {
	query := `UPDATE posts SET post_parent = NULL WHERE post_parent = ?`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), parentID); err != nil {
		return models.NewStorageError("Ошибка при отвязке дочерних постов", err)
	}

	return nil
}

func (r *PostRepositoryImpl) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT COUNT(*) FROM posts WHERE slug = ? AND post_id <> ?`, slug, excludeID)
	if err != nil {
		return false, models.NewStorageError("Ошибка при проверке слага", err)
	}
	return found, nil
}

func (r *PostRepositoryImpl) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM posts WHERE category_id = ?`, categoryID)
	if err != nil {
		return 0, models.NewStorageError("Ошибка при подсчете постов категории", err)
	}
	return n, nil
}

func (r *PostRepositoryImpl) Count(ctx context.Context) (int, error) {
	n, err := count(ctx, r.db, `SELECT COUNT(*) FROM posts`)
	if err != nil {
		return 0, models.NewStorageError("Ошибка при подсчете постов", err)
	}
	return n, nil
}

// PublishDue flips every scheduled draft of postType whose time has come in one statement.
// Drafts that were published before and taken down are not scheduled.
func (r *PostRepositoryImpl) PublishDue(ctx context.Context, postType string, now time.Time) (int64, error) {
	query := `
		UPDATE posts SET
			post_status = ?,
			scheduled = ?,
			updated_at = ?
		WHERE post_type = ?
			AND post_status = ?
			AND scheduled = ?
			AND published_at IS NOT NULL
			AND published_at <= ?
	`

	result, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		models.StatusPublish, false, now, postType, models.StatusDraft, true, now)
	if err != nil {
		return 0, models.NewStorageError("Ошибка при публикации отложенных постов", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, models.NewStorageError("Ошибка при проверке обновленных строк", err)
	}

	return rowsAffected, nil
}
