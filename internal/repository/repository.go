package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"blogCMS/internal/models"
)

// Queryer is implemented by both *sqlx.DB and *sqlx.Tx.
type Queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug, postType string) (*models.Post, error)
	ListPublished(ctx context.Context, postType string, order PostOrder) ([]*models.Post, error)
	ListFeatured(ctx context.Context, postType string, limit int) ([]*models.Post, error)
	ListByType(ctx context.Context, postType string) ([]*models.Post, error)
	ListVisible(ctx context.Context, postType, userID string) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, postID string) error
	DetachChildren(ctx context.Context, parentID string) error
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
	Count(ctx context.Context) (int, error)
	PublishDue(ctx context.Context, postType string, now time.Time) (int64, error)
}

type MetaRepository interface {
	Get(ctx context.Context, postID, key string) (*models.PostMeta, error)
	Set(ctx context.Context, postID, key, value string) error
	Delete(ctx context.Context, postID, key string) error
	ListByPost(ctx context.Context, postID string) ([]models.PostMeta, error)
	DeleteByPost(ctx context.Context, postID string) error
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID string) error
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

type TagRepository interface {
	Create(ctx context.Context, tag *models.Tag) error
	GetByID(ctx context.Context, tagID string) (*models.Tag, error)
	GetByNames(ctx context.Context, names []string) ([]models.Tag, error)
	List(ctx context.Context) ([]models.Tag, error)
	Update(ctx context.Context, tag *models.Tag) error
	Delete(ctx context.Context, tagID string) error
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CountUsage(ctx context.Context, tagID string) (int, error)
	SetPostTags(ctx context.Context, postID string, tagIDs []string) error
	ListByPost(ctx context.Context, postID string) ([]models.Tag, error)
	ListByPosts(ctx context.Context, postIDs []string) (map[string][]models.Tag, error)
	DeleteByPost(ctx context.Context, postID string) error
}

type PostTypeRepository interface {
	Upsert(ctx context.Context, postType *models.PostType) error
	Get(ctx context.Context, name string) (*models.PostType, error)
	List(ctx context.Context) ([]models.PostType, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.Setting, error)
	Set(ctx context.Context, setting *models.Setting) error
	List(ctx context.Context) ([]models.Setting, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByGitHubID(ctx context.Context, githubID string) (*models.User, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByID(ctx context.Context, imageID string) (*models.Image, error)
	ListByPost(ctx context.Context, postID string) ([]models.Image, error)
	Delete(ctx context.Context, imageID string) error
	DetachPost(ctx context.Context, postID string) error
}

type TablesRepository interface {
	CountTablesDB(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// Repository groups every store bound to the same database handle.
type Repository struct {
	db *sqlx.DB

	Post     PostRepository
	Meta     MetaRepository
	Category CategoryRepository
	Tag      TagRepository
	PostType PostTypeRepository
	Setting  SettingRepository
	User     UserRepository
	Image    ImageRepository
	Tables   TablesRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	repo := newRepository(db)
	repo.db = db
	return repo
}

func newRepository(q Queryer) *Repository {
	return &Repository{
		Post:     NewPostRepository(q),
		Meta:     NewMetaRepository(q),
		Category: NewCategoryRepository(q),
		Tag:      NewTagRepository(q),
		PostType: NewPostTypeRepository(q),
		Setting:  NewSettingRepository(q),
		User:     NewUserRepository(q),
		Image:    NewImageRepository(q),
		Tables:   NewTablesRepository(q),
	}
}

// Transaction runs fn with repositories bound to one transaction and commits
// only if fn succeeds. Nested calls reuse the outer transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.NewStorageError("Ошибка базы данных", err)
	}

	if err := fn(newRepository(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateError(err, "Данные уже изменены другим запросом", "Ошибка при сохранении изменений")
	}

	return nil
}
