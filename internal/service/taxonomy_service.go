package service

import (
	"context"
	"strings"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
	"blogCMS/internal/slug"
)

type TaxonomyService interface {
	CreateCategory(ctx context.Context, req models.TaxonomyRequest) (*models.Category, error)
	UpdateCategory(ctx context.Context, categoryID string, req models.TaxonomyRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	ListCategories(ctx context.Context) ([]models.Category, error)

	CreateTag(ctx context.Context, req models.TaxonomyRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, tagID string, req models.TaxonomyRequest) (*models.Tag, error)
	DeleteTag(ctx context.Context, tagID string) error
	ListTags(ctx context.Context) ([]models.Tag, error)
}

type taxonomyService struct {
	repo *repository.Repository
}

func NewTaxonomyService(repo *repository.Repository) TaxonomyService {
	return &taxonomyService{repo: repo}
}

// labelStore is what categories and tags have in common for name and slug checks.
type labelStore interface {
	NameExists(ctx context.Context, name, excludeID string) (bool, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
}

// prepareLabel validates the name and allocates a slug unique within store.
// Names are compared exactly, so "Go" and "go" are different labels.
func prepareLabel(ctx context.Context, store labelStore, req models.TaxonomyRequest, excludeID, conflictMsg string) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", "", models.NewValidationError("Название не может быть пустым")
	}

	taken, err := store.NameExists(ctx, name, excludeID)
	if err != nil {
		return "", "", err
	}
	if taken {
		return "", "", models.NewConflictError(conflictMsg, nil)
	}

	source := strings.TrimSpace(req.Slug)
	if source == "" {
		source = name
	}

	labelSlug, err := slug.EnsureUnique(ctx, slug.Slugify(source), func(ctx context.Context, candidate string) (bool, error) {
		return store.SlugExists(ctx, candidate, excludeID)
	})
	if err != nil {
		return "", "", err
	}

	return name, labelSlug, nil
}

func (s *taxonomyService) CreateCategory(ctx context.Context, req models.TaxonomyRequest) (*models.Category, error) {
	var category *models.Category

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		name, categorySlug, err := prepareLabel(ctx, tx.Category, req, "", "Категория с таким именем уже существует")
		if err != nil {
			return err
		}

		category = &models.Category{Name: name, Slug: categorySlug, CreatedAt: utcNow()}
		return tx.Category.Create(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (s *taxonomyService) UpdateCategory(ctx context.Context, categoryID string, req models.TaxonomyRequest) (*models.Category, error) {
	var category *models.Category

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		if category, err = tx.Category.GetByID(ctx, categoryID); err != nil {
			return err
		}

		if req.Slug == "" {
			req.Slug = category.Slug
		}

		if category.Name, category.Slug, err = prepareLabel(ctx, tx.Category, req, categoryID, "Категория с таким именем уже существует"); err != nil {
			return err
		}

		return tx.Category.Update(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory refuses to remove a category that any post still references.
func (s *taxonomyService) DeleteCategory(ctx context.Context, categoryID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Category.GetByID(ctx, categoryID); err != nil {
			return err
		}

		used, err := tx.Post.CountByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		if used > 0 {
			return models.NewInUseError("Нельзя удалить категорию, которая используется в постах.")
		}

		return tx.Category.Delete(ctx, categoryID)
	})
}

func (s *taxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Category.List(ctx)
}

func (s *taxonomyService) CreateTag(ctx context.Context, req models.TaxonomyRequest) (*models.Tag, error) {
	var tag *models.Tag

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		name, tagSlug, err := prepareLabel(ctx, tx.Tag, req, "", "Тег с таким именем уже существует")
		if err != nil {
			return err
		}

		tag = &models.Tag{Name: name, Slug: tagSlug, CreatedAt: utcNow()}
		return tx.Tag.Create(ctx, tag)
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

func (s *taxonomyService) UpdateTag(ctx context.Context, tagID string, req models.TaxonomyRequest) (*models.Tag, error) {
	var tag *models.Tag

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		var err error
		if tag, err = tx.Tag.GetByID(ctx, tagID); err != nil {
			return err
		}

		if req.Slug == "" {
			req.Slug = tag.Slug
		}

		if tag.Name, tag.Slug, err = prepareLabel(ctx, tx.Tag, req, tagID, "Тег с таким именем уже существует"); err != nil {
			return err
		}

		return tx.Tag.Update(ctx, tag)
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// DeleteTag refuses to remove a tag that is attached to any post.
func (s *taxonomyService) DeleteTag(ctx context.Context, tagID string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Tag.GetByID(ctx, tagID); err != nil {
			return err
		}

		used, err := tx.Tag.CountUsage(ctx, tagID)
		if err != nil {
			return err
		}
		if used > 0 {
			return models.NewInUseError("Нельзя удалить тег, который используется в постах.")
		}

		return tx.Tag.Delete(ctx, tagID)
	})
}

func (s *taxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.Tag.List(ctx)
}
