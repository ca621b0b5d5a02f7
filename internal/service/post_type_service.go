package service

import (
	"context"
	"strings"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type PostTypeService interface {
	Register(ctx context.Context, postType models.PostType) (*models.PostType, error)
	Get(ctx context.Context, name string) (*models.PostType, error)
	List(ctx context.Context) ([]models.PostType, error)
	EnsureDefaults(ctx context.Context) error
}

type postTypeService struct {
	postTypeRepo repository.PostTypeRepository
}

func NewPostTypeService(postTypeRepo repository.PostTypeRepository) PostTypeService {
	return &postTypeService{postTypeRepo: postTypeRepo}
}

// DefaultPostTypes are the built-in content types.
func DefaultPostTypes() []models.PostType {
	return []models.PostType{
		{
			Name:                  models.TypePost,
			Label:                 "Posts",
			SingularLabel:         "Post",
			Description:           "Blog posts",
			HasArchive:            true,
			SupportsCategories:    true,
			SupportsTags:          true,
			SupportsExcerpt:       true,
			SupportsFeaturedImage: true,
			MenuIcon:              "bi-file-text",
			MenuPosition:          5,
			Public:                true,
		},
		{
			Name:            models.TypePage,
			Label:           "Pages",
			SingularLabel:   "Page",
			Description:     "Static pages",
			Hierarchical:    true,
			SupportsExcerpt: true,
			MenuIcon:        "bi-file-earmark",
			MenuPosition:    20,
			Public:          true,
		},
		{
			Name:                  models.TypeProject,
			Label:                 "Projects",
			SingularLabel:         "Project",
			Description:           "Portfolio projects",
			HasArchive:            true,
			SupportsTags:          true,
			SupportsExcerpt:       true,
			SupportsFeaturedImage: true,
			MenuIcon:              "bi-briefcase",
			MenuPosition:          25,
			Public:                true,
		},
	}
}

// Register creates the post type or replaces its definition.
func (s *postTypeService) Register(ctx context.Context, postType models.PostType) (*models.PostType, error) {
	postType.Name = strings.TrimSpace(postType.Name)
	if err := validateStruct(postType); err != nil {
		return nil, err
	}

	if err := s.postTypeRepo.Upsert(ctx, &postType); err != nil {
		return nil, err
	}

	return &postType, nil
}

func (s *postTypeService) Get(ctx context.Context, name string) (*models.PostType, error) {
	return s.postTypeRepo.Get(ctx, name)
}

func (s *postTypeService) List(ctx context.Context) ([]models.PostType, error) {
	return s.postTypeRepo.List(ctx)
}

// EnsureDefaults registers the built-in types that are missing. Existing
// definitions are left as they are.
func (s *postTypeService) EnsureDefaults(ctx context.Context) error {
	for _, postType := range DefaultPostTypes() {
		_, err := s.postTypeRepo.Get(ctx, postType.Name)
		if err == nil {
			continue
		}
		if !models.IsNotFound(err) {
			return err
		}

		if _, err := s.Register(ctx, postType); err != nil {
			return err
		}
	}
	return nil
}
