package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"blogCMS/internal/models"
	"blogCMS/internal/render"
	"blogCMS/internal/repository"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) post(args mock.Arguments) (*models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) posts(args mock.Arguments) ([]*models.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostService) Create(ctx context.Context, actor *models.User, req models.CreatePostRequest) (*models.Post, error) {
	return m.post(m.Called(ctx, actor, req))
}

func (m *MockPostService) Update(ctx context.Context, actor *models.User, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	return m.post(m.Called(ctx, actor, postID, req))
}

func (m *MockPostService) Transition(ctx context.Context, actor *models.User, postID, status string) (*models.Post, error) {
	return m.post(m.Called(ctx, actor, postID, status))
}

func (m *MockPostService) Delete(ctx context.Context, actor *models.User, postID string) error {
	args := m.Called(ctx, actor, postID)
	return args.Error(0)
}

func (m *MockPostService) Get(ctx context.Context, postID string) (*models.Post, error) {
	return m.post(m.Called(ctx, postID))
}

func (m *MockPostService) GetPublishedBySlug(ctx context.Context, slug, postType string) (*models.Post, error) {
	return m.post(m.Called(ctx, slug, postType))
}

func (m *MockPostService) ListPublished(ctx context.Context, postType string, order repository.PostOrder) ([]*models.Post, error) {
	return m.posts(m.Called(ctx, postType, order))
}

func (m *MockPostService) ListFeatured(ctx context.Context, postType string) ([]*models.Post, error) {
	return m.posts(m.Called(ctx, postType))
}

func (m *MockPostService) GetVisible(ctx context.Context, actor *models.User, postID string) (*models.Post, error) {
	return m.post(m.Called(ctx, actor, postID))
}

func (m *MockPostService) ListByType(ctx context.Context, actor *models.User, postType string) ([]*models.Post, error) {
	return m.posts(m.Called(ctx, actor, postType))
}

func (m *MockPostService) SetTags(ctx context.Context, actor *models.User, postID, tags string) (*models.Post, error) {
	return m.post(m.Called(ctx, actor, postID, tags))
}

func (m *MockPostService) GetMeta(ctx context.Context, postID, key, defaultValue string) (string, error) {
	args := m.Called(ctx, postID, key, defaultValue)
	return args.String(0), args.Error(1)
}

func (m *MockPostService) SetMeta(ctx context.Context, actor *models.User, postID, key, value string) error {
	args := m.Called(ctx, actor, postID, key, value)
	return args.Error(0)
}

func (m *MockPostService) DeleteMeta(ctx context.Context, actor *models.User, postID, key string) error {
	args := m.Called(ctx, actor, postID, key)
	return args.Error(0)
}

func (m *MockPostService) GetAllMeta(ctx context.Context, postID string) (map[string]string, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockPostService) Render(ctx context.Context, post *models.Post) (render.Page, error) {
	args := m.Called(ctx, post)
	return args.Get(0).(render.Page), args.Error(1)
}

func (m *MockPostService) Preview(ctx context.Context, actor *models.User, postID string) (*models.Post, render.Page, error) {
	args := m.Called(ctx, actor, postID)
	if args.Get(0) == nil {
		return nil, render.Page{}, args.Error(2)
	}
	return args.Get(0).(*models.Post), args.Get(1).(render.Page), args.Error(2)
}

func (m *MockPostService) PublishScheduled(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockTaxonomyService struct {
	mock.Mock
}

func (m *MockTaxonomyService) CreateCategory(ctx context.Context, req models.TaxonomyRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockTaxonomyService) UpdateCategory(ctx context.Context, categoryID string, req models.TaxonomyRequest) (*models.Category, error) {
	args := m.Called(ctx, categoryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockTaxonomyService) DeleteCategory(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

func (m *MockTaxonomyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockTaxonomyService) CreateTag(ctx context.Context, req models.TaxonomyRequest) (*models.Tag, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTaxonomyService) UpdateTag(ctx context.Context, tagID string, req models.TaxonomyRequest) (*models.Tag, error) {
	args := m.Called(ctx, tagID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *MockTaxonomyService) DeleteTag(ctx context.Context, tagID string) error {
	args := m.Called(ctx, tagID)
	return args.Error(0)
}

func (m *MockTaxonomyService) ListTags(ctx context.Context) ([]models.Tag, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Tag), args.Error(1)
}

type MockSettingService struct {
	mock.Mock
}

func (m *MockSettingService) Get(ctx context.Context, key, defaultValue string) (string, error) {
	args := m.Called(ctx, key, defaultValue)
	return args.String(0), args.Error(1)
}

func (m *MockSettingService) GetInt(ctx context.Context, key string, defaultValue int) (int, error) {
	args := m.Called(ctx, key, defaultValue)
	return args.Int(0), args.Error(1)
}

func (m *MockSettingService) Set(ctx context.Context, key, value string, description *string) error {
	args := m.Called(ctx, key, value, description)
	return args.Error(0)
}

func (m *MockSettingService) List(ctx context.Context) ([]models.Setting, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Setting), args.Error(1)
}

func (m *MockSettingService) ImageSettings(ctx context.Context) (models.ImageSettings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.ImageSettings), args.Error(1)
}

func (m *MockSettingService) UpdateImageSettings(ctx context.Context, settings models.ImageSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

type MockPostTypeService struct {
	mock.Mock
}

func (m *MockPostTypeService) Register(ctx context.Context, postType models.PostType) (*models.PostType, error) {
	args := m.Called(ctx, postType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostType), args.Error(1)
}

func (m *MockPostTypeService) Get(ctx context.Context, name string) (*models.PostType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostType), args.Error(1)
}

func (m *MockPostTypeService) List(ctx context.Context) ([]models.PostType, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.PostType), args.Error(1)
}

func (m *MockPostTypeService) EnsureDefaults(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) LoginURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockAuthService) LoginWithGitHub(ctx context.Context, code string) (*models.User, string, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockAuthService) GenerateToken(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) GetUserFromToken(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.User), args.Error(1)
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) Upload(ctx context.Context, actor *models.User, postID *string, filename string, file io.Reader) (*models.Image, error) {
	args := m.Called(ctx, actor, postID, filename, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Image), args.Error(1)
}

func (m *MockMediaService) Delete(ctx context.Context, actor *models.User, imageID string) error {
	args := m.Called(ctx, actor, imageID)
	return args.Error(0)
}

func (m *MockMediaService) ListByPost(ctx context.Context, actor *models.User, postID string) ([]models.Image, error) {
	args := m.Called(ctx, actor, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Image), args.Error(1)
}

type MockTablesService struct {
	mock.Mock
}

func (m *MockTablesService) GetCountTablesDB(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTablesService) Stats(ctx context.Context) (*models.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}
