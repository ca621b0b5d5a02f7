package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/models"
)

func TestTaxonomyHandlers(t *testing.T) {
	s := newTestServer(t)

	s.taxonomy.On("CreateCategory", mock.Anything, models.TaxonomyRequest{Name: "Go"}).
		Return(&models.Category{ID: "c1", Name: "Go", Slug: "go"}, nil)
	s.taxonomy.On("CreateTag", mock.Anything, models.TaxonomyRequest{Name: "python"}).
		Return(nil, models.NewConflictError("Тег с таким названием уже существует", nil))
	s.taxonomy.On("DeleteCategory", mock.Anything, "c1").
		Return(models.NewInUseError("Нельзя удалить категорию, которая используется в постах."))
	s.taxonomy.On("UpdateTag", mock.Anything, "t1", models.TaxonomyRequest{Name: "C++", Slug: "cpp"}).
		Return(&models.Tag{ID: "t1", Name: "C++", Slug: "cpp"}, nil)
	s.taxonomy.On("ListTags", mock.Anything).Return([]models.Tag{}, nil)

	t.Run("Создание категории", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/admin/categories", map[string]string{"name": "Go"}, adminToken)
		require.Equal(t, http.StatusCreated, rr.Code)

		var category models.Category
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &category))
		assert.Equal(t, "go", category.Slug)
	})

	t.Run("Пустое название", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/admin/categories", map[string]string{"name": ""}, adminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Повторяющийся тег", func(t *testing.T) {
		rr := s.do(http.MethodPost, "/api/admin/tags", map[string]string{"name": "python"}, adminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Тег с таким названием уже существует", decodeError(t, rr))
	})

	t.Run("Удаление используемой категории", func(t *testing.T) {
		rr := s.do(http.MethodDelete, "/api/admin/categories/c1", nil, adminToken)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Нельзя удалить категорию, которая используется в постах.", decodeError(t, rr))
	})

	t.Run("Переименование тега", func(t *testing.T) {
		rr := s.do(http.MethodPut, "/api/admin/tags/t1", map[string]string{"name": "C++", "slug": "cpp"}, adminToken)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Пустой список тегов", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/api/admin/tags", nil, adminToken)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `[]`, rr.Body.String())
	})
}

func TestSettingHandlers(t *testing.T) {
	s := newTestServer(t)

	current := models.ImageSettings{MaxWidth: 1920, MaxHeight: 1080, Quality: 85}
	updated := models.ImageSettings{MaxWidth: 800, MaxHeight: 600, Quality: 70}
	description := "Название сайта"

	s.settings.On("ImageSettings", mock.Anything).Return(current, nil)
	s.settings.On("UpdateImageSettings", mock.Anything, updated).Return(nil)
	s.settings.On("Set", mock.Anything, "site_title", "Мой блог", &description).Return(nil)
	s.settings.On("List", mock.Anything).Return([]models.Setting{{Key: "site_title", Value: "Мой блог"}}, nil)

	rr := s.do(http.MethodGet, "/api/admin/settings/image", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"maxWidth":1920,"maxHeight":1080,"quality":85}`, rr.Body.String())

	rr = s.do(http.MethodPut, "/api/admin/settings/image", updated, adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodPut, "/api/admin/settings/image", models.ImageSettings{MaxWidth: 10, MaxHeight: 600, Quality: 70}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Некорректное значение поля MaxWidth", decodeError(t, rr))

	rr = s.do(http.MethodPut, "/api/admin/settings/site_title", map[string]string{"value": "Мой блог", "description": description}, adminToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodGet, "/api/admin/settings", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "site_title")

	rr = s.do(http.MethodGet, "/api/admin/settings", nil, authorToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestPostTypeHandlers(t *testing.T) {
	s := newTestServer(t)

	event := models.PostType{Name: "event", Label: "Events", SingularLabel: "Event", HasArchive: true}
	s.postTypes.On("Register", mock.Anything, event).Return(&event, nil)
	s.postTypes.On("List", mock.Anything).Return([]models.PostType{{Name: "post"}, {Name: "page"}}, nil)

	rr := s.do(http.MethodPost, "/api/admin/post-types", event, adminToken)
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = s.do(http.MethodPost, "/api/admin/post-types", models.PostType{Name: "bad"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodGet, "/api/admin/post-types", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var types []models.PostType
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &types))
	assert.Len(t, types, 2)
}

func multipartImage(t *testing.T, filename string, data []byte, postID string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)

	if postID != "" {
		require.NoError(t, writer.WriteField("postId", postID))
	}
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestUploadImageHandler(t *testing.T) {
	tests := []struct {
		name           string
		filename       string
		size           int
		postID         string
		mockSetup      func(m *MockMediaService)
		expectedStatus int
	}{
		{
			name:     "Успешная загрузка",
			filename: "photo.png",
			size:     128,
			postID:   "p1",
			mockSetup: func(m *MockMediaService) {
				m.On("Upload", mock.Anything, authorUser, mock.MatchedBy(func(id *string) bool {
					return id != nil && *id == "p1"
				}), "photo.png", mock.Anything).Return(&models.Image{
					ImageID:    "i1",
					ObjectName: "uploads/2024/05/i1.jpg",
					ImageURL:   "http://cdn/images/uploads/2024/05/i1.jpg",
				}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:     "SVG отклоняется",
			filename: "logo.svg",
			size:     16,
			mockSetup: func(m *MockMediaService) {
				m.On("Upload", mock.Anything, authorUser, (*string)(nil), "logo.svg", mock.Anything).
					Return(nil, models.NewValidationError("Загрузка SVG не поддерживается"))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:     "Чужая запись",
			filename: "photo.png",
			size:     128,
			postID:   "foreign",
			mockSetup: func(m *MockMediaService) {
				m.On("Upload", mock.Anything, authorUser, mock.Anything, "photo.png", mock.Anything).
					Return(nil, models.NewForbiddenError("Недостаточно прав для добавления изображения к записи"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Слишком большой файл",
			filename:       "huge.png",
			size:           2 << 20,
			mockSetup:      func(m *MockMediaService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			tt.mockSetup(s.media)

			body, contentType := multipartImage(t, tt.filename, bytes.Repeat([]byte{1}, tt.size), tt.postID)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/images", body)
			req.Header.Set("Content-Type", contentType)
			req.Header.Set("Authorization", "Bearer "+authorToken)

			rr := httptest.NewRecorder()
			s.router.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestImageHandlers(t *testing.T) {
	s := newTestServer(t)
	s.media.On("Delete", mock.Anything, authorUser, "i1").Return(nil)
	s.media.On("Delete", mock.Anything, authorUser, "missing").Return(models.NewNotFoundError("Изображение не найдено"))
	s.media.On("Delete", mock.Anything, authorUser, "foreign").Return(models.NewForbiddenError("Недостаточно прав для удаления изображения"))
	s.media.On("ListByPost", mock.Anything, authorUser, "p1").Return([]models.Image{{ImageID: "i1"}}, nil)
	s.media.On("ListByPost", mock.Anything, authorUser, "secret").Return(nil, models.NewForbiddenError("Недостаточно прав для просмотра записи"))

	rr := s.do(http.MethodDelete, "/api/admin/images/i1", nil, authorToken)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(http.MethodDelete, "/api/admin/images/missing", nil, authorToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodGet, "/api/admin/posts/p1/images", nil, authorToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"imageId":"i1"`)

	t.Run("Чужое изображение", func(t *testing.T) {
		rr := s.do(http.MethodDelete, "/api/admin/images/foreign", nil, authorToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "Недостаточно прав для удаления изображения", decodeError(t, rr))
	})

	t.Run("Изображения чужого черновика", func(t *testing.T) {
		rr := s.do(http.MethodGet, "/api/admin/posts/secret/images", nil, authorToken)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
