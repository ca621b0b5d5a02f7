package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/config"
	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
	"blogCMS/internal/service"
)

var (
	adminUser  = &models.User{UserID: "admin-1", Username: "octocat", IsAdmin: true}
	authorUser = &models.User{UserID: "author-1", Username: "writer"}
)

const (
	adminToken  = "admin-token"
	authorToken = "author-token"
)

type testServer struct {
	posts     *MockPostService
	taxonomy  *MockTaxonomyService
	settings  *MockSettingService
	postTypes *MockPostTypeService
	auth      *MockAuthService
	users     *MockUserService
	media     *MockMediaService
	tables    *MockTablesService

	handlers *Handlers
	router   http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		posts:     new(MockPostService),
		taxonomy:  new(MockTaxonomyService),
		settings:  new(MockSettingService),
		postTypes: new(MockPostTypeService),
		auth:      new(MockAuthService),
		users:     new(MockUserService),
		media:     new(MockMediaService),
		tables:    new(MockTablesService),
	}

	s.auth.On("GetUserFromToken", mock.Anything, adminToken).Return(adminUser, nil).Maybe()
	s.auth.On("GetUserFromToken", mock.Anything, authorToken).Return(authorUser, nil).Maybe()

	cfg := &config.Config{
		MaxUploadSize:       1 << 20,
		AccessTokenDuration: time.Hour,
	}

	s.handlers = NewHandlers(&service.Service{
		Post:     s.posts,
		Taxonomy: s.taxonomy,
		Setting:  s.settings,
		PostType: s.postTypes,
		Auth:     s.auth,
		User:     s.users,
		Media:    s.media,
		Tables:   s.tables,
	}, cfg, zerolog.Nop())
	s.router = NewRouter(s.handlers, s.auth, metrics.Nop{}, nil)

	t.Cleanup(func() {
		s.posts.AssertExpectations(t)
		s.taxonomy.AssertExpectations(t)
		s.settings.AssertExpectations(t)
		s.postTypes.AssertExpectations(t)
		s.auth.AssertExpectations(t)
		s.users.AssertExpectations(t)
		s.media.AssertExpectations(t)
		s.tables.AssertExpectations(t)
	})

	return s
}

// do sends body as JSON, or verbatim when it is a string.
func (s *testServer) do(method, target string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func TestNewHandlers(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, s.posts, s.handlers.PostService)
	assert.Equal(t, s.taxonomy, s.handlers.TaxonomyService)
	assert.Equal(t, s.media, s.handlers.MediaService)
	assert.NotNil(t, s.handlers.Validate)
	assert.NotNil(t, s.handlers.Cfg)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind     models.ErrorKind
		expected int
	}{
		{models.KindValidation, http.StatusBadRequest},
		{models.KindConflict, http.StatusBadRequest},
		{models.KindInUse, http.StatusBadRequest},
		{models.KindForbidden, http.StatusForbidden},
		{models.KindNotFound, http.StatusNotFound},
		{models.KindStorage, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.expected, statusFor(tt.kind))
		})
	}
}

func TestWriteServiceError(t *testing.T) {
	h := &Handlers{Log: zerolog.Nop()}
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("Причина ошибки хранилища не раскрывается", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.writeServiceError(rr, req, models.NewStorageError("Ошибка при получении постов", errors.New("pq: password authentication failed")))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Ошибка при получении постов", decodeError(t, rr))
	})

	t.Run("Неизвестная ошибка", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.writeServiceError(rr, req, errors.New("boom"))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Внутренняя ошибка сервера", decodeError(t, rr))
	})

	t.Run("Используемый тег", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.writeServiceError(rr, req, models.NewInUseError("Нельзя удалить тег, который используется в постах."))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Нельзя удалить тег, который используется в постах.", decodeError(t, rr))
	})
}

func TestHealthAndNotFound(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/health", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	s.handlers.DB = failingDB{}
	rr = s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

type failingDB struct{}

func (failingDB) HealthCheck(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestAdminAccess(t *testing.T) {
	s := newTestServer(t)
	s.auth.On("GetUserFromToken", mock.Anything, "expired").Return(nil, service.ErrInvalidToken)
	s.taxonomy.On("ListCategories", mock.Anything).Return([]models.Category{{ID: "c1", Name: "Go", Slug: "go"}}, nil)

	tests := []struct {
		name           string
		path           string
		token          string
		expectedStatus int
	}{
		{"Без токена", "/api/admin/posts", "", http.StatusUnauthorized},
		{"Недействительный токен", "/api/admin/posts", "expired", http.StatusUnauthorized},
		{"Автор не управляет категориями", "/api/admin/categories", authorToken, http.StatusForbidden},
		{"Администратор управляет категориями", "/api/admin/categories", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(http.MethodGet, tt.path, nil, tt.token)
			assert.Equal(t, tt.expectedStatus, rr.Code)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/api/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodGet, "/api/me", nil, authorToken)
	require.Equal(t, http.StatusOK, rr.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &user))
	assert.Equal(t, "writer", user.Username)
	assert.False(t, user.IsAdmin)
}

func TestStatsAndUsers(t *testing.T) {
	s := newTestServer(t)
	s.tables.On("Stats", mock.Anything).Return(&models.Stats{
		Posts:       map[string]int{"post": 2},
		Categories:  1,
		Tags:        3,
		CountTables: 9,
	}, nil)
	s.tables.On("GetCountTablesDB", mock.Anything).Return(9, nil)
	s.users.On("List", mock.Anything).Return([]models.User{*adminUser, *authorUser}, nil)
	s.users.On("Get", mock.Anything, "missing").Return(nil, models.NewNotFoundError("Пользователь не найден"))

	rr := s.do(http.MethodGet, "/api/admin/stats", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"posts":{"post":2},"categories":1,"tags":3,"countTables":9}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/admin/tables", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"countTables":9}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, rr.Code)
	var users []models.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	rr = s.do(http.MethodGet, "/api/admin/users/missing", nil, adminToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Пользователь не найден", decodeError(t, rr))
}
