package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogCMS/internal/metrics"
	"blogCMS/internal/middleware"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

// NewRouter builds the whole HTTP surface. Admin routes need a signed-in user,
// taxonomy, settings, post types, users and stats need an administrator.
func NewRouter(h *Handlers, auth middleware.Authenticator, recorder metrics.Recorder, metricsHandler http.Handler) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Не найдено", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	// public
	r.HandleFunc("/api/posts", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/featured", h.ListFeatured).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{slug}", h.GetPostBySlug).Methods(http.MethodGet)

	r.HandleFunc("/blog", h.Archive(models.TypePost, repository.OrderPublished)).Methods(http.MethodGet)
	r.HandleFunc("/blog/{slug}", h.View("")).Methods(http.MethodGet)
	r.HandleFunc("/page/{slug}", h.View(models.TypePage)).Methods(http.MethodGet)
	r.HandleFunc("/projects", h.Archive(models.TypeProject, repository.OrderCreated)).Methods(http.MethodGet)
	r.HandleFunc("/projects/{slug}", h.View(models.TypeProject)).Methods(http.MethodGet)

	// auth
	r.HandleFunc("/auth/github", h.GitHubLogin).Methods(http.MethodGet)
	r.HandleFunc("/auth/github/callback", h.GitHubCallback).Methods(http.MethodGet)
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	r.Handle("/api/me", middleware.RequireAuth(http.HandlerFunc(h.GetCurrentUser))).Methods(http.MethodGet)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(middleware.RequireAuth)

	admin.HandleFunc("/posts", h.AdminListPosts).Methods(http.MethodGet)
	admin.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	admin.HandleFunc("/posts/{id}", h.GetPost).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	admin.HandleFunc("/posts/{id}", h.DeletePost).Methods(http.MethodDelete)
	admin.HandleFunc("/posts/{id}/status", h.ChangePostStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/posts/{id}/tags", h.SetPostTags).Methods(http.MethodPut)
	admin.HandleFunc("/posts/{id}/meta", h.GetPostMeta).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}/meta/{key}", h.SetPostMeta).Methods(http.MethodPut)
	admin.HandleFunc("/posts/{id}/meta/{key}", h.DeletePostMeta).Methods(http.MethodDelete)
	admin.HandleFunc("/posts/{id}/preview", h.PreviewPost).Methods(http.MethodGet)
	admin.HandleFunc("/posts/{id}/images", h.ListPostImages).Methods(http.MethodGet)

	admin.HandleFunc("/images", h.UploadImage).Methods(http.MethodPost)
	admin.HandleFunc("/images/{id}", h.DeleteImage).Methods(http.MethodDelete)

	adminOnly := func(f http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(f)
	}

	admin.Handle("/categories", adminOnly(h.ListCategories)).Methods(http.MethodGet)
	admin.Handle("/categories", adminOnly(h.CreateCategory)).Methods(http.MethodPost)
	admin.Handle("/categories/{id}", adminOnly(h.UpdateCategory)).Methods(http.MethodPut)
	admin.Handle("/categories/{id}", adminOnly(h.DeleteCategory)).Methods(http.MethodDelete)

	admin.Handle("/tags", adminOnly(h.ListTags)).Methods(http.MethodGet)
	admin.Handle("/tags", adminOnly(h.CreateTag)).Methods(http.MethodPost)
	admin.Handle("/tags/{id}", adminOnly(h.UpdateTag)).Methods(http.MethodPut)
	admin.Handle("/tags/{id}", adminOnly(h.DeleteTag)).Methods(http.MethodDelete)

	admin.Handle("/post-types", adminOnly(h.ListPostTypes)).Methods(http.MethodGet)
	admin.Handle("/post-types", adminOnly(h.RegisterPostType)).Methods(http.MethodPost)

	admin.Handle("/settings", adminOnly(h.ListSettings)).Methods(http.MethodGet)
	admin.Handle("/settings/image", adminOnly(h.GetImageSettings)).Methods(http.MethodGet)
	admin.Handle("/settings/image", adminOnly(h.UpdateImageSettings)).Methods(http.MethodPut)
	admin.Handle("/settings/{key}", adminOnly(h.SetSetting)).Methods(http.MethodPut)

	admin.Handle("/users", adminOnly(h.ListUsers)).Methods(http.MethodGet)
	admin.Handle("/users/{id}", adminOnly(h.GetUser)).Methods(http.MethodGet)
	admin.Handle("/stats", adminOnly(h.Stats)).Methods(http.MethodGet)
	admin.Handle("/tables", adminOnly(h.TablesHandler)).Methods(http.MethodGet)
	admin.Handle("/publish-scheduled", adminOnly(h.PublishScheduled)).Methods(http.MethodPost)

	return middleware.Chain(
		r,
		middleware.AuthMiddleware(auth, h.Log),
		middleware.CORSMiddleware,
		middleware.LoggingMiddleware(h.Log, recorder),
	)
}
