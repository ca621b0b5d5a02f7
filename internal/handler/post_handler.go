package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"blogCMS/internal/middleware"
	"blogCMS/internal/models"
	"blogCMS/internal/render"
	"blogCMS/internal/repository"
)

// PageResponse is a post together with its rendered body.
type PageResponse struct {
	Post models.PostDict `json:"post"`
	render.Page
}

// PostDetailResponse is the admin view of a post, metadata included.
type PostDetailResponse struct {
	models.PostDict
	Meta map[string]string `json:"meta"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft publish private"`
}

type TagsRequest struct {
	Tags string `json:"tags"`
}

type MetaRequest struct {
	Value string `json:"value"`
}

func dicts(posts []*models.Post) []models.PostDict {
	result := make([]models.PostDict, 0, len(posts))
	for _, post := range posts {
		result = append(result, post.ToDict())
	}
	return result
}

func postTypeParam(r *http.Request) string {
	if postType := r.URL.Query().Get("type"); postType != "" {
		return postType
	}
	return models.TypePost
}

// ListPosts serves published posts by default. published=false lists every
// status and needs an authenticated user.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	publishedOnly := true
	if raw := r.URL.Query().Get("published"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, "Неверное значение параметра published", http.StatusBadRequest)
			return
		}
		publishedOnly = value
	}

	var posts []*models.Post
	var err error

	if publishedOnly {
		posts, err = h.PostService.ListPublished(r.Context(), postTypeParam(r), repository.OrderPublished)
	} else {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			writeError(w, "Требуется авторизация", http.StatusUnauthorized)
			return
		}
		posts, err = h.PostService.ListByType(r.Context(), user, postTypeParam(r))
	}
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, dicts(posts), http.StatusOK)
}

func (h *Handlers) ListFeatured(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListFeatured(r.Context(), postTypeParam(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, dicts(posts), http.StatusOK)
}

// GetPostBySlug finds a published post of any type unless ?type= narrows it.
func (h *Handlers) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.PostService.GetPublishedBySlug(r.Context(), mux.Vars(r)["slug"], r.URL.Query().Get("type"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post.ToDict(), http.StatusOK)
}

// Archive lists the published posts of one type, newest publication first.
func (h *Handlers) Archive(postType string, order repository.PostOrder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := h.PostService.ListPublished(r.Context(), postType, order)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		writeSuccess(w, dicts(posts), http.StatusOK)
	}
}

// View renders one published post. An empty postType matches any type.
// Blank pages are written as bare HTML.
func (h *Handlers) View(postType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := h.PostService.GetPublishedBySlug(r.Context(), mux.Vars(r)["slug"], postType)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		page, err := h.PostService.Render(r.Context(), post)
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}

		if page.Blank() {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(page.ContentHTML))
			return
		}

		writeSuccess(w, PageResponse{Post: post.ToDict(), Page: page}, http.StatusOK)
	}
}

// AdminListPosts lists posts of every status for the dashboard. Authors only
// get their own drafts.
func (h *Handlers) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.PostService.ListByType(r.Context(), middleware.UserFromContext(r.Context()), r.URL.Query().Get("type"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, dicts(posts), http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetVisible(r.Context(), middleware.UserFromContext(r.Context()), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	meta, err := h.PostService.GetAllMeta(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, PostDetailResponse{PostDict: post.ToDict(), Meta: meta}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.Create(r.Context(), middleware.UserFromContext(r.Context()), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post.ToDict(), http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req models.UpdatePostRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.Update(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post.ToDict(), http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if err := h.PostService.Delete(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Пост успешно удален"}, http.StatusOK)
}

func (h *Handlers) ChangePostStatus(w http.ResponseWriter, r *http.Request) {
	var req StatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.Transition(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post.ToDict(), http.StatusOK)
}

func (h *Handlers) SetPostTags(w http.ResponseWriter, r *http.Request) {
	var req TagsRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	post, err := h.PostService.SetTags(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"], req.Tags)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, post.ToDict(), http.StatusOK)
}

func (h *Handlers) GetPostMeta(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if _, err := h.PostService.GetVisible(r.Context(), middleware.UserFromContext(r.Context()), postID); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	meta, err := h.PostService.GetAllMeta(r.Context(), postID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, meta, http.StatusOK)
}

func (h *Handlers) SetPostMeta(w http.ResponseWriter, r *http.Request) {
	var req MetaRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	vars := mux.Vars(r)
	if err := h.PostService.SetMeta(r.Context(), middleware.UserFromContext(r.Context()), vars["id"], vars["key"], req.Value); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Метаданные сохранены"}, http.StatusOK)
}

func (h *Handlers) DeletePostMeta(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.PostService.DeleteMeta(r.Context(), middleware.UserFromContext(r.Context()), vars["id"], vars["key"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Метаданные удалены"}, http.StatusOK)
}

func (h *Handlers) PreviewPost(w http.ResponseWriter, r *http.Request) {
	post, page, err := h.PostService.Preview(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, PageResponse{Post: post.ToDict(), Page: page}, http.StatusOK)
}

// PublishScheduled runs the scheduled publication sweep on demand.
func (h *Handlers) PublishScheduled(w http.ResponseWriter, r *http.Request) {
	published, err := h.PostService.PublishScheduled(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, map[string]int64{"published": published}, http.StatusOK)
}
