package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogCMS/internal/models"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.TaxonomyService.ListCategories(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, categories, http.StatusOK)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.TaxonomyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	category, err := h.TaxonomyService.CreateCategory(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, category, http.StatusCreated)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.TaxonomyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	category, err := h.TaxonomyService.UpdateCategory(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, category, http.StatusOK)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.TaxonomyService.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Категория удалена"}, http.StatusOK)
}

func (h *Handlers) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.TaxonomyService.ListTags(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, tags, http.StatusOK)
}

func (h *Handlers) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req models.TaxonomyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.TaxonomyService.CreateTag(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, tag, http.StatusCreated)
}

func (h *Handlers) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req models.TaxonomyRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.TaxonomyService.UpdateTag(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, tag, http.StatusOK)
}

func (h *Handlers) DeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.TaxonomyService.DeleteTag(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Тег удален"}, http.StatusOK)
}
