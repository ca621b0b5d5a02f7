package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"blogCMS/internal/models"
)

type SettingRequest struct {
	Value       string  `json:"value"`
	Description *string `json:"description"`
}

func (h *Handlers) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, settings, http.StatusOK)
}

func (h *Handlers) SetSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.SettingService.Set(r.Context(), mux.Vars(r)["key"], req.Value, req.Description); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Настройка сохранена"}, http.StatusOK)
}

func (h *Handlers) GetImageSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.SettingService.ImageSettings(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, settings, http.StatusOK)
}

func (h *Handlers) UpdateImageSettings(w http.ResponseWriter, r *http.Request) {
	var req models.ImageSettings
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.SettingService.UpdateImageSettings(r.Context(), req); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, req, http.StatusOK)
}

func (h *Handlers) ListPostTypes(w http.ResponseWriter, r *http.Request) {
	postTypes, err := h.PostTypeService.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, postTypes, http.StatusOK)
}

func (h *Handlers) RegisterPostType(w http.ResponseWriter, r *http.Request) {
	var req models.PostType
	if !h.decodeJSON(w, r, &req) {
		return
	}

	postType, err := h.PostTypeService.Register(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, postType, http.StatusCreated)
}
