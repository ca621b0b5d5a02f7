package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/gorilla/mux"

	"blogCMS/internal/middleware"
)

// UploadImage accepts a multipart "image" file and an optional "postId" field.
func (h *Handlers) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, fmt.Sprintf("Файл слишком большой (макс. %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			writeError(w, "Ошибка при обработке файла", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, "Файл не передан", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, "Файл не выбран", http.StatusBadRequest)
		return
	}

	var postID *string
	if id := strings.TrimSpace(r.FormValue("postId")); id != "" {
		postID = &id
	}

	image, err := h.MediaService.Upload(r.Context(), middleware.UserFromContext(r.Context()), postID, header.Filename, file)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, image, http.StatusCreated)
}

func (h *Handlers) ListPostImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.MediaService.ListByPost(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, images, http.StatusOK)
}

func (h *Handlers) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.MediaService.Delete(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, MessageResponse{Message: "Картинка успешно удалена"}, http.StatusOK)
}
