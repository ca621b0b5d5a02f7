package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"

	"blogCMS/internal/models"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

func writeSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// statusFor maps a domain error kind onto the HTTP status it is reported with.
func statusFor(kind models.ErrorKind) int {
	switch kind {
	case models.KindValidation, models.KindConflict, models.KindInUse:
		return http.StatusBadRequest
	case models.KindForbidden:
		return http.StatusForbidden
	case models.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError reports err with the status of its kind. Only the safe
// message reaches the client, the cause goes to the log.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(models.KindOf(err))
	if status == http.StatusInternalServerError {
		h.Log.Error().Err(err).Str("path", r.URL.Path).Msg("Ошибка обработки запроса")
	}
	writeError(w, models.MessageOf(err), status)
}

// decodeJSON reads the body into dst and validates it. On failure the 400
// response is already written.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, "Неверный формат запроса", http.StatusBadRequest)
		return false
	}

	if err := h.Validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			writeError(w, "Некорректное значение поля "+fieldErrs[0].Field(), http.StatusBadRequest)
			return false
		}
		writeError(w, "Неверные данные", http.StatusBadRequest)
		return false
	}

	return true
}
