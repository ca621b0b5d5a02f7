package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"

	"blogCMS/internal/middleware"
	"blogCMS/internal/models"
)

const (
	stateCookie = "oauth_state"
	stateTTL    = 10 * time.Minute
)

type AuthResponse struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user"`
}

// GitHubLogin starts the OAuth flow. The state is kept in a short-lived cookie
// and checked on the callback.
func (h *Handlers) GitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth/github",
		MaxAge:   int(stateTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.AuthService.LoginURL(state), http.StatusFound)
}

func (h *Handlers) GitHubCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if reason := query.Get("error"); reason != "" {
		h.Log.Warn().Str("reason", reason).Msg("GitHub отклонил авторизацию")
		writeError(w, "Авторизация через GitHub отменена", http.StatusBadRequest)
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(query.Get("state"))) != 1 {
		writeError(w, "Неверный параметр state", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth/github", MaxAge: -1})

	user, token, err := h.AuthService.LoginWithGitHub(r.Context(), query.Get("code"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Cfg.AccessTokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, AuthResponse{AccessToken: token, User: user}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	writeSuccess(w, MessageResponse{Message: "Вы вышли из системы"}, http.StatusOK)
}
