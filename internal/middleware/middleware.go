package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/rs/zerolog"

	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
)

// TokenCookie holds the session token set after the GitHub callback.
const TokenCookie = "token"

type Middleware func(http.Handler) http.Handler

// Authenticator resolves a session token into its user.
type Authenticator interface {
	GetUserFromToken(ctx context.Context, token string) (*models.User, error)
}

type contextKey struct{}

var userKey = contextKey{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message})
}

type tokenSource int

const (
	tokenNone tokenSource = iota
	tokenHeader
	tokenCookie
)

// tokenFromRequest reads "Authorization: Bearer <token>" first, then the session cookie.
func tokenFromRequest(r *http.Request) (string, tokenSource) {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", tokenHeader
		}
		return strings.TrimSpace(parts[1]), tokenHeader
	}

	if cookie, err := r.Cookie(TokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, tokenCookie
	}

	return "", tokenNone
}

func clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookie,
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthMiddleware attaches the user of a valid token to the request context.
// Requests without a token pass through anonymously. A bad Authorization
// header is rejected, a stale session cookie is dropped and the request
// continues anonymously.
func AuthMiddleware(auth Authenticator, log zerolog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, source := tokenFromRequest(r)
			if source == tokenNone {
				next.ServeHTTP(w, r)
				return
			}

			if token == "" {
				writeError(w, "Неверный формат токена", http.StatusUnauthorized)
				return
			}

			user, err := auth.GetUserFromToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					log.Debug().Err(err).Str("path", r.URL.Path).Msg("Отклонен токен")
				}
				if source == tokenCookie {
					clearTokenCookie(w)
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, "Недействительный токен", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeError(w, "Требуется авторизация", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeError(w, "Требуется авторизация", http.StatusUnauthorized)
			return
		}
		if !user.IsAdmin {
			writeError(w, "Доступ запрещен", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request and reports it to recorder.
func LoggingMiddleware(log zerolog.Logger, recorder metrics.Recorder) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			recorder.RecordHTTPRequest(r.Method, rec.status, duration)

			event := log.Info()
			if rec.status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", duration).
				Msg("HTTP запрос")
		})
	}
}

// Chain wraps h so that the first middleware is the innermost one.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
