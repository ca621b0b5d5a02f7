package service

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

// OAuthProvider is the external identity provider used for login.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.GitHubIdentity, error)
}

type AuthService interface {
	LoginURL(state string) string
	LoginWithGitHub(ctx context.Context, code string) (*models.User, string, error)
	GenerateToken(user *models.User) (string, error)
	GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error)
}

var ErrInvalidToken = errors.New("недействительный токен")

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type authService struct {
	repo     *repository.Repository
	provider OAuthProvider
	cfg      *config.Config
	log      zerolog.Logger
	now      func() time.Time
}

func NewAuthService(repo *repository.Repository, provider OAuthProvider, cfg *config.Config, log zerolog.Logger) AuthService {
	return &authService{
		repo:     repo,
		provider: provider,
		cfg:      cfg,
		log:      log.With().Str("component", "auth_service").Logger(),
		now:      utcNow,
	}
}

func (s *authService) LoginURL(state string) string {
	return s.provider.AuthCodeURL(state)
}

// LoginWithGitHub finishes the OAuth flow and returns the user with a session token.
// The admin flag is granted only when the account is first created.
func (s *authService) LoginWithGitHub(ctx context.Context, code string) (*models.User, string, error) {
	if code == "" {
		return nil, "", models.NewValidationError("Отсутствует код авторизации")
	}

	identity, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.log.Warn().Err(err).Msg("Ошибка авторизации через GitHub")
		return nil, "", errors.WithStack(&models.Error{
			Kind:    models.KindValidation,
			Message: "Ошибка авторизации через GitHub",
			Err:     err,
		})
	}

	var user *models.User
	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		now := s.now()

		existing, err := tx.User.GetByGitHubID(ctx, identity.GitHubID)
		if err != nil && !models.IsNotFound(err) {
			return err
		}

		if existing == nil {
			user = &models.User{
				GitHubID:  identity.GitHubID,
				Username:  identity.Username,
				Email:     identity.Email,
				AvatarURL: identity.AvatarURL,
				IsAdmin:   s.cfg.GitHub.AdminUsername != "" && identity.Username == s.cfg.GitHub.AdminUsername,
				CreatedAt: now,
				LastLogin: &now,
			}
			return tx.User.Create(ctx, user)
		}

		existing.Username = identity.Username
		existing.Email = identity.Email
		existing.AvatarURL = identity.AvatarURL
		existing.LastLogin = &now
		user = existing
		return tx.User.UpdateProfile(ctx, user)
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.UserID).Str("username", user.Username).Bool("admin", user.IsAdmin).Msg("Пользователь вошел")
	return user, token, nil
}

func (s *authService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", errors.Wrap(err, "ошибка подписи токена")
	}

	return tokenString, nil
}

// GetUserFromToken validates the token and loads its user, so revoked or
// deleted accounts stop working immediately.
func (s *authService) GetUserFromToken(ctx context.Context, tokenString string) (*models.User, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecretKey), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return user, nil
}
