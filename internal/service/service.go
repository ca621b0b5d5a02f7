package service

import (
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
	"blogCMS/internal/storage"
)

type Service struct {
	Post     PostService
	Taxonomy TaxonomyService
	Setting  SettingService
	PostType PostTypeService
	Auth     AuthService
	User     UserService
	Media    MediaService
	Tables   TablesService
}

func NewService(
	repo *repository.Repository,
	cfg *config.Config,
	store storage.Storage,
	provider OAuthProvider,
	recorder metrics.Recorder,
	log zerolog.Logger,
) *Service {
	settings := NewSettingService(repo.Setting, cfg.Image, log)

	return &Service{
		Post:     NewPostService(repo, recorder, log),
		Taxonomy: NewTaxonomyService(repo),
		Setting:  settings,
		PostType: NewPostTypeService(repo.PostType),
		Auth:     NewAuthService(repo, provider, cfg, log),
		User:     NewUserService(repo.User),
		Media:    NewMediaService(repo.Post, repo.Image, store, settings, recorder, log),
		Tables:   NewTablesService(repo.Tables),
	}
}

// utcNow is the service clock. Microsecond precision survives every supported driver.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var validate = validator.New()

// validateStruct runs the struct tags of v and reports the first failing field.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return models.NewValidationError("Некорректное значение поля " + fieldErrs[0].Field())
	}
	return models.NewValidationError("Некорректные данные")
}

func requireActor(actor *models.User) error {
	if actor == nil || actor.UserID == "" {
		return models.NewForbiddenError("Требуется авторизация")
	}
	return nil
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
