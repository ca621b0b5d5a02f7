package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
	"blogCMS/internal/service"
)

type Handlers struct {
	PostService     service.PostService
	TaxonomyService service.TaxonomyService
	SettingService  service.SettingService
	PostTypeService service.PostTypeService
	AuthService     service.AuthService
	UserService     service.UserService
	MediaService    service.MediaService
	TablesService   service.TablesService
	DB              HealthChecker
	Cfg             *config.Config
	Validate        *validator.Validate
	Log             zerolog.Logger
}

func NewHandlers(services *service.Service, cfg *config.Config, log zerolog.Logger) *Handlers {
	return &Handlers{
		PostService:     services.Post,
		TaxonomyService: services.Taxonomy,
		SettingService:  services.Setting,
		PostTypeService: services.PostType,
		AuthService:     services.Auth,
		UserService:     services.User,
		MediaService:    services.Media,
		TablesService:   services.Tables,
		Cfg:             cfg,
		Validate:        validator.New(),
		Log:             log.With().Str("component", "http").Logger(),
	}
}
