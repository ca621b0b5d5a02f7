package app

import (
	"context"
	"net/http"

	"github.com/Laisky/errors/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"blogCMS/internal/config"
	"blogCMS/internal/database"
	handlers "blogCMS/internal/handler"
	"blogCMS/internal/metrics"
	"blogCMS/internal/oauth"
	"blogCMS/internal/repository"
	"blogCMS/internal/service"
	"blogCMS/internal/storage"
)

// App holds the dependencies shared by the CLI commands.
// Services is nil until InitServices is called.
type App struct {
	Cfg      *config.Config
	Log      zerolog.Logger
	DB       *database.DB
	Repo     *repository.Repository
	Services *service.Service
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
}

// New connects to the database. Commands that only touch the schema or seed
// data stop here and never reach MinIO or GitHub.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	return &App{
		Cfg:  cfg,
		Log:  log,
		DB:   db,
		Repo: repository.NewRepository(db.DB),
	}, nil
}

// InitServices connects MinIO and builds the service layer with metrics.
func (a *App) InitServices(ctx context.Context) error {
	store, err := storage.NewMinIOClient(ctx, a.Cfg.MinIO, a.Log)
	if err != nil {
		return errors.Wrap(err, "не удалось инициализировать MinIO")
	}

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.NewCollector(a.Registry)

	provider := oauth.NewGitHubProvider(a.Cfg.GitHub)
	a.Services = service.NewService(a.Repo, a.Cfg, store, provider, a.Metrics, a.Log)
	return nil
}

// Router is the full HTTP stack. InitServices must have succeeded.
func (a *App) Router() http.Handler {
	h := handlers.NewHandlers(a.Services, a.Cfg, a.Log)
	h.DB = a.DB

	return handlers.NewRouter(h, a.Services.Auth, a.Metrics, metrics.Handler(a.Registry))
}

func (a *App) Close() {
	if err := a.DB.CloseDB(); err != nil {
		a.Log.Error().Err(err).Msg("Ошибка при закрытии БД")
	}
}
