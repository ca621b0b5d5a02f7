package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/spf13/cobra"

	"blogCMS/cmd/app"
	"blogCMS/internal/worker"
)

var (
	publishInterval time.Duration
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Apply pending migrations, register the default post types and serve the API.

Examples:
  blogcms serve                          # Serve on SERVER_PORT
  blogcms serve --publish-interval 1m    # Also publish scheduled posts every minute`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().DurationVar(&publishInterval, "publish-interval", 0, "Publish scheduled posts at this interval (0 disables)")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Time to finish in-flight requests on shutdown")
}

func runServe() error {
	cfg, log := loadConfig()

	if cfg.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY не установлен")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.DB.RunMigrations(); err != nil {
		return err
	}
	if err := a.InitServices(ctx); err != nil {
		return err
	}
	if err := a.Services.PostType.EnsureDefaults(ctx); err != nil {
		return err
	}

	go worker.NewScheduleJob(a.Services.Post, publishInterval, log).Start(ctx)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      a.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("db", cfg.DB.DbNAME).
			Msg("Сервер запущен")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return errors.Wrap(err, "ошибка запуска сервера")
	case <-ctx.Done():
	}

	log.Info().Msg("Останавливаем сервер...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "сервер остановлен принудительно")
	}

	log.Info().Msg("Сервер остановлен")
	return nil
}
