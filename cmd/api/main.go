package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"blogCMS/cmd/app"
	"blogCMS/internal/config"
	"blogCMS/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "blogcms",
	Short: "BlogCMS - blog and portfolio CMS with a unified post model",
	Long: `BlogCMS stores posts, pages and projects in one table and
extends them with metadata, categories and tags.

Commands:
  serve              - Start the HTTP server
  migrate            - Apply or roll back database migrations
  seed               - Create the default post types and the Hello World post
  seed-project       - Create the sample featured project
  publish-scheduled  - Publish scheduled posts whose time has come`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, seedProjectCmd, publishCmd)
}

// loadConfig reads the environment and builds the logger every command shares.
func loadConfig() (*config.Config, zerolog.Logger) {
	cfg, envLoaded := config.LoadConfig()
	log := logger.New(cfg.Log)

	if !envLoaded {
		log.Debug().Msg("Файл .env не найден, используются переменные окружения")
	}
	return cfg, log
}

// withApp opens the database, runs fn and closes the database again.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	cfg, log := loadConfig()

	a, err := app.New(cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}
