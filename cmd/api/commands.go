package main

import (
	"context"

	"github.com/spf13/cobra"

	"blogCMS/cmd/app"
	"blogCMS/internal/metrics"
	"blogCMS/internal/seed"
	"blogCMS/internal/service"
	"blogCMS/internal/worker"
)

var migrateDown bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
	Long: `Apply pending migrations for the configured DB_DRIVER.

Examples:
  blogcms migrate          # Apply all pending migrations
  blogcms migrate --down   # Roll back every migration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if migrateDown {
				return a.DB.RollbackMigrations()
			}
			return a.DB.RunMigrations()
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default post types and the Hello World post",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := a.DB.RunMigrations(); err != nil {
				return err
			}

			created, err := seed.NewSeeder(a.Repo, a.Log).SeedPosts(ctx)
			if err != nil {
				return err
			}
			if !created {
				a.Log.Info().Msg("Посты уже есть, пропускаем")
			}
			return nil
		})
	},
}

var seedProjectCmd = &cobra.Command{
	Use:   "seed-project",
	Short: "Create the sample featured project",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			if err := a.DB.RunMigrations(); err != nil {
				return err
			}

			created, err := seed.NewSeeder(a.Repo, a.Log).SeedProject(ctx)
			if err != nil {
				return err
			}
			if !created {
				a.Log.Info().Str("slug", seed.ProjectSlug).Msg("Проект уже существует, пропускаем")
			}
			return nil
		})
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish-scheduled",
	Short: "Publish scheduled posts whose time has come",
	Long: `Run one publication sweep and exit. Suitable for cron.

Examples:
  blogcms publish-scheduled`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
			posts := service.NewPostService(a.Repo, metrics.Nop{}, a.Log)

			count, err := worker.NewScheduleJob(posts, 0, a.Log).RunOnce(ctx)
			if err != nil {
				return err
			}

			a.Log.Info().Int64("published", count).Msg("Публикация завершена")
			return nil
		})
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "Roll back all migrations")
}
