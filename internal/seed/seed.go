// Package seed fills an empty installation with sample content.
package seed

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"blogCMS/internal/models"
	"blogCMS/internal/repository"
	"blogCMS/internal/service"
)

const (
	HelloWorldSlug = "hello-world"
	ProjectSlug    = "flask-blog-cms"
)

const projectContent = `# Flask Blog CMS

A WordPress-inspired content management system with a unified post model.

## Features

- One post table for posts, pages and projects
- Custom fields stored as post metadata
- Categories, tags and hierarchical pages
- Draft, scheduled and published workflow
- Image uploads resized on the fly
`

// projectMeta is stored in key order so repeated seeds produce the same rows.
var projectMeta = []struct{ key, value string }{
	{"demo_url", "https://flask-blog-demo.com"},
	{"github_url", "https://github.com/yourusername/flask-blog"},
	{"status", "active"},
	{"tech_stack", "Python, Flask, SQLAlchemy, SQLite, Jinja2, JavaScript"},
	{"year", "2025"},
}

type Seeder struct {
	repo      *repository.Repository
	postTypes service.PostTypeService
	log       zerolog.Logger
	now       func() time.Time
}

func NewSeeder(repo *repository.Repository, log zerolog.Logger) *Seeder {
	return &Seeder{
		repo:      repo,
		postTypes: service.NewPostTypeService(repo.PostType),
		log:       log.With().Str("component", "seed").Logger(),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// SeedPosts registers the default post types and adds the "Hello World" post
// to a database without posts. It reports whether the post was created.
func (s *Seeder) SeedPosts(ctx context.Context) (bool, error) {
	if err := s.postTypes.EnsureDefaults(ctx); err != nil {
		return false, err
	}

	created := false
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		count, err := tx.Post.Count(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := s.now()
		post := &models.Post{
			Title:     "Hello World",
			Slug:      HelloWorldSlug,
			Content:   "# Hello World\n\nThis is your first post.",
			Excerpt:   "This is your first post.",
			Author:    models.DefaultAuthor,
			PostType:  models.TypePost,
			CreatedAt: now,
			UpdatedAt: now,
		}
		post.ApplyStatus(models.StatusPublish, now)

		if err := tx.Post.Create(ctx, post); err != nil {
			return err
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		s.log.Info().Str("slug", HelloWorldSlug).Msg("Создан пример поста")
	} else {
		s.log.Info().Msg("Посты уже существуют, заполнение пропущено")
	}

	return created, nil
}

// SeedProject adds the featured sample project with its custom fields unless
// its slug is already taken.
func (s *Seeder) SeedProject(ctx context.Context) (bool, error) {
	if err := s.postTypes.EnsureDefaults(ctx); err != nil {
		return false, err
	}

	created := false
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		exists, err := tx.Post.SlugExists(ctx, ProjectSlug, "")
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		now := s.now()
		project := &models.Post{
			Title:     "Flask Blog CMS",
			Slug:      ProjectSlug,
			Content:   projectContent,
			Excerpt:   "A WordPress-inspired CMS featuring unified post types, custom fields, and a modern admin interface.",
			Author:    models.DefaultAuthor,
			PostType:  models.TypeProject,
			Featured:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		project.ApplyStatus(models.StatusPublish, now)

		if err := tx.Post.Create(ctx, project); err != nil {
			return err
		}

		for _, meta := range projectMeta {
			if err := tx.Meta.Set(ctx, project.ID, meta.key, meta.value); err != nil {
				return err
			}
		}

		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		s.log.Info().Str("slug", ProjectSlug).Int("meta", len(projectMeta)).Msg("Создан пример проекта")
	} else {
		s.log.Info().Str("slug", ProjectSlug).Msg("Пример проекта уже существует")
	}

	return created, nil
}
