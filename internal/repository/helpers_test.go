package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"blogCMS/internal/database/dbtest"
	"blogCMS/internal/models"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(dbtest.New(t).DB)
}

func strPtr(s string) *string { return &s }

func mustCreatePost(t *testing.T, repo *Repository, title, slug, postType, status string, publishedAt *time.Time) *models.Post {
	t.Helper()

	now := time.Now().UTC()
	post := &models.Post{
		Title:       title,
		Slug:        slug,
		Content:     "content of " + title,
		Author:      models.DefaultAuthor,
		PostType:    postType,
		PostStatus:  status,
		CreatedAt:   now,
		UpdatedAt:   now,
		PublishedAt: publishedAt,
		Scheduled:   status == models.StatusDraft && publishedAt != nil,
	}
	require.NoError(t, repo.Post.Create(context.Background(), post))
	return post
}
