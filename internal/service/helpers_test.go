package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/database/dbtest"
	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
)

type testEnv struct {
	repo  *repository.Repository
	posts *postService
	now   time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := repository.NewRepository(dbtest.New(t).DB)
	require.NoError(t, NewPostTypeService(repo.PostType).EnsureDefaults(context.Background()))

	env := &testEnv{
		repo: repo,
		now:  time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
	}

	env.posts = NewPostService(repo, metrics.Nop{}, zerolog.Nop()).(*postService)
	env.posts.now = func() time.Time { return env.now }

	return env
}

func (e *testEnv) user(t *testing.T, username string, admin bool) *models.User {
	t.Helper()

	user := &models.User{
		GitHubID: "gh-" + username,
		Username: username,
		IsAdmin:  admin,
	}
	require.NoError(t, e.repo.User.Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, actor *models.User, req models.CreatePostRequest) *models.Post {
	t.Helper()

	if req.Content == "" {
		req.Content = "content of " + req.Title
	}

	post, err := e.posts.Create(context.Background(), actor, req)
	require.NoError(t, err)
	return post
}

func strPtr(s string) *string { return &s }

func tagNames(post *models.Post) []string {
	names := []string{}
	for _, tag := range post.Tags {
		names = append(names, tag.Name)
	}
	return names
}
