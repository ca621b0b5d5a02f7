package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
	"blogCMS/internal/render"
	"blogCMS/internal/repository"
	"blogCMS/internal/slug"
)

type PostService interface {
	Create(ctx context.Context, actor *models.User, req models.CreatePostRequest) (*models.Post, error)
	Update(ctx context.Context, actor *models.User, postID string, req models.UpdatePostRequest) (*models.Post, error)
	Transition(ctx context.Context, actor *models.User, postID, status string) (*models.Post, error)
	Delete(ctx context.Context, actor *models.User, postID string) error

	Get(ctx context.Context, postID string) (*models.Post, error)
	GetVisible(ctx context.Context, actor *models.User, postID string) (*models.Post, error)
	GetPublishedBySlug(ctx context.Context, slug, postType string) (*models.Post, error)
	ListPublished(ctx context.Context, postType string, order repository.PostOrder) ([]*models.Post, error)
	ListFeatured(ctx context.Context, postType string) ([]*models.Post, error)
	ListByType(ctx context.Context, actor *models.User, postType string) ([]*models.Post, error)

	SetTags(ctx context.Context, actor *models.User, postID, tags string) (*models.Post, error)

	GetMeta(ctx context.Context, postID, key, defaultValue string) (string, error)
	SetMeta(ctx context.Context, actor *models.User, postID, key, value string) error
	DeleteMeta(ctx context.Context, actor *models.User, postID, key string) error
	GetAllMeta(ctx context.Context, postID string) (map[string]string, error)

	Render(ctx context.Context, post *models.Post) (render.Page, error)
	Preview(ctx context.Context, actor *models.User, postID string) (*models.Post, render.Page, error)

	PublishScheduled(ctx context.Context) (int64, error)
}

type postService struct {
	repo     *repository.Repository
	recorder metrics.Recorder
	log      zerolog.Logger
	now      func() time.Time
}

func NewPostService(repo *repository.Repository, recorder metrics.Recorder, log zerolog.Logger) PostService {
	return &postService{
		repo:     repo,
		recorder: recorder,
		log:      log.With().Str("component", "post_service").Logger(),
		now:      utcNow,
	}
}

func (s *postService) Create(ctx context.Context, actor *models.User, req models.CreatePostRequest) (*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, models.NewValidationError("Заголовок не может быть пустым")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, models.NewValidationError("Содержимое не может быть пустым")
	}

	postType := strings.TrimSpace(req.PostType)
	if postType == "" {
		postType = models.TypePost
	}

	status := req.PostStatus
	if status == "" {
		status = models.StatusDraft
	}
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Недопустимый статус записи")
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = models.DefaultAuthor
	}

	if err := checkMetaKeys(req.Meta); err != nil {
		return nil, err
	}

	now := s.now()
	ownerID := actor.UserID
	post := &models.Post{
		ID:         uuid.New().String(),
		Title:      title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Author:     author,
		PostType:   postType,
		PostStatus: models.StatusDraft,
		Featured:   req.Featured,
		UserID:     &ownerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// a draft may carry a future publication time for the scheduled sweep
	if status == models.StatusDraft && req.PublishedAt != nil {
		post.Schedule(*req.PublishedAt)
	}
	post.ApplyStatus(status, now)

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		pt, err := postTypeOf(ctx, tx, postType)
		if err != nil {
			return err
		}

		if id := trimmed(req.PostParent); id != "" {
			if err := setParent(ctx, tx, pt, post, id); err != nil {
				return err
			}
		}

		if id := trimmed(req.CategoryID); id != "" {
			if err := setCategory(ctx, tx, pt, post, id); err != nil {
				return err
			}
		}

		source := strings.TrimSpace(req.Slug)
		if source == "" {
			source = title
		}
		if post.Slug, err = allocatePostSlug(ctx, tx, source, post.ID); err != nil {
			return err
		}

		if err := tx.Post.Create(ctx, post); err != nil {
			return err
		}

		if req.Tags != nil {
			if post.Tags, err = s.replaceTags(ctx, tx, pt, post.ID, *req.Tags); err != nil {
				return err
			}
		}

		return setMeta(ctx, tx, post.ID, req.Meta)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("post_id", post.ID).Str("post_type", post.PostType).Str("status", post.PostStatus).Msg("Запись создана")
	if post.Published() {
		s.recorder.RecordPostPublished(post.PostType)
	}

	return post, nil
}

func (s *postService) Update(ctx context.Context, actor *models.User, postID string, req models.UpdatePostRequest) (*models.Post, error) {
	if err := checkMetaKeys(req.Meta); err != nil {
		return nil, err
	}

	var justPublished bool
	var postType string

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		post, err := editablePost(ctx, tx, actor, postID)
		if err != nil {
			return err
		}

		pt, err := postTypeOf(ctx, tx, post.PostType)
		if err != nil {
			return err
		}

		now := s.now()
		wasPublished := post.Published()

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return models.NewValidationError("Заголовок не может быть пустым")
			}
			post.Title = title
		}

		if req.Content != nil {
			if strings.TrimSpace(*req.Content) == "" {
				return models.NewValidationError("Содержимое не может быть пустым")
			}
			post.Content = *req.Content
		}

		if req.Excerpt != nil {
			post.Excerpt = *req.Excerpt
		}

		if req.Author != nil {
			post.Author = strings.TrimSpace(*req.Author)
			if post.Author == "" {
				post.Author = models.DefaultAuthor
			}
		}

		if req.Featured != nil {
			post.Featured = *req.Featured
		}

		if req.Slug != nil {
			source := strings.TrimSpace(*req.Slug)
			if source == "" {
				source = post.Title
			}
			if post.Slug, err = allocatePostSlug(ctx, tx, source, post.ID); err != nil {
				return err
			}
		}

		switch {
		case req.ClearParent:
			post.PostParent = nil
		case trimmed(req.PostParent) != "":
			if err := setParent(ctx, tx, pt, post, trimmed(req.PostParent)); err != nil {
				return err
			}
		}

		switch {
		case req.ClearCategory:
			post.CategoryID = nil
		case trimmed(req.CategoryID) != "":
			if err := setCategory(ctx, tx, pt, post, trimmed(req.CategoryID)); err != nil {
				return err
			}
		}

		status := post.PostStatus
		if req.PostStatus != nil {
			status = *req.PostStatus
			if !models.ValidStatus(status) {
				return models.NewValidationError("Недопустимый статус записи")
			}
		}

		if req.PublishedAt != nil {
			everPublished := post.PublishedAt != nil && !post.PublishedAt.After(now)
			if status != models.StatusDraft || everPublished {
				return models.NewValidationError("Дату публикации можно назначить только неопубликованному черновику")
			}
			post.Schedule(*req.PublishedAt)
		}

		post.ApplyStatus(status, now)
		post.UpdatedAt = now

		if err := tx.Post.Update(ctx, post); err != nil {
			return err
		}

		if req.Tags != nil {
			if _, err := s.replaceTags(ctx, tx, pt, post.ID, *req.Tags); err != nil {
				return err
			}
		}

		if err := setMeta(ctx, tx, post.ID, req.Meta); err != nil {
			return err
		}

		justPublished = !wasPublished && post.Published()
		postType = post.PostType
		return nil
	})
	if err != nil {
		return nil, err
	}

	if justPublished {
		s.recorder.RecordPostPublished(postType)
	}

	return s.Get(ctx, postID)
}

// Transition moves the post into status. Publishing an already published post changes nothing.
func (s *postService) Transition(ctx context.Context, actor *models.User, postID, status string) (*models.Post, error) {
	if !models.ValidStatus(status) {
		return nil, models.NewValidationError("Недопустимый статус записи")
	}

	return s.Update(ctx, actor, postID, models.UpdatePostRequest{PostStatus: &status})
}

// Delete removes the post with its metadata and tag links. Children, images,
// categories and tags survive.
func (s *postService) Delete(ctx context.Context, actor *models.User, postID string) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := editablePost(ctx, tx, actor, postID); err != nil {
			return err
		}

		if err := tx.Meta.DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if err := tx.Tag.DeleteByPost(ctx, postID); err != nil {
			return err
		}
		if err := tx.Post.DetachChildren(ctx, postID); err != nil {
			return err
		}
		if err := tx.Image.DetachPost(ctx, postID); err != nil {
			return err
		}

		return tx.Post.Delete(ctx, postID)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("post_id", postID).Msg("Запись удалена")
	return nil
}

func (s *postService) Get(ctx context.Context, postID string) (*models.Post, error) {
	post, err := s.repo.Post.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := expandPosts(ctx, s.repo, post); err != nil {
		return nil, err
	}

	return post, nil
}

// GetVisible returns the post when actor may see it: published posts are open
// to everyone, the rest only to those who may edit them.
func (s *postService) GetVisible(ctx context.Context, actor *models.User, postID string) (*models.Post, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.CanBeViewedBy(actor) {
		return nil, models.NewForbiddenError("Недостаточно прав для просмотра записи")
	}

	return post, nil
}

func (s *postService) GetPublishedBySlug(ctx context.Context, slug, postType string) (*models.Post, error) {
	post, err := s.repo.Post.GetPublishedBySlug(ctx, slug, postType)
	if err != nil {
		return nil, err
	}

	if err := expandPosts(ctx, s.repo, post); err != nil {
		return nil, err
	}

	return post, nil
}

func (s *postService) ListPublished(ctx context.Context, postType string, order repository.PostOrder) ([]*models.Post, error) {
	posts, err := s.repo.Post.ListPublished(ctx, postType, order)
	if err != nil {
		return nil, err
	}
	return posts, expandPosts(ctx, s.repo, posts...)
}

func (s *postService) ListFeatured(ctx context.Context, postType string) ([]*models.Post, error) {
	posts, err := s.repo.Post.ListFeatured(ctx, postType, models.FeaturedLimit)
	if err != nil {
		return nil, err
	}
	return posts, expandPosts(ctx, s.repo, posts...)
}

// ListByType lists posts of every status to administrators. Anybody else sees
// the published posts and their own.
func (s *postService) ListByType(ctx context.Context, actor *models.User, postType string) ([]*models.Post, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var posts []*models.Post
	var err error
	if actor.IsAdmin {
		posts, err = s.repo.Post.ListByType(ctx, postType)
	} else {
		posts, err = s.repo.Post.ListVisible(ctx, postType, actor.UserID)
	}
	if err != nil {
		return nil, err
	}
	return posts, expandPosts(ctx, s.repo, posts...)
}

// SetTags replaces the whole tag set of the post with the comma separated names.
func (s *postService) SetTags(ctx context.Context, actor *models.User, postID, tags string) (*models.Post, error) {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		post, err := editablePost(ctx, tx, actor, postID)
		if err != nil {
			return err
		}

		pt, err := postTypeOf(ctx, tx, post.PostType)
		if err != nil {
			return err
		}

		_, err = s.replaceTags(ctx, tx, pt, post.ID, tags)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, postID)
}

func (s *postService) GetMeta(ctx context.Context, postID, key, defaultValue string) (string, error) {
	meta, err := s.repo.Meta.Get(ctx, postID, key)
	if err != nil {
		if models.IsNotFound(err) {
			return defaultValue, nil
		}
		return "", err
	}
	return meta.MetaValue, nil
}

func (s *postService) SetMeta(ctx context.Context, actor *models.User, postID, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.NewValidationError("Ключ метаданных не может быть пустым")
	}

	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := editablePost(ctx, tx, actor, postID); err != nil {
			return err
		}
		return tx.Meta.Set(ctx, postID, key, value)
	})
}

func (s *postService) DeleteMeta(ctx context.Context, actor *models.User, postID, key string) error {
	return s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := editablePost(ctx, tx, actor, postID); err != nil {
			return err
		}
		return tx.Meta.Delete(ctx, postID, key)
	})
}

func (s *postService) GetAllMeta(ctx context.Context, postID string) (map[string]string, error) {
	rows, err := s.repo.Meta.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string, len(rows))
	for _, row := range rows {
		meta[row.MetaKey] = row.MetaValue
	}
	return meta, nil
}

// Render produces the HTML of the post body using its content_type, layout
// and sidebar_content metadata. Raw HTML is kept only for posts of
// administrators and for ownerless posts, which only administrators can edit.
func (s *postService) Render(ctx context.Context, post *models.Post) (render.Page, error) {
	meta, err := s.GetAllMeta(ctx, post.ID)
	if err != nil {
		return render.Page{}, err
	}

	trusted, err := s.trustedAuthor(ctx, post)
	if err != nil {
		return render.Page{}, err
	}

	return render.RenderPage(post.Content, meta, trusted), nil
}

func (s *postService) trustedAuthor(ctx context.Context, post *models.Post) (bool, error) {
	if post.UserID == nil {
		return true, nil
	}

	owner, err := s.repo.User.GetByID(ctx, *post.UserID)
	if err != nil {
		if models.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return owner.IsAdmin, nil
}

// Preview renders a post of any status for someone allowed to edit it.
func (s *postService) Preview(ctx context.Context, actor *models.User, postID string) (*models.Post, render.Page, error) {
	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, render.Page{}, err
	}

	if !post.CanBeEditedBy(actor) {
		return nil, render.Page{}, models.NewForbiddenError("Недостаточно прав для просмотра записи")
	}

	page, err := s.Render(ctx, post)
	if err != nil {
		return nil, render.Page{}, err
	}

	return post, page, nil
}

// PublishScheduled publishes every post draft whose publication time has come.
// Running it again without new due drafts publishes nothing.
func (s *postService) PublishScheduled(ctx context.Context) (int64, error) {
	published, err := s.repo.Post.PublishDue(ctx, models.TypePost, s.now())
	if err != nil {
		s.log.Error().Err(err).Msg("Ошибка публикации отложенных постов")
		return 0, err
	}

	s.log.Info().Int64("published", published).Msg("Отложенные посты опубликованы")
	s.recorder.RecordScheduledPublished(published)

	return published, nil
}

// replaceTags resolves the comma separated names with one lookup, creates the
// missing tags and makes them the exact tag set of the post.
func (s *postService) replaceTags(ctx context.Context, tx *repository.Repository, pt *models.PostType, postID, raw string) ([]models.Tag, error) {
	names := ParseTagNames(raw)
	if len(names) > 0 && !pt.SupportsTags {
		return nil, models.NewValidationError("Тип записи " + pt.Name + " не поддерживает теги")
	}

	existing, err := tx.Tag.GetByNames(ctx, names)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.Tag, len(existing))
	for _, tag := range existing {
		byName[tag.Name] = tag
	}

	tags := make([]models.Tag, 0, len(names))
	ids := make([]string, 0, len(names))

	for _, name := range names {
		tag, ok := byName[name]
		if !ok {
			tagSlug, err := slug.EnsureUnique(ctx, slug.Slugify(name), func(ctx context.Context, candidate string) (bool, error) {
				return tx.Tag.SlugExists(ctx, candidate, "")
			})
			if err != nil {
				return nil, err
			}

			tag = models.Tag{Name: name, Slug: tagSlug, CreatedAt: s.now()}
			if err := tx.Tag.Create(ctx, &tag); err != nil {
				return nil, err
			}
		}

		tags = append(tags, tag)
		ids = append(ids, tag.ID)
	}

	if err := tx.Tag.SetPostTags(ctx, postID, ids); err != nil {
		return nil, err
	}

	return tags, nil
}

// ParseTagNames splits a comma separated list, dropping blanks and repeated names.
func ParseTagNames(raw string) []string {
	seen := make(map[string]bool)
	var names []string

	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	return names
}

func editablePost(ctx context.Context, tx *repository.Repository, actor *models.User, postID string) (*models.Post, error) {
	post, err := tx.Post.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if !post.CanBeEditedBy(actor) {
		return nil, models.NewForbiddenError("Недостаточно прав для изменения записи")
	}

	return post, nil
}

func postTypeOf(ctx context.Context, tx *repository.Repository, name string) (*models.PostType, error) {
	pt, err := tx.PostType.Get(ctx, name)
	if err != nil {
		if models.IsNotFound(err) {
			return nil, models.NewValidationError("Неизвестный тип записи: " + name)
		}
		return nil, err
	}
	return pt, nil
}

// setParent links post under parentID. Only hierarchical types have parents, and
// the chain of ancestors must not lead back to the post itself.
func setParent(ctx context.Context, tx *repository.Repository, pt *models.PostType, post *models.Post, parentID string) error {
	if !pt.Hierarchical {
		return models.NewValidationError("Тип записи " + pt.Name + " не поддерживает иерархию")
	}
	if parentID == post.ID {
		return models.NewValidationError("Запись не может быть родителем самой себя")
	}

	visited := make(map[string]bool)
	current := parentID
	for current != "" && !visited[current] {
		if current == post.ID {
			return models.NewValidationError("Родительская связь образует цикл")
		}
		visited[current] = true

		ancestor, err := tx.Post.GetByID(ctx, current)
		if err != nil {
			if models.IsNotFound(err) {
				return models.NewValidationError("Родительская запись не найдена")
			}
			return err
		}

		if ancestor.PostParent == nil {
			break
		}
		current = *ancestor.PostParent
	}

	post.PostParent = &parentID
	return nil
}

func setCategory(ctx context.Context, tx *repository.Repository, pt *models.PostType, post *models.Post, categoryID string) error {
	if !pt.SupportsCategories {
		return models.NewValidationError("Тип записи " + pt.Name + " не поддерживает категории")
	}

	category, err := tx.Category.GetByID(ctx, categoryID)
	if err != nil {
		if models.IsNotFound(err) {
			return models.NewValidationError("Категория не найдена")
		}
		return err
	}

	post.CategoryID = &category.ID
	post.Category = category
	return nil
}

func allocatePostSlug(ctx context.Context, tx *repository.Repository, source, excludeID string) (string, error) {
	return slug.EnsureUnique(ctx, slug.Slugify(source), func(ctx context.Context, candidate string) (bool, error) {
		return tx.Post.SlugExists(ctx, candidate, excludeID)
	})
}

func checkMetaKeys(meta map[string]string) error {
	for key := range meta {
		if strings.TrimSpace(key) == "" {
			return models.NewValidationError("Ключ метаданных не может быть пустым")
		}
	}
	return nil
}

func setMeta(ctx context.Context, tx *repository.Repository, postID string, meta map[string]string) error {
	keys := make([]string, 0, len(meta))
	for key := range meta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := tx.Meta.Set(ctx, postID, strings.TrimSpace(key), meta[key]); err != nil {
			return err
		}
	}
	return nil
}

// expandPosts loads categories and tags of posts in two batched queries.
func expandPosts(ctx context.Context, repo *repository.Repository, posts ...*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(posts))
	var categoryIDs []string
	seen := make(map[string]bool)

	for _, post := range posts {
		postIDs = append(postIDs, post.ID)
		if post.CategoryID != nil && !seen[*post.CategoryID] {
			seen[*post.CategoryID] = true
			categoryIDs = append(categoryIDs, *post.CategoryID)
		}
	}

	categories, err := repo.Category.GetByIDs(ctx, categoryIDs)
	if err != nil {
		return err
	}

	tags, err := repo.Tag.ListByPosts(ctx, postIDs)
	if err != nil {
		return err
	}

	for _, post := range posts {
		if post.CategoryID != nil {
			post.Category = categories[*post.CategoryID]
		}
		post.Tags = tags[post.ID]
	}

	return nil
}
