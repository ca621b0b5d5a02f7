package service

import (
	"bytes"
	"context"
	"io"

	"github.com/rs/zerolog"

	"blogCMS/internal/media"
	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
	"blogCMS/internal/repository"
	"blogCMS/internal/storage"
)

type MediaService interface {
	Upload(ctx context.Context, actor *models.User, postID *string, filename string, file io.Reader) (*models.Image, error)
	Delete(ctx context.Context, actor *models.User, imageID string) error
	ListByPost(ctx context.Context, actor *models.User, postID string) ([]models.Image, error)
}

type mediaService struct {
	postRepo  repository.PostRepository
	imageRepo repository.ImageRepository
	storage   storage.Storage
	settings  SettingService
	recorder  metrics.Recorder
	log       zerolog.Logger
}

func NewMediaService(
	postRepo repository.PostRepository,
	imageRepo repository.ImageRepository,
	store storage.Storage,
	settings SettingService,
	recorder metrics.Recorder,
	log zerolog.Logger,
) MediaService {
	return &mediaService{
		postRepo:  postRepo,
		imageRepo: imageRepo,
		storage:   store,
		settings:  settings,
		recorder:  recorder,
		log:       log.With().Str("component", "media_service").Logger(),
	}
}

// Upload re-encodes the image within the configured bounds, stores it and
// records it, optionally tied to a post the actor may edit.
func (s *mediaService) Upload(ctx context.Context, actor *models.User, postID *string, filename string, file io.Reader) (*models.Image, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	if err := media.CheckFilename(filename); err != nil {
		return nil, err
	}

	if postID != nil {
		post, err := s.postRepo.GetByID(ctx, *postID)
		if err != nil {
			return nil, err
		}
		if !post.CanBeEditedBy(actor) {
			return nil, models.NewForbiddenError("Недостаточно прав для добавления изображения к записи")
		}
	}

	opts, err := s.settings.ImageSettings(ctx)
	if err != nil {
		return nil, err
	}

	data, err := media.Process(file, media.Options{
		MaxWidth:  opts.MaxWidth,
		MaxHeight: opts.MaxHeight,
		Quality:   opts.Quality,
	})
	if err != nil {
		return nil, err
	}

	objectName, imageURL, err := s.storage.UploadImage(ctx, bytes.NewReader(data), int64(len(data)), media.ContentType, media.Extension)
	if err != nil {
		return nil, models.NewStorageError("Ошибка загрузки изображения в хранилище", err)
	}

	uploader := actor.UserID
	image := &models.Image{
		PostID:     postID,
		UserID:     &uploader,
		ObjectName: objectName,
		ImageURL:   imageURL,
		CreatedAt:  utcNow(),
	}

	if err := s.imageRepo.Create(ctx, image); err != nil {
		if delErr := s.storage.DeleteImage(context.WithoutCancel(ctx), objectName); delErr != nil {
			s.log.Warn().Err(delErr).Str("object", objectName).Msg("Не удалось удалить загруженный объект")
		}
		return nil, err
	}

	s.recorder.RecordImageUploaded()
	s.log.Info().Str("image_id", image.ImageID).Str("object", objectName).Int("bytes", len(data)).Msg("Изображение загружено")

	return image, nil
}

// Delete removes the stored object and its record. A missing object does not block removing the record.
func (s *mediaService) Delete(ctx context.Context, actor *models.User, imageID string) error {
	if err := requireActor(actor); err != nil {
		return err
	}

	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}

	allowed, err := s.canManage(ctx, actor, image)
	if err != nil {
		return err
	}
	if !allowed {
		return models.NewForbiddenError("Недостаточно прав для удаления изображения")
	}

	if err := s.storage.DeleteImage(ctx, image.ObjectName); err != nil {
		s.log.Warn().Err(err).Str("object", image.ObjectName).Msg("Не удалось удалить объект из хранилища")
	}

	return s.imageRepo.Delete(ctx, imageID)
}

func (s *mediaService) ListByPost(ctx context.Context, actor *models.User, postID string) ([]models.Image, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.CanBeViewedBy(actor) {
		return nil, models.NewForbiddenError("Недостаточно прав для просмотра записи")
	}

	return s.imageRepo.ListByPost(ctx, postID)
}

// canManage allows administrators, the uploader and anyone who may edit the
// post the image belongs to.
func (s *mediaService) canManage(ctx context.Context, actor *models.User, image *models.Image) (bool, error) {
	if actor.IsAdmin {
		return true, nil
	}
	if image.UserID != nil && *image.UserID == actor.UserID {
		return true, nil
	}
	if image.PostID == nil {
		return false, nil
	}

	post, err := s.postRepo.GetByID(ctx, *image.PostID)
	if err != nil {
		if models.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return post.CanBeEditedBy(actor), nil
}
