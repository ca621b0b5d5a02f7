package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogCMS/internal/metrics"
	"blogCMS/internal/models"
)

type memoryStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	seq       int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) UploadImage(ctx context.Context, file io.Reader, size int64, contentType, ext string) (string, string, error) {
	if m.uploadErr != nil {
		return "", "", m.uploadErr
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	name := fmt.Sprintf("uploads/test/%d%s", m.seq, ext)
	m.objects[name] = data
	return name, m.GetImageURL(name), nil
}

func (m *memoryStorage) DeleteImage(ctx context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, objectName)
	return nil
}

func (m *memoryStorage) GetImageURL(objectName string) string {
	return "http://cdn.test/" + objectName
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	store := newMemoryStorage()

	settings := NewSettingService(env.repo.Setting, testImageDefaults, zerolog.Nop())
	require.NoError(t, settings.UpdateImageSettings(ctx, models.ImageSettings{MaxWidth: 200, MaxHeight: 200, Quality: 80}))

	svc := NewMediaService(env.repo.Post, env.repo.Image, store, settings, metrics.Nop{}, zerolog.Nop())

	author := env.user(t, "author", false)
	stranger := env.user(t, "stranger", false)
	admin := env.user(t, "admin", true)
	post := env.createPost(t, author, models.CreatePostRequest{Title: "With image"})

	t.Run("Загрузка с уменьшением", func(t *testing.T) {
		img, err := svc.Upload(ctx, author, &post.ID, "photo.png", bytes.NewReader(testPNG(t, 800, 400)))
		require.NoError(t, err)
		assert.Equal(t, "http://cdn.test/"+img.ObjectName, img.ImageURL)

		stored, ok := store.objects[img.ObjectName]
		require.True(t, ok)

		decoded, err := jpeg.Decode(bytes.NewReader(stored))
		require.NoError(t, err)
		assert.Equal(t, 200, decoded.Bounds().Dx())
		assert.Equal(t, 100, decoded.Bounds().Dy())

		images, err := svc.ListByPost(ctx, author, post.ID)
		require.NoError(t, err)
		require.Len(t, images, 1)
		assert.Equal(t, img.ImageID, images[0].ImageID)
	})

	t.Run("SVG отклоняется", func(t *testing.T) {
		_, err := svc.Upload(ctx, author, nil, "logo.svg", bytes.NewReader([]byte("<svg/>")))
		assert.Equal(t, models.KindValidation, models.KindOf(err))
	})

	t.Run("Запись не существует", func(t *testing.T) {
		_, err := svc.Upload(ctx, author, strPtr("missing"), "a.png", bytes.NewReader(testPNG(t, 10, 10)))
		assert.Equal(t, models.KindNotFound, models.KindOf(err))
	})

	t.Run("Ошибка хранилища", func(t *testing.T) {
		store.uploadErr = assert.AnError
		defer func() { store.uploadErr = nil }()

		_, err := svc.Upload(ctx, author, nil, "a.png", bytes.NewReader(testPNG(t, 10, 10)))
		assert.Equal(t, models.KindStorage, models.KindOf(err))
	})

	t.Run("Удаление", func(t *testing.T) {
		img, err := svc.Upload(ctx, author, nil, "b.jpg", bytes.NewReader(testPNG(t, 10, 10)))
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, author, img.ImageID))
		_, ok := store.objects[img.ObjectName]
		assert.False(t, ok)

		err = svc.Delete(ctx, author, img.ImageID)
		assert.Equal(t, models.KindNotFound, models.KindOf(err))
	})

	t.Run("Без пользователя", func(t *testing.T) {
		_, err := svc.Upload(ctx, nil, nil, "a.png", bytes.NewReader(testPNG(t, 10, 10)))
		assert.Equal(t, models.KindForbidden, models.KindOf(err))
	})

	t.Run("Чужая запись", func(t *testing.T) {
		_, err := svc.Upload(ctx, stranger, &post.ID, "a.png", bytes.NewReader(testPNG(t, 10, 10)))
		assert.Equal(t, models.KindForbidden, models.KindOf(err))

		images, err := svc.ListByPost(ctx, author, post.ID)
		require.NoError(t, err)
		assert.Len(t, images, 1)
	})

	t.Run("Чужой черновик не показывает изображения", func(t *testing.T) {
		_, err := svc.ListByPost(ctx, stranger, post.ID)
		assert.Equal(t, models.KindForbidden, models.KindOf(err))
	})

	t.Run("Чужое изображение не удаляется", func(t *testing.T) {
		attached, err := svc.Upload(ctx, author, &post.ID, "c.png", bytes.NewReader(testPNG(t, 10, 10)))
		require.NoError(t, err)
		loose, err := svc.Upload(ctx, author, nil, "d.png", bytes.NewReader(testPNG(t, 10, 10)))
		require.NoError(t, err)

		for _, img := range []*models.Image{attached, loose} {
			err := svc.Delete(ctx, stranger, img.ImageID)
			assert.Equal(t, models.KindForbidden, models.KindOf(err))

			_, ok := store.objects[img.ObjectName]
			assert.True(t, ok)
		}

		require.NoError(t, svc.Delete(ctx, admin, loose.ImageID))
		require.NoError(t, svc.Delete(ctx, author, attached.ImageID))
	})
}
