// Package media normalizes uploaded images before they are stored.
package media

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"

	"blogCMS/internal/models"
)

const (
	ContentType = "image/jpeg"
	Extension   = ".jpg"
)

var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"svg":  true,
}

// Options bound the output image.
type Options struct {
	MaxWidth  int
	MaxHeight int
	Quality   int
}

// CheckFilename accepts only known image extensions. SVG is recognized but refused
// since it cannot be sanitized.
func CheckFilename(filename string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return models.NewValidationError("Недопустимый тип файла. Разрешены: png, jpg, jpeg, gif, webp")
	}
	if ext == "svg" {
		return models.NewValidationError("Загрузка SVG отключена")
	}
	return nil
}

// Process decodes r, flattens transparency onto white, shrinks the image to fit
// the bounds and re-encodes it as JPEG.
func Process(r io.Reader, opts Options) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.WithStack(&models.Error{
			Kind:    models.KindValidation,
			Message: "Не удалось прочитать изображение",
			Err:     err,
		})
	}

	img := flatten(src)

	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		img = resize.Thumbnail(uint(opts.MaxWidth), uint(opts.MaxHeight), img, resize.Lanczos3)
	}

	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, errors.Wrap(err, "ошибка кодирования JPEG")
	}

	return buf.Bytes(), nil
}

func flatten(src image.Image) image.Image {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
	return dst
}
