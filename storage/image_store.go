package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"itblog-api/models"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	jpegQuality   = 85
	MaxUploadSize = 10 << 20 // 10MB

	// URLPrefix is where the router serves the upload directory.
	URLPrefix = "/uploads"
)

type ImageStore interface {
	// Save stores the uploaded image under dir and returns its public URL path.
	Save(dir string, file *multipart.FileHeader) (string, error)
	// Delete removes a file previously returned by Save. Missing files are ignored.
	Delete(url string) error
}

type LocalImageStore struct {
	root     string
	maxWidth int
}

func NewLocalImageStore(root string, maxWidth int) *LocalImageStore {
	return &LocalImageStore{root: root, maxWidth: maxWidth}
}

func (s *LocalImageStore) Save(dir string, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", models.NewValidationError(models.MsgImageRequired)
	}
	if file.Size > MaxUploadSize {
		return "", models.NewValidationError(models.MsgInvalidImage)
	}

	src, err := file.Open()
	if err != nil {
		return "", models.NewInternalError(models.MsgInternal, fmt.Errorf("open upload: %w", err))
	}
	defer src.Close()

	data, err := s.process(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return "", models.NewValidationError(models.MsgInvalidImage)
	}

	dir = cleanDir(dir)
	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", models.NewInternalError(models.MsgInternal, fmt.Errorf("create upload dir: %w", err))
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(target, name), data, 0o644); err != nil {
		return "", models.NewInternalError(models.MsgInternal, fmt.Errorf("write image: %w", err))
	}
	return path.Join(URLPrefix, dir, name), nil
}

// process decodes src, scales it down to maxWidth and re-encodes it as JPEG.
func (s *LocalImageStore) process(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if s.maxWidth > 0 && w > s.maxWidth {
		newH := h * s.maxWidth / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, s.maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *LocalImageStore) Delete(url string) error {
	if url == "" {
		return nil
	}
	rel := strings.TrimPrefix(path.Clean("/"+url), URLPrefix+"/")
	if rel == "" || strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		return fmt.Errorf("refusing to delete %q", url)
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func cleanDir(dir string) string {
	dir = strings.Trim(path.Clean("/"+dir), "/")
	if dir == "" || dir == "." {
		return "misc"
	}
	return dir
}
