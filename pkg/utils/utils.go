package utils

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/oklog/ulid/v2"
	_ "golang.org/x/image/webp"
)

var ErrEmptyImage = errors.New("image data is empty")

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	FileExtension(filename string) string
	IsAllowedExtension(filename string, allowed []string) bool
	ReadMultipartFile(file *multipart.FileHeader) ([]byte, error)
	DecodeImage(data []byte) (image.Image, error)
	EncodeJPEG(img image.Image) ([]byte, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// FileExtension returns the lowercased text after the last dot, or "" when
// the name has no dot.
func (u *utils) FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}

func (u *utils) IsAllowedExtension(filename string, allowed []string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}

	ext := u.FileExtension(filename)
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

func (u *utils) ReadMultipartFile(file *multipart.FileHeader) ([]byte, error) {
	if file == nil {
		return nil, errors.New("no file uploaded")
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return io.ReadAll(src)
}

// DecodeImage turns encoded bytes into a pixel grid, applying EXIF
// orientation so face boxes line up with what the caller sees.
func (u *utils) DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	return img, nil
}

func (u *utils) EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
