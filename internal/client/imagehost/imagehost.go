package imagehost

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("image too large")
	ErrUpload   = errors.New("image upload failed")
)

// MaxBytes is the largest accepted screenshot.
const MaxBytes = 32 << 20

// Image is a hosted picture.
type Image struct {
	URL      string
	ThumbURL string
}

// Uploader stores an image and returns where it can be viewed.
type Uploader interface {
	Upload(ctx context.Context, name string, data []byte) (*Image, error)
}

// sniff returns the detected mime type of data, or an error when data is
// not an acceptable image.
func sniff(data []byte) (*mimetype.MIME, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrNotImage)
	}
	if len(data) > MaxBytes {
		return nil, fmt.Errorf("%w: %s exceeds %s", ErrTooLarge,
			humanize.IBytes(uint64(len(data))), humanize.IBytes(MaxBytes))
	}
	m := mimetype.Detect(data)
	if !strings.HasPrefix(m.String(), "image/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotImage, m.String())
	}
	return m, nil
}
