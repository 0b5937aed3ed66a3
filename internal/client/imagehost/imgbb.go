package imagehost

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gigrithm/gigrithm/internal/logging"
)

const DefaultImgBBEndpoint = "https://api.imgbb.com/1/upload"

// ImgBB uploads base64-encoded images with an API key.
type ImgBB struct {
	endpoint string
	key      string
	http     *http.Client
	logger   logging.Logger
}

func NewImgBB(endpoint, apiKey string, httpClient *http.Client, logger logging.Logger) *ImgBB {
	if endpoint == "" {
		endpoint = DefaultImgBBEndpoint
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &ImgBB{endpoint: endpoint, key: apiKey, http: httpClient, logger: logger.With("component", "imgbb")}
}

type imgbbResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		URL   string `json:"url"`
		Thumb struct {
			URL string `json:"url"`
		} `json:"thumb"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (u *ImgBB) Upload(ctx context.Context, name string, data []byte) (*Image, error) {
	if _, err := sniff(data); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := [][2]string{
		{"key", u.key},
		{"image", base64.StdEncoding.EncodeToString(data)},
		{"name", name},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpload, err)
	}
	var out imgbbResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: status %d: %v", ErrUpload, resp.StatusCode, err)
	}
	if !out.Success || out.Data.URL == "" {
		msg := out.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		u.logger.Warn(ctx, "upload rejected", "status", resp.StatusCode, "error", msg)
		return nil, fmt.Errorf("%w: %s", ErrUpload, msg)
	}

	img := &Image{URL: out.Data.URL, ThumbURL: out.Data.Thumb.URL}
	if img.ThumbURL == "" {
		img.ThumbURL = img.URL
	}
	u.logger.Debug(ctx, "image uploaded", "name", name, "url", img.URL)
	return img, nil
}
