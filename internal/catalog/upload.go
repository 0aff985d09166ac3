package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// MaxImageSize 单张图片上限
const MaxImageSize = 5 << 20

var (
	ErrImageEmpty    = errors.New("image is empty")
	ErrImageTooLarge = errors.New("image too large")
	ErrImageType     = errors.New("image type not supported")
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// UploadImage 以 multipart 上传图片，字段名 image
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (*Envelope[UploadResult], error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedImageExt[ext]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrImageType, ext)
	}
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrImageEmpty
	}
	if len(data) > MaxImageSize {
		return nil, ErrImageTooLarge
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	var env Envelope[UploadResult]
	if err := c.do(ctx, http.MethodPost, "/upload", &buf, writer.FormDataContentType(), &env); err != nil {
		return nil, err
	}
	return &env, nil
}
