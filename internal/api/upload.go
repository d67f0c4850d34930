package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/realestate/rems-frontend/internal/models"
	"github.com/realestate/rems-frontend/pkg/metrics"
)

// DefaultMaxUploadBytes is the largest image accepted for upload.
const DefaultMaxUploadBytes int64 = 10 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadFile is one image selected for upload.
type UploadFile struct {
	Name string
	Data []byte
}

// ReadUploadFile loads an image from disk.
func ReadUploadFile(path string) (UploadFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return UploadFile{}, err
	}
	return UploadFile{Name: filepath.Base(path), Data: b}, nil
}

type UploadService struct {
	c        *Client
	maxBytes int64
}

func NewUploadService(c *Client, maxBytes int64) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{c: c, maxBytes: maxBytes}
}

// Validate checks the file content type and size. The type is sniffed from
// the content, not taken from the file name.
func (s *UploadService) Validate(f UploadFile) error {
	if len(f.Data) == 0 {
		return s.reject(f, RejectEmpty, "No file selected")
	}
	if !allowedImageTypes[mimetype.Detect(f.Data).String()] {
		return s.reject(f, RejectType, "Invalid file type. Only images are allowed")
	}
	if int64(len(f.Data)) > s.maxBytes {
		return s.reject(f, RejectSize, fmt.Sprintf("File size exceeds %dMB limit", s.maxBytes>>20))
	}
	return nil
}

func (s *UploadService) reject(f UploadFile, reason, msg string) error {
	metrics.UploadRejected.WithLabelValues(reason).Inc()
	return &UploadRejectedError{File: f.Name, Reason: reason, Message: msg}
}

// Upload sends one image and returns the stored image path.
func (s *UploadService) Upload(ctx context.Context, f UploadFile) (string, error) {
	if err := s.Validate(f); err != nil {
		return "", err
	}
	return s.send(ctx, f)
}

func (s *UploadService) send(ctx context.Context, f UploadFile) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	h.Set("Content-Type", mimetype.Detect(f.Data).String())
	part, err := w.CreatePart(h)
	if err != nil {
		return "", &TransportError{Op: "upload image", Err: err}
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", &TransportError{Op: "upload image", Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &TransportError{Op: "upload image", Err: err}
	}

	var m models.APIMessage
	err = s.c.do(ctx, call{
		service: "upload", op: "upload image",
		method: http.MethodPost, path: "/upload",
		body: &buf, ctype: w.FormDataContentType(),
		fallback: "Failed to upload image",
	}, &m)
	if err != nil {
		return "", err
	}
	if m.Message == "" {
		return "", &DecodeError{Op: "upload image", Err: errors.New("missing image path")}
	}
	return m.Message, nil
}

// UploadAll validates every file, then uploads them concurrently. Paths are
// returned in input order. Nothing is sent when any file is invalid, and the
// first failed upload fails the batch.
func (s *UploadService) UploadAll(ctx context.Context, files []UploadFile) ([]string, error) {
	for _, f := range files {
		if err := s.Validate(f); err != nil {
			return nil, err
		}
	}
	paths := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		g.Go(func() error {
			p, err := s.send(gctx, f)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
