// Package image turns a locally selected picture into a reference the
// catalog can store.
package image

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Selection is a picture chosen on the device, distinct from a typed URL
type Selection struct {
	Path        string
	ContentType string
}

// PutInput describes one object handed to a Storage driver
type PutInput struct {
	Key         string
	Size        int64
	ContentType string
}

// Storage persists image bytes and returns the stored reference
type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (string, error)
}

// Resolver resolves selections through a Storage driver
type Resolver struct {
	storage Storage
	log     *zap.Logger
}

// NewResolver creates a resolver backed by storage
func NewResolver(storage Storage, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{storage: storage, log: log}
}

// Resolve stores the selected file and returns its reference
func (r *Resolver) Resolve(ctx context.Context, sel Selection) (string, error) {
	f, err := os.Open(sel.Path)
	if err != nil {
		return "", fmt.Errorf("open selected image: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat selected image: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(sel.Path))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := sel.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	in := PutInput{
		Key:         "temp_image_" + uuid.NewString() + ext,
		Size:        info.Size(),
		ContentType: contentType,
	}
	ref, err := r.storage.Put(ctx, f, in)
	if err != nil {
		r.log.Warn("Failed to store image", zap.String("path", sel.Path), zap.Error(err))
		return "", fmt.Errorf("store image: %w", err)
	}

	r.log.Debug("Image stored", zap.String("key", in.Key), zap.String("ref", ref))
	return ref, nil
}
