package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/logging"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
	"github.com/planora/planora/internal/shared"
)

// MaxImageSize caps note image uploads at 10MB.
const MaxImageSize = 10 << 20

// BlobStore is the file store the image service writes to. Both
// operations are synchronous and fail fast.
type BlobStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

// ImageService owns note image uploads: ownership checks, blob
// placement under the note's namespace and the image records.
//
// Unlike the rest of the API, ownership failures here surface as
// shared.ErrUnauthorized rather than not-found.
type ImageService struct {
	images *repository.ImageRepository
	notes  *repository.NoteRepository
	store  BlobStore
	log    logging.Logger
}

// NewImageService wires an image service.
func NewImageService(images *repository.ImageRepository, notes *repository.NoteRepository, store BlobStore, log logging.Logger) *ImageService {
	return &ImageService{images: images, notes: notes, store: store, log: log}
}

// ImageUpload describes an incoming file.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Upload validates the file, writes it to the blob store under
// notes/<note-id>/ and records it. The note must belong to the owner.
func (s *ImageService) Upload(ctx context.Context, ownerID, noteID uuid.UUID, up ImageUpload) (*models.NoteImage, error) {
	note, err := s.notes.GetByID(ctx, ownerID, noteID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if up.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", shared.ErrFileTooLarge, MaxImageSize)
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return nil, fmt.Errorf("%w: %s", shared.ErrUnsupportedType, up.ContentType)
	}

	filename := uuid.NewString() + strings.ToLower(filepath.Ext(up.Filename))
	key := fmt.Sprintf("notes/%s/%s", note.ID, filename)

	if err := s.store.Upload(ctx, key, up.ContentType, up.Body, up.Size); err != nil {
		return nil, err
	}

	img := &models.NoteImage{
		NoteID:           note.ID,
		Path:             key,
		Filename:         filename,
		OriginalFilename: up.Filename,
		MimeType:         up.ContentType,
		Size:             up.Size,
	}
	if err := s.images.Create(ctx, img); err != nil {
		return nil, err
	}
	s.log.Info(ctx, "image uploaded", "note_id", note.ID, "key", key, "size", up.Size)
	return img, nil
}

// List returns the images of one of the owner's notes.
func (s *ImageService) List(ctx context.Context, ownerID, noteID uuid.UUID) ([]models.NoteImage, error) {
	if _, err := s.notes.GetByID(ctx, ownerID, noteID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	return s.images.ListByNote(ctx, noteID)
}

// ListAll returns every image across the owner's notes.
func (s *ImageService) ListAll(ctx context.Context, ownerID uuid.UUID) ([]models.NoteImage, error) {
	return s.images.ListByOwner(ctx, ownerID)
}

// Delete removes the blob and then the record. A failure deleting the
// blob leaves the record in place so the file is not orphaned silently.
func (s *ImageService) Delete(ctx context.Context, ownerID, imageID uuid.UUID) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.Note == nil || img.Note.UserID != ownerID {
		return shared.ErrUnauthorized
	}
	if err := s.store.Delete(ctx, img.Path); err != nil {
		return err
	}
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return err
	}
	s.log.Info(ctx, "image deleted", "image_id", img.ID, "key", img.Path)
	return nil
}
