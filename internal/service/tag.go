package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/planora/planora/internal/models"
	"github.com/planora/planora/internal/repository"
	"github.com/planora/planora/internal/shared"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a tag slug from its name: lower-cased, runs of
// non-alphanumeric characters collapsed to single hyphens, no leading
// or trailing hyphen.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// TagService manages the per-user tag registry.
type TagService struct {
	tags *repository.TagRepository
}

// NewTagService wires a tag service from its repository.
func NewTagService(tags *repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

// List returns the owner's tags alphabetically.
func (s *TagService) List(ctx context.Context, ownerID uuid.UUID) ([]models.Tag, error) {
	return s.tags.ListByOwner(ctx, ownerID)
}

// Create stores a new tag with a slug derived from its trimmed name.
// Reusing an existing name returns the existing row instead of a
// duplicate, matching the on-the-fly creation path.
func (s *TagService) Create(ctx context.Context, ownerID uuid.UUID, name, color, description string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if color == "" {
		color = models.DefaultTagColor
	}
	tag, err := s.tags.FirstOrCreateByName(ctx, ownerID, name, Slugify(name), color)
	if err != nil {
		return nil, err
	}
	if description != "" && tag.Description != description {
		tag.Description = description
		if err := s.tags.Save(ctx, tag); err != nil {
			return nil, err
		}
	}
	return tag, nil
}

// UpdateTagInput carries the optional fields of a tag update.
type UpdateTagInput struct {
	Name        *string
	Color       *string
	Description *string
}

// Update applies a partial update; renaming re-derives the slug.
func (s *TagService) Update(ctx context.Context, ownerID, id uuid.UUID, in UpdateTagInput) (*models.Tag, error) {
	tag, err := s.tags.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
		}
		tag.Name = name
		tag.Slug = Slugify(name)
	}
	if in.Color != nil {
		tag.Color = *in.Color
	}
	if in.Description != nil {
		tag.Description = *in.Description
	}
	if err := s.tags.Save(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// Delete removes the owner's tag and its task associations.
func (s *TagService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.tags.Delete(ctx, ownerID, id)
}
