package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrBrainNotFound   = errors.New("shared brain not found")
)

// ContentService handles content CRUD scoped to an owner and the anonymous
// public view behind a share link.
type ContentService struct {
	contents  ContentStore
	shares    ShareStore
	users     UserStore
	validator StructValidator
}

// NewContentService creates a new ContentService.
func NewContentService(contents ContentStore, shares ShareStore, users UserStore, v StructValidator) *ContentService {
	return &ContentService{
		contents:  contents,
		shares:    shares,
		users:     users,
		validator: v,
	}
}

// Create stores a new item and its tags for userID.
func (s *ContentService) Create(ctx context.Context, userID int64, req model.CreateContentRequest) (model.Content, error) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Tags != nil {
		tags := make([]string, len(req.Tags))
		for i, tag := range req.Tags {
			tags[i] = strings.TrimSpace(tag)
		}
		req.Tags = tags
	}
	if err := s.validator.Struct(req); err != nil {
		return model.Content{}, err
	}

	content := model.Content{
		UserID:   userID,
		Title:    req.Title,
		Body:     req.Content,
		Type:     model.ContentType(req.Type),
		IsPublic: true,
		Tags:     req.Tags,
	}
	if req.IsPublic != nil {
		content.IsPublic = *req.IsPublic
	}
	if content.Tags == nil {
		content.Tags = []string{}
	}

	if err := s.contents.Create(ctx, &content); err != nil {
		return model.Content{}, fmt.Errorf("creating content: %w", err)
	}
	return content, nil
}

// List returns every item owned by userID with its tags.
func (s *ContentService) List(ctx context.Context, userID int64) ([]model.Content, error) {
	return s.contents.ListByUser(ctx, userID, false)
}

// Delete removes an item and its tags if userID owns it.
func (s *ContentService) Delete(ctx context.Context, userID int64, req model.DeleteContentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return err
	}

	err := s.contents.Delete(ctx, userID, req.ContentID)
	if errors.Is(err, repository.ErrContentNotFound) {
		return ErrContentNotFound
	}
	return err
}

// UpdateVisibility sets or toggles isPublic on an item owned by userID and
// returns the new value.
func (s *ContentService) UpdateVisibility(ctx context.Context, userID int64, req model.UpdateVisibilityRequest) (bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return false, err
	}

	isPublic, err := s.contents.SetVisibility(ctx, userID, req.ContentID, req.IsPublic)
	if errors.Is(err, repository.ErrContentNotFound) {
		return false, ErrContentNotFound
	}
	return isPublic, err
}

// Counts returns total, public and private item counts for userID.
func (s *ContentService) Counts(ctx context.Context, userID int64) (model.ContentCounts, error) {
	return s.contents.Counts(ctx, userID)
}

// PublicBrain resolves a share hash to its owner's name and public items.
func (s *ContentService) PublicBrain(ctx context.Context, hash string) (model.PublicBrain, error) {
	if hash == "" {
		return model.PublicBrain{}, ErrBrainNotFound
	}

	link, err := s.shares.GetByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrShareLinkNotFound) {
			return model.PublicBrain{}, ErrBrainNotFound
		}
		return model.PublicBrain{}, fmt.Errorf("resolving share link: %w", err)
	}

	owner, err := s.users.GetByID(ctx, link.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.PublicBrain{}, ErrBrainNotFound
		}
		return model.PublicBrain{}, fmt.Errorf("loading share owner: %w", err)
	}

	contents, err := s.contents.ListByUser(ctx, owner.ID, true)
	if err != nil {
		return model.PublicBrain{}, fmt.Errorf("listing public content: %w", err)
	}

	return model.PublicBrain{Username: owner.Username, Contents: contents}, nil
}
