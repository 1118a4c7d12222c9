package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository"
)

// MaxShareAttempts bounds hash regeneration after collisions.
const MaxShareAttempts = 3

var (
	ErrAlreadyShared           = errors.New("brain is already shared")
	ErrNotShared               = errors.New("brain is not shared")
	ErrLinkGenerationExhausted = errors.New("could not generate a unique share link")
)

// ShareService moves a user between the Unshared and Shared states. The
// presence of a share link row is the only record of the state.
type ShareService struct {
	shares    ShareStore
	generator LinkGenerator
}

// NewShareService creates a new ShareService.
func NewShareService(shares ShareStore, generator LinkGenerator) *ShareService {
	return &ShareService{shares: shares, generator: generator}
}

// Share publishes userID's brain. If it is already shared the existing link
// is returned together with ErrAlreadyShared and nothing is written.
func (s *ShareService) Share(ctx context.Context, userID int64) (model.ShareLink, error) {
	for attempt := 0; attempt < MaxShareAttempts; attempt++ {
		hash, err := s.generator.Generate(userID)
		if err != nil {
			return model.ShareLink{}, fmt.Errorf("generating share link: %w", err)
		}

		link := model.ShareLink{Hash: hash, UserID: userID}
		err = s.shares.Create(ctx, &link)
		switch {
		case err == nil:
			return link, nil
		case errors.Is(err, repository.ErrShareHashCollision):
			continue
		case errors.Is(err, repository.ErrShareOwnerExists):
			existing, err := s.shares.GetByUser(ctx, userID)
			if errors.Is(err, repository.ErrShareLinkNotFound) {
				// Unshared between our insert and this read; try again.
				continue
			}
			if err != nil {
				return model.ShareLink{}, fmt.Errorf("loading existing share link: %w", err)
			}
			return *existing, ErrAlreadyShared
		default:
			return model.ShareLink{}, fmt.Errorf("creating share link: %w", err)
		}
	}
	return model.ShareLink{}, ErrLinkGenerationExhausted
}

// Unshare removes userID's share link. It fails with ErrNotShared when there
// is none, leaving state unchanged.
func (s *ShareService) Unshare(ctx context.Context, userID int64) error {
	err := s.shares.DeleteByUser(ctx, userID)
	if errors.Is(err, repository.ErrShareLinkNotFound) {
		return ErrNotShared
	}
	return err
}

// Status reports userID's current share link, if any.
func (s *ShareService) Status(ctx context.Context, userID int64) (model.ShareStatus, error) {
	link, err := s.shares.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrShareLinkNotFound) {
		return model.ShareStatus{}, nil
	}
	if err != nil {
		return model.ShareStatus{}, err
	}
	return model.ShareStatus{Shared: true, Hash: link.Hash}, nil
}
