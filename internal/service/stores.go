package service

import (
	"context"

	"github.com/secondbrain/secondbrain-go/internal/model"
)

// UserStore persists users. Create must reject a duplicate email with
// repository.ErrDuplicateEmail.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// ContentStore persists content items and their tags.
type ContentStore interface {
	Create(ctx context.Context, content *model.Content) error
	ListByUser(ctx context.Context, userID int64, publicOnly bool) ([]model.Content, error)
	Delete(ctx context.Context, userID, contentID int64) error
	SetVisibility(ctx context.Context, userID, contentID int64, isPublic *bool) (bool, error)
	Counts(ctx context.Context, userID int64) (model.ContentCounts, error)
}

// ShareStore persists share links. Create must be an atomic insert-if-absent
// returning repository.ErrShareOwnerExists or repository.ErrShareHashCollision.
type ShareStore interface {
	Create(ctx context.Context, link *model.ShareLink) error
	GetByUser(ctx context.Context, userID int64) (*model.ShareLink, error)
	GetByHash(ctx context.Context, hash string) (*model.ShareLink, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// PasswordHasher is a one-way hash-and-compare primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(password, encodedHash string) (bool, error)
}

// TokenIssuer issues bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}

// LinkGenerator produces candidate share link hashes.
type LinkGenerator interface {
	Generate(ownerID int64) (string, error)
}

// StructValidator validates request structs.
type StructValidator interface {
	Struct(s any) error
}
