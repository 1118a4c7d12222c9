// Package memory is an in-process implementation of the repository
// contracts. It enforces the same unique constraints as the MySQL schema
// and is used for local development without a database and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository"
)

type tag struct {
	id        int64
	name      string
	contentID int64
}

// Store holds all tables behind one mutex so multi-table operations are atomic.
type Store struct {
	mu sync.RWMutex

	now func() time.Time

	users        map[int64]model.User
	userByEmail  map[string]int64
	contents     map[int64]model.Content
	tags         map[int64]tag
	shareByHash  map[string]model.ShareLink
	shareByOwner map[int64]string

	nextUserID    int64
	nextContentID int64
	nextTagID     int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:          func() time.Time { return time.Now().UTC() },
		users:        make(map[int64]model.User),
		userByEmail:  make(map[string]int64),
		contents:     make(map[int64]model.Content),
		tags:         make(map[int64]tag),
		shareByHash:  make(map[string]model.ShareLink),
		shareByOwner: make(map[int64]string),
	}
}

// Users returns the user table view.
func (s *Store) Users() *Users { return &Users{s: s} }

// Contents returns the content and tag table view.
func (s *Store) Contents() *Contents { return &Contents{s: s} }

// Shares returns the share link table view.
func (s *Store) Shares() *Shares { return &Shares{s: s} }

// TagCount returns the number of stored tag rows for contentID. Like
// ShareCount it inspects table state directly, bypassing the store views,
// so callers can check row-level effects such as tag cleanup.
func (s *Store) TagCount(contentID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tags {
		if t.contentID == contentID {
			n++
		}
	}
	return n
}

// Users implements the user store contract.
type Users struct{ s *Store }

func (u *Users) Create(_ context.Context, user *model.User) error {
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.userByEmail[key]; exists {
		return repository.ErrDuplicateEmail
	}

	s.nextUserID++
	now := s.now()
	user.ID = s.nextUserID
	user.CreatedAt = now
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.userByEmail[key] = user.ID
	return nil
}

func (u *Users) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByEmail[strings.ToLower(email)]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user := s.users[id]
	return &user, nil
}

func (u *Users) GetByID(_ context.Context, id int64) (*model.User, error) {
	s := u.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

// Contents implements the content store contract.
type Contents struct{ s *Store }

func (c *Contents) Create(_ context.Context, content *model.Content) error {
	if !content.Type.Valid() {
		return fmt.Errorf("unknown content type %q", content.Type)
	}

	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextContentID++
	content.ID = s.nextContentID
	content.CreatedAt = s.now()

	stored := *content
	stored.Tags = nil
	s.contents[content.ID] = stored

	for _, name := range content.Tags {
		s.nextTagID++
		s.tags[s.nextTagID] = tag{id: s.nextTagID, name: name, contentID: content.ID}
	}
	return nil
}

func (c *Contents) ListByUser(_ context.Context, userID int64, publicOnly bool) ([]model.Content, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Content{}
	index := make(map[int64]int)
	for _, content := range s.contents {
		if content.UserID != userID || (publicOnly && !content.IsPublic) {
			continue
		}
		content.Tags = []string{}
		out = append(out, content)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	for i, content := range out {
		index[content.ID] = i
	}

	tagIDs := make([]int64, 0, len(s.tags))
	for id := range s.tags {
		tagIDs = append(tagIDs, id)
	}
	sort.Slice(tagIDs, func(i, j int) bool { return tagIDs[i] < tagIDs[j] })
	for _, id := range tagIDs {
		t := s.tags[id]
		if i, ok := index[t.contentID]; ok {
			out[i].Tags = append(out[i].Tags, t.name)
		}
	}
	return out, nil
}

func (c *Contents) Delete(_ context.Context, userID, contentID int64) error {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[contentID]
	if !ok || content.UserID != userID {
		return repository.ErrContentNotFound
	}

	for id, t := range s.tags {
		if t.contentID == contentID {
			delete(s.tags, id)
		}
	}
	delete(s.contents, contentID)
	return nil
}

func (c *Contents) SetVisibility(_ context.Context, userID, contentID int64, isPublic *bool) (bool, error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()

	content, ok := s.contents[contentID]
	if !ok || content.UserID != userID {
		return false, repository.ErrContentNotFound
	}

	next := !content.IsPublic
	if isPublic != nil {
		next = *isPublic
	}
	content.IsPublic = next
	s.contents[contentID] = content
	return next, nil
}

func (c *Contents) Counts(_ context.Context, userID int64) (model.ContentCounts, error) {
	s := c.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	var counts model.ContentCounts
	for _, content := range s.contents {
		if content.UserID != userID {
			continue
		}
		counts.Total++
		if content.IsPublic {
			counts.Public++
		} else {
			counts.Private++
		}
	}
	return counts, nil
}

// Shares implements the share link store contract.
type Shares struct{ s *Store }

func (sh *Shares) Create(_ context.Context, link *model.ShareLink) error {
	s := sh.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.shareByOwner[link.UserID]; exists {
		return repository.ErrShareOwnerExists
	}
	if _, exists := s.shareByHash[link.Hash]; exists {
		return repository.ErrShareHashCollision
	}

	link.CreatedAt = s.now()
	s.shareByHash[link.Hash] = *link
	s.shareByOwner[link.UserID] = link.Hash
	return nil
}

func (sh *Shares) GetByUser(_ context.Context, userID int64) (*model.ShareLink, error) {
	s := sh.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.shareByOwner[userID]
	if !ok {
		return nil, repository.ErrShareLinkNotFound
	}
	link := s.shareByHash[hash]
	return &link, nil
}

func (sh *Shares) GetByHash(_ context.Context, hash string) (*model.ShareLink, error) {
	s := sh.s
	s.mu.RLock()
	defer s.mu.RUnlock()

	link, ok := s.shareByHash[hash]
	if !ok {
		return nil, repository.ErrShareLinkNotFound
	}
	return &link, nil
}

func (sh *Shares) DeleteByUser(_ context.Context, userID int64) error {
	s := sh.s
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, ok := s.shareByOwner[userID]
	if !ok {
		return repository.ErrShareLinkNotFound
	}
	delete(s.shareByOwner, userID)
	delete(s.shareByHash, hash)
	return nil
}

// ShareCount returns the number of share link rows owned by userID. It is
// an inspection helper alongside TagCount.
func (s *Store) ShareCount(userID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, link := range s.shareByHash {
		if link.UserID == userID {
			n++
		}
	}
	return n
}
