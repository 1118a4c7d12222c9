package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/secondbrain/secondbrain-go/internal/crypto"
	"github.com/secondbrain/secondbrain-go/internal/model"
	"github.com/secondbrain/secondbrain-go/internal/repository/memory"
)

// fixedGenerator returns the queued hashes in order, repeating the last one.
type fixedGenerator struct {
	mu     sync.Mutex
	hashes []string
	calls  int
}

func (g *fixedGenerator) Generate(int64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := g.calls
	if i >= len(g.hashes) {
		i = len(g.hashes) - 1
	}
	g.calls++
	return g.hashes[i], nil
}

func newRealGenerator(t *testing.T) *crypto.ShareLinkGenerator {
	t.Helper()
	g, err := crypto.NewShareLinkGenerator(crypto.DefaultShareLinkLength)
	require.NoError(t, err)
	return g
}

func TestShareIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	svc := NewShareService(store.Shares(), newRealGenerator(t))
	ctx := context.Background()

	first, err := svc.Share(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, first.Hash)

	second, err := svc.Share(ctx, 1)
	assert.ErrorIs(t, err, ErrAlreadyShared)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, 1, store.ShareCount(1))
}

func TestUnshare(t *testing.T) {
	store := memory.NewStore()
	svc := NewShareService(store.Shares(), newRealGenerator(t))
	ctx := context.Background()

	assert.ErrorIs(t, svc.Unshare(ctx, 1), ErrNotShared)
	assert.Zero(t, store.ShareCount(1))

	_, err := svc.Share(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Unshare(ctx, 1))
	assert.Zero(t, store.ShareCount(1))
	assert.ErrorIs(t, svc.Unshare(ctx, 1), ErrNotShared)

	again, err := svc.Share(ctx, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, again.Hash)
}

func TestShareRetriesHashCollision(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Shares().Create(context.Background(), &model.ShareLink{Hash: "taken", UserID: 99}))

	gen := &fixedGenerator{hashes: []string{"taken", "fresh"}}
	svc := NewShareService(store.Shares(), gen)

	link, err := svc.Share(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "fresh", link.Hash)
	assert.Equal(t, 2, gen.calls)
}

func TestShareExhaustsAttempts(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Shares().Create(context.Background(), &model.ShareLink{Hash: "taken", UserID: 99}))

	gen := &fixedGenerator{hashes: []string{"taken"}}
	svc := NewShareService(store.Shares(), gen)

	_, err := svc.Share(context.Background(), 1)
	assert.ErrorIs(t, err, ErrLinkGenerationExhausted)
	assert.Equal(t, MaxShareAttempts, gen.calls)
	assert.Zero(t, store.ShareCount(1))
}

type failingGenerator struct{}

func (failingGenerator) Generate(int64) (string, error) { return "", errors.New("no entropy") }

func TestShareGeneratorFailure(t *testing.T) {
	svc := NewShareService(memory.NewStore().Shares(), failingGenerator{})

	_, err := svc.Share(context.Background(), 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLinkGenerationExhausted)
}

func TestShareConcurrentCallsCreateOneLink(t *testing.T) {
	store := memory.NewStore()
	svc := NewShareService(store.Shares(), newRealGenerator(t))

	var wg sync.WaitGroup
	var mu sync.Mutex
	hashes := map[string]int{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			link, err := svc.Share(context.Background(), 5)
			if err != nil && !errors.Is(err, ErrAlreadyShared) {
				t.Errorf("Share() unexpected error: %v", err)
				return
			}
			mu.Lock()
			hashes[link.Hash]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.ShareCount(5))
	assert.Len(t, hashes, 1)
}

func TestShareStatus(t *testing.T) {
	store := memory.NewStore()
	svc := NewShareService(store.Shares(), newRealGenerator(t))
	ctx := context.Background()

	status, err := svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ShareStatus{}, status)

	link, err := svc.Share(ctx, 1)
	require.NoError(t, err)

	status, err = svc.Status(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ShareStatus{Shared: true, Hash: link.Hash}, status)
}
