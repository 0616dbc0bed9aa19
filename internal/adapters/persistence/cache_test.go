package persistence

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/adapters/cache"
	"github.com/boostclient/boostclient-service/internal/domain"
)

// recordingCache records the keys written to the wrapped cache.
type recordingCache struct {
	*cache.MemoryCache

	mu      sync.Mutex
	sets    []string
	deletes []string
}

func newRecordingCache(t *testing.T) *recordingCache {
	t.Helper()

	c := &recordingCache{MemoryCache: cache.NewMemoryCache()}
	t.Cleanup(func() { _ = c.MemoryCache.Close() })

	return c
}

func (c *recordingCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	c.sets = append(c.sets, key)
	c.mu.Unlock()

	return c.MemoryCache.Set(ctx, key, value, ttlSeconds)
}

func (c *recordingCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	c.deletes = append(c.deletes, key)
	c.mu.Unlock()

	return c.MemoryCache.Delete(ctx, key)
}

func (c *recordingCache) entryWrites() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, key := range c.sets {
		if !strings.HasSuffix(key, ":version") {
			n++
		}
	}

	return n
}

func (c *recordingCache) reset() {
	c.mu.Lock()
	c.sets = nil
	c.mu.Unlock()
}

// failingCache fails every operation.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, error)    { return nil, errors.New("down") }
func (failingCache) Set(context.Context, string, []byte, int) error { return errors.New("down") }
func (failingCache) Delete(context.Context, string) error           { return errors.New("down") }

func TestEntityCache_ServesReadsUntilWrite(t *testing.T) {
	db := newTestDB(t)
	store := newRecordingCache(t)
	entityCache := NewEntityCache(store, 0, discardLogger())
	employers := NewEmployerRepository(db, WithCache(entityCache))
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")

	_, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)

	// Change the row behind the repository's back: the cached copy still wins.
	_, err = rawDB(t, db).Exec("UPDATE employer SET name = 'Changed' WHERE id = ?", *employer.ID)
	require.NoError(t, err)

	cached, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", cached.Name)

	// A write through the repository invalidates the region.
	_, err = employers.Save(ctx, domain.NewEmployer().WithID(*employer.ID).WithName("NewCo"))
	require.NoError(t, err)

	fresh, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "NewCo", fresh.Name)
}

func TestEntityCache_RelatedRegionsAreInvalidated(t *testing.T) {
	db := newTestDB(t)
	entityCache := NewEntityCache(newRecordingCache(t), 0, discardLogger())
	employers := NewEmployerRepository(db, WithCache(entityCache))
	quotes := NewQuoteRepository(db, WithCache(entityCache))
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")
	quote := saveQuote(t, quotes, "Q", domain.Date(2024, 1, 1), employer)

	_, err := quotes.FindByID(ctx, *quote.ID)
	require.NoError(t, err)

	_, err = employers.Save(ctx, domain.NewEmployer().WithID(*employer.ID).WithName("Renamed"))
	require.NoError(t, err)

	reloaded, err := quotes.FindByID(ctx, *quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Employer.Name)
}

func TestEntityCache_UncommittedStateIsNotCached(t *testing.T) {
	db := newTestDB(t)
	store := newRecordingCache(t)
	entityCache := NewEntityCache(store, 0, discardLogger())
	employers := NewEmployerRepository(db, WithCache(entityCache))
	tx := NewTransactor(db)
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")

	_, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)

	store.reset()

	err = tx.WithinTransaction(ctx, func(ctx context.Context) error {
		saved, err := employers.Save(ctx, domain.NewEmployer().WithID(*employer.ID).WithName("Draft"))
		require.NoError(t, err)
		assert.Equal(t, "Draft", saved.Name, "dirty regions are read from the transaction")

		again, err := employers.FindByID(ctx, *employer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Draft", again.Name)

		assert.Zero(t, store.entryWrites(), "nothing is cached from an open transaction")
		assert.Empty(t, store.sets, "invalidation waits for completion")

		return errors.New("abort")
	})
	require.Error(t, err)

	after, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", after.Name)
}

func TestEntityCache_FailuresFallBackToDatabase(t *testing.T) {
	db := newTestDB(t)
	employers := NewEmployerRepository(db, WithCache(NewEntityCache(failingCache{}, 0, discardLogger())))
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")

	found, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
}

func TestEntityCache_WriteCommittedDuringReadIsNotMasked(t *testing.T) {
	db := newTestDB(t)
	entityCache := NewEntityCache(newRecordingCache(t), 0, discardLogger())
	employers := NewEmployerRepository(db, WithCache(entityCache))
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")

	// Commit a rename after the next read has queried the row but before it
	// fills the cache.
	armed := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:commit_during_read", func(*gorm.DB) {
		if !armed {
			return
		}

		armed = false

		_, err := employers.Save(ctx, domain.NewEmployer().WithID(*employer.ID).WithName("NewCo"))
		require.NoError(t, err)
	}))

	armed = true

	stale, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", stale.Name, "the read started before the commit")
	assert.False(t, armed)

	fresh, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "NewCo", fresh.Name)
}

func TestEntityCache_CorruptEntryIsDropped(t *testing.T) {
	db := newTestDB(t)
	store := newRecordingCache(t)
	entityCache := NewEntityCache(store, 0, discardLogger())
	employers := NewEmployerRepository(db, WithCache(entityCache))
	ctx := context.Background()

	employer := saveEmployer(t, employers, "Acme")

	var rec employerRecord

	slot, hit := entityCache.Load(ctx, RegionEmployer, *employer.ID, &rec)
	require.False(t, hit)
	require.NoError(t, store.MemoryCache.Set(ctx, slot.key, []byte("{not json"), 0))

	found, err := employers.FindByID(ctx, *employer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", found.Name)
	assert.Contains(t, store.deletes, slot.key)

	_, hit = entityCache.Load(ctx, RegionEmployer, *employer.ID, &rec)
	assert.True(t, hit, "the miss refilled the slot")
	assert.Equal(t, "Acme", rec.Name)
}

func TestEntityCache_TTLRoundsUp(t *testing.T) {
	tests := []struct {
		ttl  time.Duration
		want int
	}{
		{0, 0},
		{time.Millisecond, 1},
		{time.Second, 1},
		{1500 * time.Millisecond, 2},
		{10 * time.Minute, 600},
	}

	for _, tt := range tests {
		t.Run(tt.ttl.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, NewEntityCache(failingCache{}, tt.ttl, discardLogger()).ttlSeconds())
		})
	}
}
