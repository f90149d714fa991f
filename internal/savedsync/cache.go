// Package savedsync maintains a near-real-time view of one user's saved
// recipes. Mutations are applied optimistically and rolled back on failure;
// change-feed events trigger a full authoritative re-read rather than
// incremental patching.
package savedsync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pantrysnap/backend/internal/models"
	"github.com/pantrysnap/backend/internal/realtime"
)

// ErrMutationInFlight reports that the same recipe already has a save or
// remove outstanding. Concurrent opposing mutations on one item are
// serialized, not interleaved.
var ErrMutationInFlight = errors.New("a mutation for this recipe is already in flight")

const refreshTimeout = 10 * time.Second

// Store is the authoritative saved-recipe persistence the cache fronts.
type Store interface {
	ListSaved(ctx context.Context, userID uuid.UUID) ([]models.Recipe, error)
	Save(ctx context.Context, userID uuid.UUID, recipe models.Recipe) (*models.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
}

// Cache is the client-held view of one user's saved recipes. Its contents
// converge on the store's after every mutation or feed event.
type Cache struct {
	store  Store
	userID uuid.UUID

	mu       sync.Mutex
	recipes  []models.Recipe
	saving   map[string]bool
	removing map[uuid.UUID]bool

	cancelFeed func()
	done       chan struct{}
}

// New builds a cache for the user and subscribes it to the change feed. The
// subscription lives until Close.
func New(store Store, userID uuid.UUID, feed *realtime.Feed) *Cache {
	c := &Cache{
		store:    store,
		userID:   userID,
		saving:   make(map[string]bool),
		removing: make(map[uuid.UUID]bool),
		done:     make(chan struct{}),
	}

	events, cancel := feed.Subscribe(userID)
	c.cancelFeed = cancel
	go c.reconcileLoop(events)

	return c
}

// reconcileLoop re-reads the store after every change notification. The
// event payload is only a signal; the re-read is what the cache trusts.
func (c *Cache) reconcileLoop(events <-chan realtime.Event) {
	defer close(c.done)
	for range events {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		_ = c.Refresh(ctx)
		cancel()
	}
}

// Refresh replaces the cache contents with an authoritative read. A refresh
// is allowed to overwrite optimistic state; in-flight mutations settle
// against the store, not the cache.
func (c *Cache) Refresh(ctx context.Context) error {
	recipes, err := c.store.ListSaved(ctx, c.userID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.recipes = recipes
	c.mu.Unlock()
	return nil
}

// List returns the current cached view, newest first. It is a snapshot copy;
// callers may not mutate cache state through it.
func (c *Cache) List() []models.Recipe {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out
}

// Save persists the recipe for the cache's user, applying it optimistically
// and rolling the cache back to its exact prior contents if the store
// rejects the write. The stored record, with server-assigned id and
// timestamp, replaces the optimistic entry on success.
func (c *Cache) Save(ctx context.Context, recipe models.Recipe) (*models.Recipe, error) {
	key := dupKey(recipe.Title, recipe.Description)

	c.mu.Lock()
	if c.saving[key] {
		c.mu.Unlock()
		return nil, ErrMutationInFlight
	}
	snapshot := make([]models.Recipe, len(c.recipes))
	copy(snapshot, c.recipes)

	optimistic := recipe
	optimistic.UserID = c.userID
	c.recipes = append([]models.Recipe{optimistic}, c.recipes...)
	c.saving[key] = true
	c.mu.Unlock()

	stored, err := c.store.Save(ctx, c.userID, recipe)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.saving, key)

	if err != nil {
		c.recipes = snapshot
		return nil, err
	}

	// Swap the optimistic placeholder (no id yet) for the stored record.
	for i := range c.recipes {
		if c.recipes[i].ID == uuid.Nil && dupKey(c.recipes[i].Title, c.recipes[i].Description) == key {
			c.recipes[i] = *stored
			break
		}
	}
	return stored, nil
}

// Remove deletes a saved recipe, optimistically dropping it from the cache
// and restoring the prior contents if the store refuses.
func (c *Cache) Remove(ctx context.Context, recipeID uuid.UUID) error {
	c.mu.Lock()
	if c.removing[recipeID] {
		c.mu.Unlock()
		return ErrMutationInFlight
	}
	snapshot := make([]models.Recipe, len(c.recipes))
	copy(snapshot, c.recipes)

	filtered := c.recipes[:0:0]
	for _, r := range c.recipes {
		if r.ID != recipeID {
			filtered = append(filtered, r)
		}
	}
	c.recipes = filtered
	c.removing[recipeID] = true
	c.mu.Unlock()

	err := c.store.Remove(ctx, c.userID, recipeID)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.removing, recipeID)

	if err != nil {
		c.recipes = snapshot
		return err
	}
	return nil
}

// IsSaved reports whether a recipe matching on title and description is in
// the cache. This is a heuristic equality, not a strong key: an unsaved
// recipe has no id to match on.
func (c *Cache) IsSaved(recipe models.Recipe) bool {
	key := dupKey(recipe.Title, recipe.Description)
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.recipes {
		if dupKey(r.Title, r.Description) == key {
			return true
		}
	}
	return false
}

// IsSaving reports whether a save for this recipe is in flight.
func (c *Cache) IsSaving(recipe models.Recipe) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saving[dupKey(recipe.Title, recipe.Description)]
}

// IsRemoving reports whether a remove for this id is in flight.
func (c *Cache) IsRemoving(recipeID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removing[recipeID]
}

// Close tears down the feed subscription and waits for the reconcile loop
// to drain.
func (c *Cache) Close() {
	c.cancelFeed()
	<-c.done
}

func dupKey(title, description string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strings.ToLower(strings.TrimSpace(description))
}
