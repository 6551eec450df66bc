// Package catalog holds the business categories used as default estimate
// parameters. The catalog loads once on first use and can be refreshed.
package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"rankdash/internal/models"
)

// ErrCategoryNotFound is returned by Get for an unknown category.
var ErrCategoryNotFound = errors.New("category not found")

// Loader fetches the category list.
type Loader func(ctx context.Context) ([]models.BusinessCategory, error)

// Static returns a loader for a fixed list.
func Static(categories []models.BusinessCategory) Loader {
	return func(context.Context) ([]models.BusinessCategory, error) {
		return categories, nil
	}
}

// FirstNonEmpty tries each loader in order and returns the first non-empty
// list. An error stops the chain.
func FirstNonEmpty(loaders ...Loader) Loader {
	return func(ctx context.Context) ([]models.BusinessCategory, error) {
		for _, load := range loaders {
			categories, err := load(ctx)
			if err != nil {
				return nil, err
			}
			if len(categories) > 0 {
				return categories, nil
			}
		}
		return nil, nil
	}
}

// Catalog is a lazily loaded, concurrency-safe category lookup.
type Catalog struct {
	load  Loader
	group singleflight.Group

	mu     sync.RWMutex
	loaded bool
	all    []models.BusinessCategory
	byKey  map[string]models.BusinessCategory
}

// New creates a catalog that loads with load on first use.
func New(load Loader) *Catalog {
	return &Catalog{load: load}
}

// loadTimeout bounds a shared load, which outlives any single caller.
const loadTimeout = 10 * time.Second

// EnsureLoaded loads the catalog if it has not been loaded yet. Concurrent
// callers share one in-flight load. The load is detached from ctx, so one
// caller giving up does not fail the others; ctx only bounds this caller's
// wait. A failed load is not remembered, so the next call tries again.
func (c *Catalog) EnsureLoaded(ctx context.Context) error {
	if c.isLoaded() {
		return nil
	}
	ch := c.group.DoChan("load", func() (any, error) {
		if c.isLoaded() {
			return nil, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return nil, c.reload(loadCtx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refresh reloads the catalog unconditionally. On error the previous
// contents are kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("refresh", func() (any, error) {
		return nil, c.reload(ctx)
	})
	return err
}

func (c *Catalog) isLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *Catalog) reload(ctx context.Context) error {
	categories, err := c.load(ctx)
	if err != nil {
		return err
	}

	byKey := make(map[string]models.BusinessCategory, len(categories)*2)
	for _, cat := range categories {
		byKey[key(cat.ID)] = cat
		if _, ok := byKey[key(cat.Name)]; !ok {
			byKey[key(cat.Name)] = cat
		}
	}

	c.mu.Lock()
	c.all = append([]models.BusinessCategory(nil), categories...)
	c.byKey = byKey
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// All returns a copy of the loaded categories.
func (c *Catalog) All() []models.BusinessCategory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.BusinessCategory, len(c.all))
	copy(out, c.all)
	return out
}

// Get looks a category up by id or name, case-insensitively.
func (c *Catalog) Get(idOrName string) (models.BusinessCategory, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cat, ok := c.byKey[key(idOrName)]
	if !ok {
		return models.BusinessCategory{}, ErrCategoryNotFound
	}
	return cat, nil
}
