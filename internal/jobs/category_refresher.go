package jobs

import (
	"context"
	"log"
	"time"
)

// Refresher reloads a cached data set.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CategoryRefresher periodically reloads the category catalog so edits to
// the categories table are picked up without a restart.
type CategoryRefresher struct {
	catalog  Refresher
	interval time.Duration
}

// NewCategoryRefresher creates a new category refresher.
func NewCategoryRefresher(catalog Refresher, interval time.Duration) *CategoryRefresher {
	return &CategoryRefresher{catalog: catalog, interval: interval}
}

// Start begins the background refresh loop. It returns when ctx is done.
func (r *CategoryRefresher) Start(ctx context.Context) {
	if r.interval <= 0 {
		log.Println("Category refresher disabled")
		return
	}
	log.Printf("Category refresher started (interval: %v)", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Category refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *CategoryRefresher) refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := r.catalog.Refresh(ctx); err != nil {
		log.Printf("Category refresher: failed to reload categories: %v", err)
	}
}
