package pressroom

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/pressroom/build"
	"github.com/eringen/pressroom/content"
)

// ArticleCache is an in-memory cache of published articles and collections with TTL.
// It satisfies build.Source, so the server renders from the same snapshot as a build.
type ArticleCache struct {
	mu          sync.RWMutex
	articles    []content.Article
	collections []content.Collection
	fetched     time.Time
	ttl         time.Duration
	source      build.Source
}

// NewArticleCache creates an ArticleCache backed by src.
func NewArticleCache(src build.Source, ttl time.Duration) *ArticleCache {
	return &ArticleCache{source: src, ttl: ttl}
}

func (c *ArticleCache) valid() bool {
	return c.articles != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ArticleCache) Invalidate() {
	c.mu.Lock()
	c.articles = nil
	c.collections = nil
	c.mu.Unlock()
}

func (c *ArticleCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	collections, err := c.source.Collections(ctx)
	if err != nil {
		return err
	}
	articles, err := c.source.PublishedArticles(ctx)
	if err != nil {
		return err
	}
	if articles == nil {
		articles = []content.Article{}
	}
	c.articles = articles
	c.collections = collections
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns cached articles and collections after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *ArticleCache) ensureLoaded(ctx context.Context) ([]content.Article, []content.Collection, error) {
	c.mu.RLock()
	if c.valid() {
		articles, collections := c.articles, c.collections
		c.mu.RUnlock()
		return articles, collections, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.articles, c.collections, nil
}

// PublishedArticles returns published articles, newest first.
func (c *ArticleCache) PublishedArticles(ctx context.Context) ([]content.Article, error) {
	articles, _, err := c.ensureLoaded(ctx)
	return articles, err
}

// Collections returns every collection in creation order.
func (c *ArticleCache) Collections(ctx context.Context) ([]content.Collection, error) {
	_, collections, err := c.ensureLoaded(ctx)
	return collections, err
}

// ListArticles returns published articles, optionally filtered by collection slug.
func (c *ArticleCache) ListArticles(ctx context.Context, collectionSlug string) ([]content.Article, error) {
	articles, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	if collectionSlug == "" {
		return articles, nil
	}
	var filtered []content.Article
	for _, a := range articles {
		if a.CollectionSlug() == collectionSlug {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// GetArticle returns a single published article by slug from the cache.
func (c *ArticleCache) GetArticle(ctx context.Context, slug string) (content.Article, error) {
	articles, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return content.Article{}, err
	}
	for _, a := range articles {
		if a.Slug == slug {
			return a, nil
		}
	}
	return content.Article{}, content.ErrNotFound
}
