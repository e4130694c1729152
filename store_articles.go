package pressroom

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/pressroom/content"
)

const articleSelect = `SELECT a.id, a.title, a.slug, a.collection_id, a.status, a.content, a.content_format,
	a.excerpt, a.featured_image, a.meta_title, a.meta_description, a.is_indexed, a.author_email,
	a.created_at, a.updated_at, a.published_at,
	c.id, c.name, c.slug, c.description, c.created_at
FROM articles a LEFT JOIN collections c ON c.id = a.collection_id`

func scanArticle(row interface{ Scan(...any) error }) (content.Article, error) {
	var (
		a                                content.Article
		collectionID                     sql.NullString
		publishedAt                      sql.NullTime
		colID, colName, colSlug, colDesc sql.NullString
		colCreated                       sql.NullTime
		status, format                   string
	)
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &collectionID, &status, &a.Content, &format,
		&a.Excerpt, &a.FeaturedImage, &a.MetaTitle, &a.MetaDescription, &a.IsIndexed, &a.AuthorEmail,
		&a.CreatedAt, &a.UpdatedAt, &publishedAt,
		&colID, &colName, &colSlug, &colDesc, &colCreated)
	if err != nil {
		return content.Article{}, err
	}
	a.Status = content.Status(status)
	a.ContentFormat = content.Format(format)
	a.CollectionID = collectionID.String
	if publishedAt.Valid {
		t := publishedAt.Time.UTC()
		a.PublishedAt = &t
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	if colID.Valid {
		a.Collection = &content.Collection{
			ID:          colID.String,
			Name:        colName.String,
			Slug:        colSlug.String,
			Description: colDesc.String,
			CreatedAt:   colCreated.Time.UTC(),
		}
	}
	return a, nil
}

func articleWhere(q content.ArticleQuery) (string, []any) {
	var conds []string
	var args []any
	if q.Status != "" {
		conds = append(conds, "a.status = ?")
		args = append(args, string(q.Status))
	}
	if q.CollectionID != "" {
		conds = append(conds, "a.collection_id = ?")
		args = append(args, q.CollectionID)
	}
	if q.CollectionSlug != "" {
		conds = append(conds, "c.slug = ?")
		args = append(args, q.CollectionSlug)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		conds = append(conds, "lower(a.title) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListArticles returns the page of articles matching q and the total number
// of matches ignoring Offset and Limit.
func (s *Store) ListArticles(ctx context.Context, q content.ArticleQuery) ([]content.Article, int, error) {
	where, args := articleWhere(q)

	var total int
	countSQL := `SELECT COUNT(*) FROM articles a LEFT JOIN collections c ON c.id = a.collection_id` + where
	if err := s.queryRow(ctx, s.db, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	order := " ORDER BY a.updated_at DESC, a.id"
	if q.Order == content.OrderPublished {
		order = " ORDER BY a.published_at DESC, a.created_at DESC, a.id"
	}
	listSQL := articleSelect + where + order
	if q.Limit > 0 {
		listSQL += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit, q.Offset)
	}
	rows, err := s.query(ctx, s.db, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	var articles []content.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, a)
	}
	return articles, total, rows.Err()
}

// GetArticle returns an article by id, whatever its status.
func (s *Store) GetArticle(ctx context.Context, id string) (content.Article, error) {
	if !validID(id) {
		return content.Article{}, content.ErrNotFound
	}
	a, err := scanArticle(s.queryRow(ctx, s.db, articleSelect+" WHERE a.id = ?", id))
	return a, notFound(err)
}

// GetPublishedArticle returns a published article by slug.
func (s *Store) GetPublishedArticle(ctx context.Context, slug string) (content.Article, error) {
	a, err := scanArticle(s.queryRow(ctx, s.db, articleSelect+" WHERE a.slug = ? AND a.status = ?", slug, string(content.StatusPublished)))
	return a, notFound(err)
}

// CountArticles counts articles with the given status, or all when status is empty.
func (s *Store) CountArticles(ctx context.Context, status content.Status) (int, error) {
	query := `SELECT COUNT(*) FROM articles`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	var n int
	err := s.queryRow(ctx, s.db, query, args...).Scan(&n)
	return n, err
}

// SlugAvailable reports whether no article other than excludeID uses slug.
func (s *Store) SlugAvailable(ctx context.Context, slug, excludeID string) (bool, error) {
	query := `SELECT COUNT(*) FROM articles WHERE slug = ?`
	args := []any{slug}
	if validID(excludeID) {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var n int
	if err := s.queryRow(ctx, s.db, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}

// SaveArticle inserts a (ID empty) or updates an article and returns the
// stored version. PublishedAt is set on the first transition to published and
// never changed afterwards. A slug used by another article yields
// content.ErrSlugTaken and nothing is written.
func (s *Store) SaveArticle(ctx context.Context, a content.Article) (content.Article, error) {
	if !a.Status.Valid() {
		a.Status = content.StatusDraft
	}
	if a.ContentFormat == "" {
		a.ContentFormat = content.FormatHTML
	}
	now := s.now()
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if a.ID == "" {
			a.ID = uuid.NewString()
			a.CreatedAt = now
			a.PublishedAt = nil
		} else {
			if !validID(a.ID) {
				return content.ErrNotFound
			}
			var created time.Time
			var published sql.NullTime
			err := s.queryRow(ctx, tx, `SELECT created_at, published_at FROM articles WHERE id = ?`, a.ID).Scan(&created, &published)
			if err != nil {
				return notFound(err)
			}
			a.CreatedAt = created.UTC()
			a.PublishedAt = nil
			if published.Valid {
				t := published.Time.UTC()
				a.PublishedAt = &t
			}
		}
		if a.Status == content.StatusPublished && a.PublishedAt == nil {
			a.PublishedAt = &now
		}
		a.UpdatedAt = now
		if a.CollectionID != "" && !validID(a.CollectionID) {
			return fmt.Errorf("collection %s: %w", a.CollectionID, content.ErrNotFound)
		}

		_, err := s.exec(ctx, tx, `INSERT INTO articles (id, title, slug, collection_id, status, content, content_format,
	excerpt, featured_image, meta_title, meta_description, is_indexed, author_email, created_at, updated_at, published_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title, slug = excluded.slug, collection_id = excluded.collection_id,
	status = excluded.status, content = excluded.content, content_format = excluded.content_format,
	excerpt = excluded.excerpt, featured_image = excluded.featured_image, meta_title = excluded.meta_title,
	meta_description = excluded.meta_description, is_indexed = excluded.is_indexed,
	author_email = excluded.author_email, updated_at = excluded.updated_at, published_at = excluded.published_at`,
			a.ID, a.Title, a.Slug, nullString(a.CollectionID), string(a.Status), a.Content, string(a.ContentFormat),
			a.Excerpt, a.FeaturedImage, a.MetaTitle, a.MetaDescription, a.IsIndexed, a.AuthorEmail,
			a.CreatedAt, a.UpdatedAt, nullTime(a.PublishedAt))
		switch violation(err) {
		case constraintUnique:
			return content.ErrSlugTaken
		case constraintForeignKey:
			return fmt.Errorf("collection %s: %w", a.CollectionID, content.ErrNotFound)
		}
		return err
	})
	if err != nil {
		return content.Article{}, err
	}
	return s.GetArticle(ctx, a.ID)
}

// DeleteArticle removes an article permanently.
func (s *Store) DeleteArticle(ctx context.Context, id string) error {
	if !validID(id) {
		return content.ErrNotFound
	}
	res, err := s.exec(ctx, s.db, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Collections returns every collection in creation order.
func (s *Store) Collections(ctx context.Context) ([]content.Collection, error) {
	return s.ListCollections(ctx)
}

// PublishedArticles returns all published articles, newest first.
func (s *Store) PublishedArticles(ctx context.Context) ([]content.Article, error) {
	articles, _, err := s.ListArticles(ctx, content.ArticleQuery{
		Status: content.StatusPublished,
		Order:  content.OrderPublished,
	})
	return articles, err
}
