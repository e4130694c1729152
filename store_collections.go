package pressroom

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/eringen/pressroom/content"
)

const collectionSelect = `SELECT id, name, slug, description, created_at FROM collections`

func scanCollection(row interface{ Scan(...any) error }) (content.Collection, error) {
	var c content.Collection
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt); err != nil {
		return content.Collection{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	return c, nil
}

// ListCollections returns every collection ordered by creation, the order
// badge colors are derived from.
func (s *Store) ListCollections(ctx context.Context) ([]content.Collection, error) {
	rows, err := s.query(ctx, s.db, collectionSelect+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []content.Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCollection returns a collection by id.
func (s *Store) GetCollection(ctx context.Context, id string) (content.Collection, error) {
	if !validID(id) {
		return content.Collection{}, content.ErrNotFound
	}
	c, err := scanCollection(s.queryRow(ctx, s.db, collectionSelect+` WHERE id = ?`, id))
	return c, notFound(err)
}

// GetCollectionBySlug returns a collection by slug.
func (s *Store) GetCollectionBySlug(ctx context.Context, slug string) (content.Collection, error) {
	c, err := scanCollection(s.queryRow(ctx, s.db, collectionSelect+` WHERE slug = ?`, slug))
	return c, notFound(err)
}

// CollectionArticleCounts maps collection ids to their number of articles.
func (s *Store) CollectionArticleCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.query(ctx, s.db, `SELECT collection_id, COUNT(*) FROM articles WHERE collection_id IS NOT NULL GROUP BY collection_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// SaveCollection inserts (ID empty) or updates a collection. A slug already
// used by another collection yields content.ErrSlugTaken.
func (s *Store) SaveCollection(ctx context.Context, c content.Collection) (content.Collection, error) {
	c.Name = strings.TrimSpace(c.Name)
	var err error
	if c.ID == "" {
		c.ID = uuid.NewString()
		c.CreatedAt = s.now()
		_, err = s.exec(ctx, s.db, `INSERT INTO collections (id, name, slug, description, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Slug, c.Description, c.CreatedAt)
	} else {
		if !validID(c.ID) {
			return content.Collection{}, content.ErrNotFound
		}
		var res sql.Result
		res, err = s.exec(ctx, s.db, `UPDATE collections SET name = ?, slug = ?, description = ? WHERE id = ?`,
			c.Name, c.Slug, c.Description, c.ID)
		if err == nil {
			err = requireAffected(res)
		}
	}
	if violation(err) == constraintUnique {
		return content.Collection{}, content.ErrSlugTaken
	}
	if err != nil {
		return content.Collection{}, err
	}
	return s.GetCollection(ctx, c.ID)
}

// DeleteCollection removes a collection that no article references. The
// foreign key refuses the delete otherwise and content.ErrCollectionInUse is
// returned.
func (s *Store) DeleteCollection(ctx context.Context, id string) error {
	if !validID(id) {
		return content.ErrNotFound
	}
	res, err := s.exec(ctx, s.db, `DELETE FROM collections WHERE id = ?`, id)
	if violation(err) == constraintForeignKey {
		return content.ErrCollectionInUse
	}
	if err != nil {
		return err
	}
	return requireAffected(res)
}
