package pressroom

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/eringen/pressroom/content"
)

const mediaSelect = `SELECT id, url, filename, storage_key, alt_text, uploaded_by, width, height, size, created_at FROM media`

func scanMedia(row interface{ Scan(...any) error }) (content.Media, error) {
	var m content.Media
	err := row.Scan(&m.ID, &m.URL, &m.Filename, &m.StorageKey, &m.AltText, &m.UploadedBy,
		&m.Width, &m.Height, &m.Size, &m.CreatedAt)
	m.CreatedAt = m.CreatedAt.UTC()
	return m, err
}

// InsertMedia records an uploaded asset and returns it with its id.
func (s *Store) InsertMedia(ctx context.Context, m content.Media) (content.Media, error) {
	m.ID = uuid.NewString()
	m.CreatedAt = s.now()
	_, err := s.exec(ctx, s.db, `INSERT INTO media (id, url, filename, storage_key, alt_text, uploaded_by, width, height, size, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.URL, m.Filename, m.StorageKey, m.AltText, m.UploadedBy, m.Width, m.Height, m.Size, m.CreatedAt)
	if err != nil {
		return content.Media{}, err
	}
	return m, nil
}

// ListMedia returns all assets, newest first.
func (s *Store) ListMedia(ctx context.Context) ([]content.Media, error) {
	rows, err := s.query(ctx, s.db, mediaSelect+` ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []content.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMedia returns one asset by id.
func (s *Store) GetMedia(ctx context.Context, id string) (content.Media, error) {
	if !validID(id) {
		return content.Media{}, content.ErrNotFound
	}
	m, err := scanMedia(s.queryRow(ctx, s.db, mediaSelect+` WHERE id = ?`, id))
	return m, notFound(err)
}

// UpdateMediaAlt changes the alt text of an asset.
func (s *Store) UpdateMediaAlt(ctx context.Context, id, alt string) error {
	if !validID(id) {
		return content.ErrNotFound
	}
	res, err := s.exec(ctx, s.db, `UPDATE media SET alt_text = ? WHERE id = ?`, strings.TrimSpace(alt), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// DeleteMedia removes the row of an asset. The blob is removed by the caller first.
func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	if !validID(id) {
		return content.ErrNotFound
	}
	res, err := s.exec(ctx, s.db, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// AddSubscriber records a newsletter signup. A known email yields
// content.ErrAlreadySubscribed.
func (s *Store) AddSubscriber(ctx context.Context, email string, consent bool) (content.Subscriber, error) {
	sub := content.Subscriber{
		ID:        uuid.NewString(),
		Email:     normalizeEmail(email),
		Consent:   consent,
		CreatedAt: s.now(),
	}
	_, err := s.exec(ctx, s.db, `INSERT INTO newsletter_subscribers (id, email, rgpd_consent, created_at) VALUES (?, ?, ?, ?)`,
		sub.ID, sub.Email, sub.Consent, sub.CreatedAt)
	if violation(err) == constraintUnique {
		return content.Subscriber{}, content.ErrAlreadySubscribed
	}
	if err != nil {
		return content.Subscriber{}, err
	}
	return sub, nil
}

// ListSubscribers returns every subscriber, oldest first.
func (s *Store) ListSubscribers(ctx context.Context) ([]content.Subscriber, error) {
	rows, err := s.query(ctx, s.db, `SELECT id, email, rgpd_consent, created_at FROM newsletter_subscribers ORDER BY created_at ASC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []content.Subscriber
	for rows.Next() {
		var sub content.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Consent, &sub.CreatedAt); err != nil {
			return nil, err
		}
		sub.CreatedAt = sub.CreatedAt.UTC()
		out = append(out, sub)
	}
	return out, rows.Err()
}

// AddAdmin puts email on the admin allow-list. Adding a known email is a no-op.
func (s *Store) AddAdmin(ctx context.Context, email string) error {
	_, err := s.exec(ctx, s.db, `INSERT INTO allowed_admins (email, created_at) VALUES (?, ?) ON CONFLICT (email) DO NOTHING`,
		normalizeEmail(email), s.now())
	return err
}

// IsAllowedAdmin reports whether email is on the allow-list.
func (s *Store) IsAllowedAdmin(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, nil
	}
	var n int
	if err := s.queryRow(ctx, s.db, `SELECT COUNT(*) FROM allowed_admins WHERE email = ?`, email).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
