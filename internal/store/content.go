// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"manassa/internal/models"
)

// ContentStore handles all content-related database operations. Every
// publishable kind (article, post, page, course, book, scholarship)
// lives in the unified content table, differentiated by the kind column.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

// contentColumns selects the content row joined with its view counter.
// The counters table is the single source of truth for view counts.
const contentColumns = `c.id, c.kind, c.title, c.slug, c.body, c.excerpt, c.status,
	c.category_id, c.tags, c.seo_title, c.seo_description, c.seo_keywords,
	c.canonical_url, c.featured_image_id, c.author_id, c.publish_at, c.expire_at,
	c.allow_comments, c.is_featured, COALESCE(v.count, 0) AS view_count,
	c.created_at, c.updated_at`

const contentFrom = ` FROM content c
	LEFT JOIN counters v ON v.subject_id = c.id AND v.kind = 'view' `

// scanContent scans one joined content row.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Kind, &c.Title, &c.Slug, &c.Body, &c.Excerpt, &c.Status,
		&c.CategoryID, &c.Tags, &c.SEOTitle, &c.SEODescription, &c.SEOKeywords,
		&c.CanonicalURL, &c.FeaturedImageID, &c.AuthorID, &c.PublishAt, &c.ExpireAt,
		&c.AllowComments, &c.IsFeatured, &c.ViewCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// collectContent drains rows into a slice.
func collectContent(rows *sql.Rows) ([]models.Content, error) {
	defer rows.Close()
	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListByKind returns content of the given kind in every status, newest
// first. Used by the editorial backend.
func (s *ContentStore) ListByKind(kind models.ContentKind, limit, offset int) ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT `+contentColumns+contentFrom+`
		WHERE c.kind = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, kind, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list content by kind: %w", err)
	}
	return collectContent(rows)
}

// VisibleFilter narrows public listings. Zero values mean "no filter".
type VisibleFilter struct {
	Kind         models.ContentKind
	CategorySlug string
	Tag          string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// visibleWhere builds the WHERE clause for publicly visible content at
// the given instant: published and inside the publish/expire window.
func visibleWhere(f VisibleFilter, now time.Time) (string, []any) {
	where := `c.status = 'published'
		AND (c.publish_at IS NULL OR c.publish_at <= $1)
		AND (c.expire_at IS NULL OR c.expire_at > $1)`
	args := []any{now}

	if f.Kind != "" {
		args = append(args, f.Kind)
		where += ` AND c.kind = $` + strconv.Itoa(len(args))
	}
	if f.CategorySlug != "" {
		args = append(args, f.CategorySlug)
		where += ` AND c.category_id = (SELECT id FROM categories WHERE slug = $` + strconv.Itoa(len(args)) + `)`
	}
	if f.Tag != "" {
		// Tags are stored normalized ("go,web,cms"); pad with commas so
		// "go" does not match "golang".
		args = append(args, f.Tag)
		where += ` AND (',' || COALESCE(c.tags, '') || ',') LIKE '%,' || $` + strconv.Itoa(len(args)) + ` || ',%'`
	}
	if f.FeaturedOnly {
		where += ` AND c.is_featured`
	}
	return where, args
}

// ListVisible returns publicly visible content matching the filter,
// ordered by publish date descending.
func (s *ContentStore) ListVisible(f VisibleFilter, now time.Time) ([]models.Content, error) {
	where, args := visibleWhere(f, now)

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, f.Offset)
	offsetPos := len(args)

	rows, err := s.db.Query(`
		SELECT `+contentColumns+contentFrom+`
		WHERE `+where+`
		ORDER BY c.publish_at DESC NULLS LAST, c.created_at DESC
		LIMIT $`+strconv.Itoa(limitPos)+` OFFSET $`+strconv.Itoa(offsetPos),
		args...)
	if err != nil {
		return nil, fmt.Errorf("list visible content: %w", err)
	}
	return collectContent(rows)
}

// CountVisible returns the number of publicly visible items matching
// the filter, for pagination.
func (s *ContentStore) CountVisible(f VisibleFilter, now time.Time) (int, error) {
	where, args := visibleWhere(f, now)

	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content c WHERE `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count visible content: %w", err)
	}
	return count, nil
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+contentFrom+` WHERE c.id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a content item by kind and slug, in any status.
// Visibility is the caller's decision (it depends on the viewer's role
// and the reconciled status). Returns nil if not found.
func (s *ContentStore) FindBySlug(kind models.ContentKind, slug string) (*models.Content, error) {
	row := s.db.QueryRow(
		`SELECT `+contentColumns+contentFrom+` WHERE c.kind = $1 AND c.slug = $2`,
		kind, slug)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new content item and returns it with generated fields.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	row := s.db.QueryRow(`
		INSERT INTO content (kind, title, slug, body, excerpt, status,
			category_id, tags, seo_title, seo_description, seo_keywords,
			canonical_url, featured_image_id, author_id, publish_at, expire_at,
			allow_comments, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id, kind, title, slug, body, excerpt, status, category_id, tags,
			seo_title, seo_description, seo_keywords, canonical_url,
			featured_image_id, author_id, publish_at, expire_at,
			allow_comments, is_featured, 0::bigint AS view_count, created_at, updated_at
	`, c.Kind, c.Title, c.Slug, c.Body, c.Excerpt, c.Status,
		c.CategoryID, c.Tags, c.SEOTitle, c.SEODescription, c.SEOKeywords,
		c.CanonicalURL, c.FeaturedImageID, c.AuthorID, c.PublishAt, c.ExpireAt,
		c.AllowComments, c.IsFeatured,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// Update modifies an existing content item. The status column is not
// touched here; status moves go through UpdateStatus so the transition
// guard cannot be bypassed.
func (s *ContentStore) Update(c *models.Content) error {
	_, err := s.db.Exec(`
		UPDATE content SET
			title = $1, slug = $2, body = $3, excerpt = $4,
			category_id = $5, tags = $6, seo_title = $7, seo_description = $8,
			seo_keywords = $9, canonical_url = $10, featured_image_id = $11,
			publish_at = $12, expire_at = $13, allow_comments = $14,
			is_featured = $15, updated_at = NOW()
		WHERE id = $16
	`, c.Title, c.Slug, c.Body, c.Excerpt,
		c.CategoryID, c.Tags, c.SEOTitle, c.SEODescription,
		c.SEOKeywords, c.CanonicalURL, c.FeaturedImageID,
		c.PublishAt, c.ExpireAt, c.AllowComments,
		c.IsFeatured, c.ID,
	)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// UpdateStatus writes a status change guarded by the previous status
// (compare-and-set). When publishAt is non-nil it is written only if
// the column is still NULL, preserving an existing schedule. Returns
// false when the guard failed: another request already moved the item,
// which concurrent reconciles treat as success.
func (s *ContentStore) UpdateStatus(id uuid.UUID, from, to models.ContentStatus, publishAt *time.Time) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE content SET
			status = $1,
			publish_at = COALESCE(publish_at, $2),
			updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, publishAt, id, from)
	if err != nil {
		return false, fmt.Errorf("update content status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update content status rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a content item. Comments and ratings cascade via
// foreign keys; engagement counters have no FK (they also serve ads) so
// they are removed in the same transaction.
func (s *ContentStore) Delete(id uuid.UUID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete content: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM counters WHERE subject_id = $1`, id); err != nil {
		return fmt.Errorf("delete content counters: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM content WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	return tx.Commit()
}

// ListDue returns draft and review items whose scheduled publish time
// has passed. The sweep reconciles each of them.
func (s *ContentStore) ListDue(now time.Time, limit int) ([]models.Content, error) {
	rows, err := s.db.Query(`
		SELECT `+contentColumns+contentFrom+`
		WHERE c.status IN ('draft', 'review')
		  AND c.publish_at IS NOT NULL AND c.publish_at <= $1
		ORDER BY c.publish_at ASC
		LIMIT $2
	`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list due content: %w", err)
	}
	return collectContent(rows)
}

// Related returns visible items of the same kind and category,
// excluding the item itself. Used for "related articles" blocks.
func (s *ContentStore) Related(c *models.Content, now time.Time, limit int) ([]models.Content, error) {
	if c.CategoryID == nil {
		return nil, nil
	}
	rows, err := s.db.Query(`
		SELECT `+contentColumns+contentFrom+`
		WHERE c.kind = $1 AND c.category_id = $2 AND c.id <> $3
		  AND c.status = 'published'
		  AND (c.publish_at IS NULL OR c.publish_at <= $4)
		  AND (c.expire_at IS NULL OR c.expire_at > $4)
		ORDER BY c.publish_at DESC NULLS LAST
		LIMIT $5
	`, c.Kind, c.CategoryID, c.ID, now, limit)
	if err != nil {
		return nil, fmt.Errorf("list related content: %w", err)
	}
	return collectContent(rows)
}

// CountByKind returns the number of content items of the given kind.
func (s *ContentStore) CountByKind(kind models.ContentKind) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM content WHERE kind = $1`, kind).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return count, nil
}
