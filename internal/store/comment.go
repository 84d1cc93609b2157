// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"manassa/internal/models"
)

// CommentStore handles all comment-related database operations.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, content_id, parent_id, author_name, author_email,
	body, is_approved, is_spam, created_at`

// scanComment scans one comment row.
func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	err := scanner.Scan(
		&c.ID, &c.ContentID, &c.ParentID, &c.AuthorName, &c.AuthorEmail,
		&c.Body, &c.IsApproved, &c.IsSpam, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new comment and returns it with generated fields.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	row := s.db.QueryRow(`
		INSERT INTO comments (content_id, parent_id, author_name, author_email,
			body, is_approved, is_spam)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+commentColumns,
		c.ContentID, c.ParentID, c.AuthorName, c.AuthorEmail,
		c.Body, c.IsApproved, c.IsSpam,
	)
	result, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// FindByID retrieves a comment by its UUID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = $1`, id)
	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// collectComments drains rows into a slice.
func collectComments(rows *sql.Rows) ([]models.Comment, error) {
	defer rows.Close()
	var items []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListVisibleBySubject returns the approved, non-spam comments of one
// content item, newest first with ties broken by id ascending. The
// caller assembles the reply tree.
func (s *CommentStore) ListVisibleBySubject(contentID uuid.UUID) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE content_id = $1 AND is_approved AND NOT is_spam
		ORDER BY created_at DESC, id ASC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list visible comments: %w", err)
	}
	return collectComments(rows)
}

// ListPending returns unapproved, non-spam comments across all content,
// oldest first, for the moderation queue.
func (s *CommentStore) ListPending(limit, offset int) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE NOT is_approved AND NOT is_spam
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	return collectComments(rows)
}

// ListSpam returns comments flagged as spam, newest first.
func (s *CommentStore) ListSpam(limit, offset int) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments
		WHERE is_spam
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list spam comments: %w", err)
	}
	return collectComments(rows)
}

// SetModeration writes the moderation flags of a comment. The spam flag
// wins: a spam comment is never stored as approved (the table carries
// the same CHECK). Returns false when the comment does not exist.
func (s *CommentStore) SetModeration(id uuid.UUID, approved, spam bool) (bool, error) {
	if spam {
		approved = false
	}
	res, err := s.db.Exec(`
		UPDATE comments SET is_approved = $1, is_spam = $2 WHERE id = $3
	`, approved, spam, id)
	if err != nil {
		return false, fmt.Errorf("set comment moderation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set comment moderation rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes a comment. Replies cascade via the parent foreign key.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CountPending returns the size of the moderation queue.
func (s *CommentStore) CountPending() (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM comments WHERE NOT is_approved AND NOT is_spam
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending comments: %w", err)
	}
	return count, nil
}
