// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

// Package comments implements the moderated comment tree: submission
// with spam classification, moderator transitions, and the approved-only
// view of each content item's reply forest. Collaborators (stores, cache
// invalidation, notification) are injected as narrow interfaces.
package comments

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"manassa/internal/lifecycle"
	"manassa/internal/models"
	"manassa/internal/moderation"
	"manassa/internal/sanitize"
)

// ErrNotFound reports a missing content item or comment.
var ErrNotFound = errors.New("not found")

// ErrCommentsDisabled reports a submission against a content item that
// does not accept comments. This is an expected business rejection, not
// a system fault.
var ErrCommentsDisabled = errors.New("comments are disabled for this content")

// ContentFinder loads the content item a comment attaches to.
type ContentFinder interface {
	FindByID(id uuid.UUID) (*models.Content, error)
}

// Store is the persistence surface the service needs for comments.
// *store.CommentStore satisfies it.
type Store interface {
	Create(c *models.Comment) (*models.Comment, error)
	FindByID(id uuid.UUID) (*models.Comment, error)
	ListVisibleBySubject(contentID uuid.UUID) ([]models.Comment, error)
	SetModeration(id uuid.UUID, approved, spam bool) (bool, error)
	Delete(id uuid.UUID) error
}

// Invalidator clears the detail cache embedding a comment tree.
// *cache.Invalidator satisfies it.
type Invalidator interface {
	OnCommentChanged(ctx context.Context, c *models.Content, action string)
}

// UserFinder resolves content authors when a notification is due.
// *store.UserStore satisfies it.
type UserFinder interface {
	FindByID(id uuid.UUID) (*models.User, error)
}

// Notifier dispatches the best-effort "new comment on your content"
// message to the author after approval. Failures never surface to the
// caller.
type Notifier interface {
	CommentApproved(ctx context.Context, c *models.Content, cm *models.Comment, authorEmail string)
}

// Service wires comment submission and moderation together.
type Service struct {
	contents    ContentFinder
	users       UserFinder
	store       Store
	invalidator Invalidator
	notifier    Notifier
}

// NewService creates a comment service with its collaborators.
func NewService(contents ContentFinder, users UserFinder, store Store, invalidator Invalidator, notifier Notifier) *Service {
	return &Service{
		contents:    contents,
		users:       users,
		store:       store,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// Submission carries one incoming comment.
type Submission struct {
	ContentID   uuid.UUID
	ParentID    *uuid.UUID
	AuthorName  string
	AuthorEmail string
	Body        string

	// CanModerate auto-approves the comment when the submitter holds
	// the moderation capability. Spam classification still runs first.
	CanModerate bool
}

// Submit validates, classifies, and stores a new comment. Spam is
// stored unapproved and flagged; clean comments from moderators are
// auto-approved, everything else waits in the moderation queue.
func (s *Service) Submit(ctx context.Context, sub Submission) (*models.Comment, error) {
	content, err := s.contents.FindByID(sub.ContentID)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, ErrNotFound
	}
	if !content.AllowComments {
		return nil, ErrCommentsDisabled
	}

	c := &models.Comment{
		ContentID:   sub.ContentID,
		ParentID:    sub.ParentID,
		AuthorName:  sanitize.PlainField(sub.AuthorName),
		AuthorEmail: sanitize.PlainField(sub.AuthorEmail),
		Body:        sanitize.CommentBody(sub.Body),
	}

	if verr := s.validate(c); verr != nil {
		return nil, verr
	}

	if c.ParentID != nil {
		parent, err := s.store.FindByID(*c.ParentID)
		if err != nil {
			return nil, err
		}
		verr := &lifecycle.ValidationError{}
		switch {
		case parent == nil:
			verr.Add("parent_id", "parent comment does not exist")
		case parent.ContentID != c.ContentID:
			verr.Add("parent_id", "parent comment belongs to different content")
		case !parent.Visible():
			verr.Add("parent_id", "parent comment is not visible")
		}
		if !verr.Empty() {
			return nil, verr
		}
	}

	if moderation.IsSpam(c.Body) {
		c.IsSpam = true
		c.IsApproved = false
	} else if sub.CanModerate {
		c.IsApproved = true
	}

	created, err := s.store.Create(c)
	if err != nil {
		return nil, err
	}

	if created.Visible() {
		s.invalidator.OnCommentChanged(ctx, content, "create")
		s.notifyAuthor(ctx, content, created)
	}
	return created, nil
}

// validate checks the sanitized submission fields.
func (s *Service) validate(c *models.Comment) *lifecycle.ValidationError {
	verr := &lifecycle.ValidationError{}
	if c.AuthorName == "" {
		verr.Add("author_name", "is required")
	}
	if c.AuthorEmail == "" {
		verr.Add("author_email", "is required")
	} else if _, err := mail.ParseAddress(c.AuthorEmail); err != nil {
		verr.Add("author_email", "is not a valid email address")
	}
	if c.Body == "" {
		verr.Add("body", "is required")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Approve marks a comment as approved and fires the notification.
// Spam must be cleared explicitly first; approving a spam comment fails.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	if c.IsSpam {
		verr := &lifecycle.ValidationError{}
		verr.Add("is_spam", "spam comments cannot be approved; clear the flag first")
		return nil, verr
	}

	if _, err := s.store.SetModeration(id, true, false); err != nil {
		return nil, err
	}
	c.IsApproved = true

	if content, err := s.contents.FindByID(c.ContentID); err == nil && content != nil {
		s.invalidator.OnCommentChanged(ctx, content, "approve")
		s.notifyAuthor(ctx, content, c)
	}
	return c, nil
}

// notifyAuthor tells the content author their item received a visible
// comment. Authors are not notified about their own comments.
func (s *Service) notifyAuthor(ctx context.Context, content *models.Content, c *models.Comment) {
	if content.AuthorID == nil {
		return
	}
	author, err := s.users.FindByID(*content.AuthorID)
	if err != nil || author == nil {
		slog.Warn("comment notification: author lookup failed", "content_id", content.ID, "error", err)
		return
	}
	if strings.EqualFold(author.Email, c.AuthorEmail) {
		return
	}
	s.notifier.CommentApproved(ctx, content, c, author.Email)
}

// Reject withdraws approval without flagging the comment as spam.
func (s *Service) Reject(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.moderate(ctx, id, false, false, "reject")
}

// MarkSpam flags a comment as spam, forcing it out of the approved set.
func (s *Service) MarkSpam(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.moderate(ctx, id, false, true, "spam")
}

// moderate applies a non-approving moderation transition.
func (s *Service) moderate(ctx context.Context, id uuid.UUID, approved, spam bool, action string) (*models.Comment, error) {
	c, err := s.store.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	if _, err := s.store.SetModeration(id, approved, spam); err != nil {
		return nil, err
	}
	c.IsApproved = approved && !spam
	c.IsSpam = spam

	if content, err := s.contents.FindByID(c.ContentID); err == nil && content != nil {
		s.invalidator.OnCommentChanged(ctx, content, action)
	}
	return c, nil
}

// Delete removes a comment and, through the cascade, its replies.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	c, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return ErrNotFound
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}
	if content, err := s.contents.FindByID(c.ContentID); err == nil && content != nil {
		s.invalidator.OnCommentChanged(ctx, content, "delete")
	}
	return nil
}

// VisibleTree returns the approved, non-spam comments of a content item
// as a forest, newest-first at every level with ties broken by ID.
// Replies whose parent is not itself visible are dropped, matching the
// cascade contract.
func (s *Service) VisibleTree(contentID uuid.UUID) ([]models.Comment, error) {
	flat, err := s.store.ListVisibleBySubject(contentID)
	if err != nil {
		return nil, err
	}
	return BuildForest(flat), nil
}

// BuildForest organizes a flat, pre-ordered comment list into a
// parent-to-children forest. Input order (newest first) is preserved at
// each level.
func BuildForest(flat []models.Comment) []models.Comment {
	byParent := make(map[uuid.UUID][]models.Comment)
	visible := make(map[uuid.UUID]bool, len(flat))
	for _, c := range flat {
		visible[c.ID] = true
	}

	var roots []models.Comment
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if visible[*c.ParentID] {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
		// Replies to invisible parents are dropped.
	}

	var attach func(c *models.Comment)
	attach = func(c *models.Comment) {
		children := byParent[c.ID]
		for i := range children {
			attach(&children[i])
		}
		c.Replies = children
	}
	for i := range roots {
		attach(&roots[i])
	}
	return roots
}
