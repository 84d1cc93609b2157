// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment represents one reader remark attached to a content item,
// optionally replying to another comment on the same item. Replies form
// a tree; deleting a parent cascades to its children.
type Comment struct {
	ID          uuid.UUID  `json:"id"`
	ContentID   uuid.UUID  `json:"content_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email"`
	Body        string     `json:"body"`
	IsApproved  bool       `json:"is_approved"`
	IsSpam      bool       `json:"is_spam"`
	CreatedAt   time.Time  `json:"created_at"`

	// Replies is populated when the comment is returned as part of a
	// tree; it is not a database column.
	Replies []Comment `json:"replies,omitempty"`
}

// Visible returns true if the comment may be shown publicly.
// Spam is never shown, regardless of the approval flag.
func (c *Comment) Visible() bool {
	return c.IsApproved && !c.IsSpam
}
