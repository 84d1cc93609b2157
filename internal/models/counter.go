// Copyright (c) 2026 Manassa Platform Authors <platform@manassa.net>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// CounterKind identifies what an engagement counter measures.
type CounterKind string

const (
	CounterView       CounterKind = "view"
	CounterClick      CounterKind = "click"
	CounterImpression CounterKind = "impression"
)

// Counter is a monotonic engagement counter keyed by subject and kind.
// The subject may be a content item or an advertisement; both are
// counted the same way. Counts only increase; there is no decrement.
type Counter struct {
	SubjectID uuid.UUID   `json:"subject_id"`
	Kind      CounterKind `json:"kind"`
	Count     int64       `json:"count"`
}
