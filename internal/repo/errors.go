package repo

import "errors"

// ErrNotFound is returned when a query matches no record, including
// conditional updates that affect zero rows.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a unique constraint.
// The unique index on the identifying column (clients.email,
// admins.username) is what turns a concurrent double-create into a
// conflict instead of a duplicate record.
var ErrDuplicate = errors.New("duplicate record")
