package storage

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateReplay    = errors.New("replay already imported")
	ErrSnapshotUnreadable = errors.New("roster snapshot unreadable")
)
