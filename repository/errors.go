package repository

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a catalog record, directory entry, card or order does not exist
var ErrNotFound = errors.New("not found")

// nowFunc is the clock used for timestamps
var nowFunc = time.Now

// CorruptionObserver is notified whenever a stored value fails to decode and is treated as absent
type CorruptionObserver interface {
	ObserveCorrupt(key string)
}
