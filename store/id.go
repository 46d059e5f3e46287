package store

import (
	"sync"
	"time"
)

var (
	idMu   sync.Mutex
	idLast int64
)

// NextID returns the current time in milliseconds, bumped past the previously
// issued value when two calls land in the same millisecond. IDs therefore stay
// sortable by creation order and unique within the process. Record IDs and
// upload filenames both draw from this.
func NextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := time.Now().UnixMilli()
	if id <= idLast {
		id = idLast + 1
	}
	idLast = id
	return id
}
