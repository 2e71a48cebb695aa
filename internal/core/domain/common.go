package domain

import "time"

// Entity holds the identity, timestamps and optimistic concurrency version
// shared by every persisted domain type. Embed it, don't extend it.
type Entity struct {
	ID        int64      `json:"id"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	// Version is compared by the unit of work at commit time and bumped on
	// every durable update. Application logic must not interpret it.
	Version int64 `json:"-"`
}

// Touch records an update timestamp.
func (e *Entity) Touch(now time.Time) {
	t := now.UTC()
	e.UpdatedAt = &t
}
