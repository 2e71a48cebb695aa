package models

import "time"

// Entity holds the columns every table shares.
type Entity struct {
	ID        int64      `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt *time.Time `db:"updated_at"` // Nullable
	Version   int64      `db:"version"`
}
