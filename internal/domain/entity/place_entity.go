package entity

import (
	"time"
)

// Location is the geocoded coordinate of a place. Computed once at creation
// from the address; never recomputed on update.
type Location struct {
	Lat float64
	Lng float64
}

// Place is owned by exactly one user. CreatorID and ImagePath are immutable
// after creation; only Title and Description may change.
type Place struct {
	ID          string
	Title       string
	Description string
	Address     string
	Location    Location
	ImagePath   string
	CreatorID   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
