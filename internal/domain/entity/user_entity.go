package entity

import (
	"time"
)

// User is the aggregate root for the user domain. PlaceIDs is a derived
// index over places owned by this user; it is mutated only inside the place
// service's transaction so it always agrees with Place.CreatorID.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	ImagePath    string
	PlaceIDs     []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
