package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an application user. Identity resolution happens outside
// this core; users exist here so ownership references can be validated.
type User struct {
	ID                uuid.UUID
	DisplayName       string
	ProfilePictureURL string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Friendship is an edge in the social graph. Only ACCEPTED edges grant
// access to FRIENDS-visibility trees.
type Friendship struct {
	ID          uuid.UUID
	RequesterID uuid.UUID
	AddresseeID uuid.UUID
	Status      FriendshipStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
