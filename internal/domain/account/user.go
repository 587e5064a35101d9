package account

import "github.com/andrescamacho/industry-planner/internal/domain/shared"

// User is the account that owns projects, facilities and characters
type User struct {
	ID   shared.UserID
	Name string
}

// NewUser creates a new user
func NewUser(id shared.UserID, name string) *User {
	return &User{ID: id, Name: name}
}

// Character is an in-game character whose industry jobs count toward its owner's projects
type Character struct {
	ID          int64
	OwnerID     shared.UserID
	Name        string
	AccessToken string
}

// NewCharacter creates a character bound to an owner
func NewCharacter(id int64, ownerID shared.UserID, name, accessToken string) *Character {
	return &Character{
		ID:          id,
		OwnerID:     ownerID,
		Name:        name,
		AccessToken: accessToken,
	}
}
