package shared

import "fmt"

// UserID is a value object representing the account that owns projects and characters
type UserID struct {
	value int
}

// NewUserID creates a new UserID value object
func NewUserID(id int) (UserID, error) {
	if id <= 0 {
		return UserID{}, NewValidationError("user_id", "must be positive")
	}
	return UserID{value: id}, nil
}

// MustNewUserID creates a new UserID value object, panicking if invalid
// Use this only when you're certain the ID is valid (e.g., from database)
func MustNewUserID(id int) UserID {
	userID, err := NewUserID(id)
	if err != nil {
		panic(err)
	}
	return userID
}

// Value returns the integer value of the UserID
func (u UserID) Value() int {
	return u.value
}

// String returns a string representation of the UserID
func (u UserID) String() string {
	return fmt.Sprintf("%d", u.value)
}

// Equals checks if two UserIDs are equal
func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}

// IsZero checks if the UserID is the zero value (uninitialized)
func (u UserID) IsZero() bool {
	return u.value == 0
}
