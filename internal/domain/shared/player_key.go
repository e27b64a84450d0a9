package shared

import (
	"fmt"
	"strings"
)

const maxPlayerKeyLength = 255

// PlayerKey is a value object identifying the owner of a colony.
// Keys are opaque strings (wallet addresses in the game client), compared case-insensitively.
type PlayerKey struct {
	value string
}

// NewPlayerKey creates a new PlayerKey value object
func NewPlayerKey(raw string) (PlayerKey, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return PlayerKey{}, NewValidationError("player", "player key is required")
	}
	if len(key) > maxPlayerKeyLength {
		return PlayerKey{}, NewValidationError("player", fmt.Sprintf("player key exceeds %d characters", maxPlayerKeyLength))
	}
	return PlayerKey{value: key}, nil
}

// MustNewPlayerKey creates a new PlayerKey, panicking if invalid
// Use this only when you're certain the key is valid (e.g., from database)
func MustNewPlayerKey(raw string) PlayerKey {
	key, err := NewPlayerKey(raw)
	if err != nil {
		panic(err)
	}
	return key
}

// Value returns the normalized key
func (p PlayerKey) Value() string {
	return p.value
}

func (p PlayerKey) String() string {
	return p.value
}

// Equals checks if two PlayerKeys are equal
func (p PlayerKey) Equals(other PlayerKey) bool {
	return p.value == other.value
}

// IsZero checks if the PlayerKey is the zero value (uninitialized)
func (p PlayerKey) IsZero() bool {
	return p.value == ""
}
