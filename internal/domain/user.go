package domain

import "time"

// User is the persisted account record. Role is immutable once assigned;
// tokens carry it until expiry regardless of later changes.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}
