package domain

import "time"

// User is the directory record for anyone who can call the service. The
// ticket core only reads ID and Role from it; account management beyond
// registration and login lives elsewhere.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
