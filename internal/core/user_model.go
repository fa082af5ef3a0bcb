package core

import "time"

// Roles recognized by the HTTP layer. The core itself only records user ids
// on audit fields and never makes authorization decisions.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a system user. Passwordless accounts (walk-in operators, guests)
// carry an empty PasswordHash.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
