package domain

import "time"

type AccountId = int64

// Role is the coarse account tag. There is no permission model behind it
// yet; it is stored and returned as-is.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is the single persisted entity. PasswordHash is only ever set
// through hash.Password; VerifyToken is present while a self-registration
// is pending and cleared exactly once on activation.
type Account struct {
	Id           AccountId
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	Active       bool
	Image        string // stored filename of the uploaded image, if any
	VerifyToken  string
	CreatedAt    time.Time
}
