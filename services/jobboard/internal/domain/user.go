package domain

import "time"

// User is a registered account. Role is fixed at creation.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the part of a user returned to clients on login.
type PublicUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public returns the client-visible fields of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Role: u.Role}
}

// Claim is the identity embedded in both access and refresh tokens.
type Claim struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claim returns the token identity for u.
func (u *User) Claim() Claim {
	return Claim{ID: u.ID, Email: u.Email, Role: u.Role}
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	User         PublicUser `json:"user"`
}
