package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleUser))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole(""))
	assert.False(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("superadmin"))
}

func TestUser_JSONOmitsPasswordHash(t *testing.T) {
	u := User{ID: "u-1", Email: "a@b.co", PasswordHash: "$2a$10$secret", Role: RoleUser}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")
	assert.NotContains(t, string(raw), "password")
}

func TestUser_ClaimAndPublic(t *testing.T) {
	u := &User{ID: "u-1", Email: "a@b.co", PasswordHash: "h", Role: RoleAdmin}

	assert.Equal(t, Claim{ID: "u-1", Email: "a@b.co", Role: RoleAdmin}, u.Claim())
	assert.Equal(t, PublicUser{ID: "u-1", Email: "a@b.co", Role: RoleAdmin}, u.Public())
}

func TestTokenPair_JSONShape(t *testing.T) {
	pair := TokenPair{
		AccessToken:  "a",
		RefreshToken: "r",
		User:         PublicUser{ID: "u-1", Email: "a@b.co", Role: RoleUser},
	}

	raw, err := json.Marshal(pair)
	require.NoError(t, err)
	assert.JSONEq(t, `{"accessToken":"a","refreshToken":"r","user":{"id":"u-1","email":"a@b.co","role":"user"}}`, string(raw))
}
