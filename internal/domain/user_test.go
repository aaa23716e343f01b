package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		userName string
		email    string
		hash     string
		wantErr  error
	}{
		{
			name:     "valid user",
			userName: "Ada",
			email:    "ada@example.com",
			hash:     "$2a$10$abcdefghijklmnopqrstuv",
			wantErr:  nil,
		},
		{
			name:     "email is normalized",
			userName: "Ada",
			email:    "  ADA@Example.COM ",
			hash:     "$2a$10$abcdefghijklmnopqrstuv",
			wantErr:  nil,
		},
		{
			name:     "empty name",
			userName: "   ",
			email:    "ada@example.com",
			hash:     "$2a$10$abcdefghijklmnopqrstuv",
			wantErr:  ErrEmptyName,
		},
		{
			name:     "empty email",
			userName: "Ada",
			email:    "",
			hash:     "$2a$10$abcdefghijklmnopqrstuv",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "malformed email",
			userName: "Ada",
			email:    "not-an-email",
			hash:     "$2a$10$abcdefghijklmnopqrstuv",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "missing hash",
			userName: "Ada",
			email:    "ada@example.com",
			hash:     "",
			wantErr:  ErrEmptyHashedPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, err := NewUser(tt.userName, tt.email, tt.hash)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, "", user.ID.String())
			assert.Equal(t, "ada@example.com", user.Email)
			assert.False(t, user.CreatedAt.IsZero())
		})
	}
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	t.Parallel()

	user, err := NewUser("Ada", "ada@example.com", "$2a$10$abcdefghijklmnopqrstuv")
	require.NoError(t, err)

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.NotContains(t, decoded, "hashed_password")
	assert.NotContains(t, decoded, "password")
	assert.NotContains(t, string(raw), user.HashedPassword)
}

func TestValidEmailFormat(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.co", "user.name@sub.example.com", "x+y@example.io"}
	invalid := []string{"", "@example.com", "a@", "a@b", "a@.com", "a@com.", "plain"}

	for _, email := range valid {
		assert.True(t, validEmailFormat(email), email)
	}
	for _, email := range invalid {
		assert.False(t, validEmailFormat(email), email)
	}
}
