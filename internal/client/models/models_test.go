package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthResponse_DecodesFlatPair(t *testing.T) {
	raw := `{"access_token":"a","refresh_token":"r","token_type":"Bearer","expires_in":900,
		"user":{"id":"u1","email":"jane@example.com","fullName":"Jane","phone":null}}`

	var got AuthResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &got))

	assert.Equal(t, "a", got.AccessToken)
	assert.Equal(t, "r", got.RefreshToken)
	assert.Equal(t, int64(900), got.ExpiresIn)
	assert.Equal(t, "jane@example.com", got.User.Email)
	assert.Nil(t, got.User.Phone)
}

func TestSession_Empty(t *testing.T) {
	assert.True(t, Session{}.Empty())
	assert.True(t, Session{Email: "x@example.com"}.Empty())
	assert.False(t, Session{RefreshToken: "r"}.Empty())
}
