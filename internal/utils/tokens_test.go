package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestShareTokenRoundTrip(t *testing.T) {
	token, err := SignShareToken("secret", 42, time.Hour)
	require.NoError(t, err)

	cardID, err := ParseShareToken("secret", token)
	require.NoError(t, err)
	require.Equal(t, uint64(42), cardID)
}

func TestParseShareToken_WrongSecret(t *testing.T) {
	token, err := SignShareToken("secret", 42, time.Hour)
	require.NoError(t, err)

	_, err = ParseShareToken("other-secret", token)
	require.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestParseShareToken_Expired(t *testing.T) {
	token, err := SignShareToken("secret", 42, -time.Minute)
	require.NoError(t, err)

	_, err = ParseShareToken("secret", token)
	require.ErrorIs(t, err, ErrInvalidShareToken)
}

func TestIsValidEmail(t *testing.T) {
	require.True(t, IsValidEmail("user@example.com"))
	require.True(t, IsValidEmail("first.last@sub.example.co.id"))
	require.False(t, IsValidEmail("no-at-sign"))
	require.False(t, IsValidEmail("spaces in@example.com"))
	require.False(t, IsValidEmail("missing@tld"))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
}
