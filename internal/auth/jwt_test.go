package auth

import (
	"testing"
	"time"

	"github.com/sheikh-saqib/zenith-bank-ledger/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	secret := []byte("k")
	tok, err := GenerateToken("user-1", secret, time.Minute)
	require.NoError(t, err)

	id, err := GetUserIDFromToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := GenerateToken("user-1", []byte("k1"), time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, []byte("k2"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	tok, err := GenerateToken("user-1", []byte("k"), -time.Minute)
	require.NoError(t, err)

	_, err = GetUserIDFromToken(tok, []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	_, err := GetUserIDFromToken("not-a-token", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
