package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundtrip(t *testing.T) {
	opts := DefaultOptions([]byte("test-secret"))

	token, err := Generate(opts, "1001", time.Minute)
	require.NoError(t, err)

	claims, err := Verify(opts, token)
	require.NoError(t, err)
	assert.Equal(t, "1001", claims.Subject())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Generate(DefaultOptions([]byte("right")), "1001", time.Minute)
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("wrong")), token)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	token, err := Generate(DefaultOptions([]byte("s")), "1001", -time.Minute)
	require.NoError(t, err)

	_, err = Verify(DefaultOptions([]byte("s")), token)
	assert.Error(t, err)
}
