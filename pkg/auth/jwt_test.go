package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "plotforge")

	t.Run("access token round trip", func(t *testing.T) {
		token, err := m.GenerateToken("u1", "alice", "access", time.Hour)
		require.NoError(t, err)

		claims, err := m.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u1", claims.UserID)
		assert.Equal(t, "alice", claims.Name)
		assert.Equal(t, "access", claims.Type)
		assert.Equal(t, "plotforge", claims.Issuer)
	})

	t.Run("token pair has both types", func(t *testing.T) {
		pair, err := m.GenerateTokenPair("u1", "alice", time.Hour, 24*time.Hour)
		require.NoError(t, err)

		access, err := m.ParseToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "access", access.Type)

		refresh, err := m.ParseToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", refresh.Type)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := m.GenerateToken("u1", "alice", "access", -time.Minute)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewJWTManager("other-secret", "plotforge")
		token, err := other.GenerateToken("u1", "alice", "access", time.Hour)
		require.NoError(t, err)

		_, err = m.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := m.ParseToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
