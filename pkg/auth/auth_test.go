package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/config"
	appErrors "parley/pkg/errors"
)

func testJWT() config.JWT {
	return config.JWT{Secret: "test-secret", ExpiredIn: 3600}
}

func Test_VerifyToken(t *testing.T) {
	cfg := testJWT()
	userID := uuid.New()

	t.Run("round trip", func(t *testing.T) {
		token, err := IssueToken(userID, "alice", cfg)
		require.NoError(t, err)

		got, err := VerifyToken(token, cfg)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := VerifyToken("", cfg)
		assert.ErrorIs(t, err, appErrors.ErrMissingToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := IssueToken(userID, "alice", config.JWT{Secret: "other", ExpiredIn: 3600})
		require.NoError(t, err)

		_, err = VerifyToken(token, cfg)
		assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := IssueToken(userID, "alice", config.JWT{Secret: cfg.Secret, ExpiredIn: -10})
		require.NoError(t, err)

		_, err = VerifyToken(token, cfg)
		assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := VerifyToken("not-a-jwt", cfg)
		assert.ErrorIs(t, err, appErrors.ErrInvalidToken)
	})
}

func Test_ExtractToken(t *testing.T) {
	t.Run("query parameter wins", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws?token=from-query", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-query", ExtractToken(r))
	})

	t.Run("falls back to bearer header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		r.Header.Set("Authorization", "Bearer from-header")
		assert.Equal(t, "from-header", ExtractToken(r))
	})

	t.Run("nothing present", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/ws", nil)
		assert.Equal(t, "", ExtractToken(r))
	})
}
