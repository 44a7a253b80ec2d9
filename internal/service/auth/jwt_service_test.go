package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse-api/internal/config"
)

const testSecret = "test-jwt-secret-that-is-32-chars-long"

// newFixedTimeService builds a service whose clock is pinned to the given
// instant so expiry behavior is deterministic.
func newFixedTimeService(secret string, at time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: 60 * time.Minute,
		timeFunc:      func() time.Time { return at },
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("short secret is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newFixedTimeService(testSecret, fixedTime)

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(60*time.Minute).Unix(), claims.ExpiresAt.Unix())
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	issuer := newFixedTimeService(testSecret, fixedTime)
	token, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()
		_, err := issuer.ValidateToken(context.Background(), "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()
		_, err := issuer.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()
		other := newFixedTimeService("another-secret-that-is-32-chars-long!", fixedTime)
		_, err := other.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		later := newFixedTimeService(testSecret, fixedTime.Add(2*time.Hour))
		_, err := later.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("token from the future", func(t *testing.T) {
		t.Parallel()

		futureIssuer := newFixedTimeService(testSecret, fixedTime.Add(24*time.Hour))
		futureToken, err := futureIssuer.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		_, err = issuer.ValidateToken(context.Background(), futureToken)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("missing principal", func(t *testing.T) {
		t.Parallel()

		nilToken, err := issuer.GenerateToken(context.Background(), uuid.Nil)
		require.NoError(t, err)

		_, err = issuer.ValidateToken(context.Background(), nilToken)
		assert.ErrorIs(t, err, ErrPrincipalMissing)
	})
}
