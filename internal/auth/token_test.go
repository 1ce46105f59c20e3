package auth

import (
	"testing"
	"time"

	"atelier/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	now := time.Now()

	raw, exp, err := m.Issue(model.User{ID: "u-1", Role: model.RoleAdmin, TokenVersion: 3}, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ADMIN", claims.Role)
	assert.Equal(t, 3, claims.TV)
}

func TestTokenManager_Verify_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	raw, _, err := m.Issue(model.User{ID: "u-1", Role: model.RoleUser}, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_WrongSecret(t *testing.T) {
	raw, _, err := NewTokenManager("a", time.Hour).Issue(model.User{ID: "u-1", Role: model.RoleUser}, time.Now())
	require.NoError(t, err)

	_, err = NewTokenManager("b", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_MissingSubject(t *testing.T) {
	raw, _, err := NewTokenManager("secret", time.Hour).Issue(model.User{Role: model.RoleUser}, time.Now())
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Verify_Empty(t *testing.T) {
	_, err := NewTokenManager("secret", time.Hour).Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
