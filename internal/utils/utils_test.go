package utils

import (
    "testing"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
    "golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
    hash, err := HashPassword("hunter2", bcrypt.MinCost)
    require.NoError(t, err)
    assert.True(t, VerifyPassword(hash, "hunter2"))
    assert.False(t, VerifyPassword(hash, "hunter3"))
    assert.False(t, VerifyPassword("not-a-hash", "hunter2"))
}

func TestAccessTokenClaims(t *testing.T) {
    const secret = "test-secret"
    at, err := NewAccessToken(secret, 42, "CUSTOMER", 15)
    require.NoError(t, err)
    assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), at.Exp, time.Minute)

    parsed, err := jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
        return []byte(secret), nil
    }, jwt.WithValidMethods([]string{"HS256"}))
    require.NoError(t, err)
    require.True(t, parsed.Valid)

    claims, ok := parsed.Claims.(jwt.MapClaims)
    require.True(t, ok)
    assert.Equal(t, float64(42), claims["sub"])
    assert.Equal(t, "CUSTOMER", claims["role"])
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
    at, err := NewAccessToken("right", 42, "OWNER", 15)
    require.NoError(t, err)

    _, err = jwt.Parse(at.Token, func(tok *jwt.Token) (any, error) {
        return []byte("wrong"), nil
    }, jwt.WithValidMethods([]string{"HS256"}))
    assert.Error(t, err)
}

func TestRefreshTokenHashing(t *testing.T) {
    rt, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.Len(t, rt.Raw, 96)

    other, err := NewRefreshToken(30)
    require.NoError(t, err)
    assert.NotEqual(t, rt.Raw, other.Raw)

    h := HashRefreshRaw(rt.Raw)
    assert.Len(t, h, 64)
    assert.Equal(t, h, HashRefreshRaw(rt.Raw))
    assert.NotEqual(t, h, HashRefreshRaw(other.Raw))
    assert.NotContains(t, h, rt.Raw)
}
