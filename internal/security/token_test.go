package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret_key_very_long_for_testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	subjects := []TokenSubject{
		{UserID: "gen-1", Role: "PARENT", Origin: "GENERIC"},
		{UserID: "stu-1", Role: "STUDENT", Origin: "STUDENT"},
		{UserID: "tea-1", Role: "TEACHER", Origin: "TEACHER"},
	}

	for _, subject := range subjects {
		t.Run(subject.Origin, func(t *testing.T) {
			token, issued, err := GenerateAccessToken(testSecret, "edumate", subject, 24*time.Hour)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := ParseAccessToken(token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, subject.UserID, claims.UserID)
			assert.Equal(t, subject.UserID, claims.Subject)
			assert.Equal(t, subject.Role, claims.Role)
			assert.Equal(t, subject.Origin, claims.Origin)
			assert.Equal(t, issued.ID, claims.ID)
			assert.NotEmpty(t, claims.ID)
			assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
		})
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	token, _, err := GenerateAccessToken(testSecret, "edumate", TokenSubject{UserID: "u", Role: "ADMIN", Origin: "GENERIC"}, -time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, testSecret)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseAccessTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := GenerateAccessToken(testSecret, "edumate", TokenSubject{UserID: "u", Role: "ADMIN", Origin: "GENERIC"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, "another-secret")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseAccessTokenRejectsTampered(t *testing.T) {
	token, _, err := GenerateAccessToken(testSecret, "edumate", TokenSubject{UserID: "u", Role: "PARENT", Origin: "GENERIC"}, time.Hour)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}
	_, err = ParseAccessToken(tampered, testSecret)
	assert.Error(t, err)

	_, err = ParseAccessToken("clearly-not-a-jwt-token-format", testSecret)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	claims := AccessClaims{
		UserID: "u",
		Role:   "ADMIN",
		Origin: "GENERIC",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, testSecret)
	assert.Error(t, err)
}

func TestParseAccessTokenRejectsIncompleteClaims(t *testing.T) {
	token, _, err := GenerateAccessToken(testSecret, "edumate", TokenSubject{UserID: "u", Role: "ADMIN"}, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrMalformedClaims)
}
