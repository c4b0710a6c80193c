package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-32-chars"

func createTestPageTokenService(t *testing.T, ttl time.Duration) PageTokenService {
	t.Helper()
	svc, err := NewPageTokenService(ttl, "test-issuer", "test-audience", testSecret)
	require.NoError(t, err)
	return svc
}

func TestNewPageTokenService(t *testing.T) {
	_, err := NewPageTokenService(time.Hour, "iss", "aud", "")
	assert.Error(t, err)

	svc, err := NewPageTokenService(time.Hour, "", "", testSecret)
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestPageTokenRoundTrip(t *testing.T) {
	svc := createTestPageTokenService(t, time.Hour)

	token, err := svc.IssuePageToken(42, 3, []uint{7, 9, 11})
	require.NoError(t, err)
	assert.Contains(t, token, "eyJ")

	claims, err := svc.ValidatePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.SalesRepID)
	assert.Equal(t, 3, claims.PageIndex)
	assert.Equal(t, []uint{7, 9, 11}, claims.OrderIDs)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.Served(9))
	assert.False(t, claims.Served(10))
}

func TestPageTokenWithoutOrders(t *testing.T) {
	svc := createTestPageTokenService(t, time.Hour)

	token, err := svc.IssuePageToken(1, 0, nil)
	require.NoError(t, err)

	claims, err := svc.ValidatePageToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.OrderIDs)
}

func TestValidatePageTokenRejects(t *testing.T) {
	svc := createTestPageTokenService(t, time.Hour)
	expired := createTestPageTokenService(t, -time.Hour)

	expiredToken, err := expired.IssuePageToken(1, 0, []uint{1})
	require.NoError(t, err)

	otherIssuer, err := NewPageTokenService(time.Hour, "someone-else", "test-audience", testSecret)
	require.NoError(t, err)
	foreignToken, err := otherIssuer.IssuePageToken(1, 0, []uint{1})
	require.NoError(t, err)

	otherSecret, err := NewPageTokenService(time.Hour, "test-issuer", "test-audience", "another-secret-key-with-32-characters!")
	require.NoError(t, err)
	forgedToken, err := otherSecret.IssuePageToken(1, 0, []uint{1})
	require.NoError(t, err)

	wrongType, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sales_rep_id": 1,
		"page_index":   0,
		"order_ids":    []uint{1},
		"token_type":   "access",
		"exp":          time.Now().Add(time.Hour).Unix(),
		"iss":          "test-issuer",
		"aud":          "test-audience",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty token", token: "", wantErr: ErrTokenInvalid},
		{name: "garbage", token: "invalid.token.format", wantErr: ErrTokenInvalid},
		{name: "expired", token: expiredToken, wantErr: ErrTokenExpired},
		{name: "wrong issuer", token: foreignToken, wantErr: ErrTokenInvalid},
		{name: "wrong secret", token: forgedToken, wantErr: ErrTokenInvalid},
		{name: "wrong token type", token: wrongType, wantErr: ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.ValidatePageToken(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}
