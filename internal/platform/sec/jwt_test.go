// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/sec"
)

const (
	testAccessSecret  = "access-secret-for-tests"
	testRefreshSecret = "refresh-secret-for-tests"
	testIssuer        = "vidora.test"
)

func newTestTokenService(t *testing.T, accessTTL, refreshTTL time.Duration) *sec.TokenService {
	t.Helper()

	service, err := sec.NewTokenService(testAccessSecret, testRefreshSecret, accessTTL, refreshTTL, testIssuer)
	require.NoError(t, err)
	return service
}

/*
TestNewTokenService_Validation verifies constructor-level secret checks.
*/
func TestNewTokenService_Validation(t *testing.T) {
	tests := []struct {
		name          string
		accessSecret  string
		refreshSecret string
		accessTTL     time.Duration
		refreshTTL    time.Duration
		wantErr       bool
	}{
		{"valid", "a-secret", "r-secret", time.Minute, time.Hour, false},
		{"empty_access_secret", "", "r-secret", time.Minute, time.Hour, true},
		{"empty_refresh_secret", "a-secret", "", time.Minute, time.Hour, true},
		{"equal_secrets", "same", "same", time.Minute, time.Hour, true},
		{"zero_access_ttl", "a-secret", "r-secret", 0, time.Hour, true},
		{"negative_refresh_ttl", "a-secret", "r-secret", time.Minute, -time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenService(tt.accessSecret, tt.refreshSecret, tt.accessTTL, tt.refreshTTL, testIssuer)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestAccessToken_RoundTrip verifies full identity claims survive sign/verify.
*/
func TestAccessToken_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 720*time.Hour)

	token, err := service.GenerateAccessToken("user-123", "tai@vidora.app", "tai", "Tai Bui")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyAccessToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, "tai@vidora.app", claims.Email)
	assert.Equal(t, "tai", claims.Username)
	assert.Equal(t, "Tai Bui", claims.FullName)
	assert.Equal(t, testIssuer, claims.Issuer)
}

/*
TestRefreshToken_RoundTrip verifies the refresh token carries only the subject.
*/
func TestRefreshToken_RoundTrip(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 720*time.Hour)

	token, err := service.GenerateRefreshToken("user-456")
	require.NoError(t, err)

	claims, err := service.VerifyRefreshToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-456", claims.UserID())
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Username)
}

/*
TestTokenClassSeparation verifies the dual-secret design: a refresh token must
never verify as an access token, and vice versa.
*/
func TestTokenClassSeparation(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 720*time.Hour)

	accessToken, err := service.GenerateAccessToken("user-1", "a@b.c", "u", "F")
	require.NoError(t, err)
	refreshToken, err := service.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = service.VerifyAccessToken(refreshToken)
	assert.Error(t, err)

	_, err = service.VerifyRefreshToken(accessToken)
	assert.Error(t, err)
}

/*
TestVerifyAccessToken_Expired verifies an expired token is rejected.
*/
func TestVerifyAccessToken_Expired(t *testing.T) {
	service := newTestTokenService(t, time.Nanosecond, 720*time.Hour)

	token, err := service.GenerateAccessToken("user-1", "a@b.c", "u", "F")
	require.NoError(t, err)

	// Wait past the one-nanosecond lifetime.
	time.Sleep(10 * time.Millisecond)

	_, err = service.VerifyAccessToken(token)
	assert.Error(t, err)
}

/*
TestVerifyAccessToken_Tampered verifies signature validation rejects modified tokens.
*/
func TestVerifyAccessToken_Tampered(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 720*time.Hour)

	token, err := service.GenerateAccessToken("user-1", "a@b.c", "u", "F")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = service.VerifyAccessToken(tampered)
	assert.Error(t, err)

	_, err = service.VerifyAccessToken("not.a.jwt")
	assert.Error(t, err)
}

/*
TestTokenService_TTLAccessors verifies the configured lifetimes are exposed.
*/
func TestTokenService_TTLAccessors(t *testing.T) {
	service := newTestTokenService(t, 15*time.Minute, 720*time.Hour)

	assert.Equal(t, 15*time.Minute, service.AccessTTL())
	assert.Equal(t, 720*time.Hour, service.RefreshTTL())
}
