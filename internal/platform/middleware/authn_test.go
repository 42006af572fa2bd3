// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/middleware"
	"github.com/vidora/vidora/internal/platform/sec"
)

// fakeVerifier accepts exactly one token string.
type fakeVerifier struct {
	validToken string
	claims     *sec.AuthClaims
}

func (v *fakeVerifier) VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == v.validToken {
		return v.claims, nil
	}
	return nil, errors.New("bad token")
}

// fakeResolver resolves a fixed set of live subjects.
type fakeResolver struct {
	existing map[string]bool
	err      error
}

func (r *fakeResolver) SubjectExists(ctx context.Context, userID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.existing[userID], nil
}

func testClaims(userID string) *sec.AuthClaims {
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
		Username:         "tai",
	}
}

// echoClaims records whether the handler ran and what claims it saw.
func echoClaims(sawClaims **sec.AuthClaims, ran *bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		*ran = true
		*sawClaims = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	}
}

/*
TestAuthenticate_AnonymousPassThrough verifies a request without any token
proceeds unauthenticated.
*/
func TestAuthenticate_AnonymousPassThrough(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/videos", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, ran)
	assert.Nil(t, claims)
}

/*
TestAuthenticate_CookieToken verifies the accessToken cookie grants a session.
*/
func TestAuthenticate_CookieToken(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "valid"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID())
}

/*
TestAuthenticate_BearerToken verifies the Authorization header fallback.
*/
func TestAuthenticate_BearerToken(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer valid")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.NotNil(t, claims)
}

/*
TestAuthenticate_InvalidToken verifies a bad token is rejected with 401, not
treated as anonymous.
*/
func TestAuthenticate_InvalidToken(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer forged")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, ran)
}

/*
TestAuthenticate_MalformedHeader verifies a non-Bearer Authorization header is
rejected outright.
*/
func TestAuthenticate_MalformedHeader(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Basic dXNlcjpwYXNz")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, ran)
}

/*
TestAuthenticate_DeletedSubject verifies a valid token whose account no longer
exists is rejected.
*/
func TestAuthenticate_DeletedSubject(t *testing.T) {
	verifier := &fakeVerifier{validToken: "valid", claims: testClaims("ghost")}
	resolver := &fakeResolver{existing: map[string]bool{}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.Header.Set(constants.HeaderAuthorization, "Bearer valid")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, ran)
}

/*
TestAuthenticate_CookieWinsOverHeader verifies cookie precedence when both
carriers are present.
*/
func TestAuthenticate_CookieWinsOverHeader(t *testing.T) {
	verifier := &fakeVerifier{validToken: "cookie-token", claims: testClaims("user-1")}
	resolver := &fakeResolver{existing: map[string]bool{"user-1": true}}

	var claims *sec.AuthClaims
	var ran bool
	handler := middleware.Authenticate(verifier, resolver)(echoClaims(&claims, &ran))

	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	request.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: "cookie-token"})
	request.Header.Set(constants.HeaderAuthorization, "Bearer header-token")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	// The verifier only accepts the cookie token, so a 200 proves precedence.
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, ran)
}

/*
TestRequireAuth verifies the guard blocks anonymous requests and passes
authenticated ones.
*/
func TestRequireAuth(t *testing.T) {
	var ran bool
	handler := middleware.RequireAuth(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ran = true
		writer.WriteHeader(http.StatusOK)
	}))

	// 1. Anonymous request is blocked
	request := httptest.NewRequest("GET", "/api/v1/users/current-user", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, ran)

	// 2. Authenticated request passes
	ctx := ctxutil.WithAuthUser(request.Context(), testClaims("user-1"))
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, ran)
}
