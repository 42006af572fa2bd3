// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/ctxutil"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify access tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `auth` service
// implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyAccessToken(tokenStr string) (*sec.AuthClaims, error)
}

// SubjectResolver reports whether the token subject still maps to a live account.
//
// A syntactically valid token whose account has been deleted must not grant
// access, so the middleware consults the resolver after signature verification.
type SubjectResolver interface {
	SubjectExists(ctx context.Context, userID string) (bool, error)
}

// Authenticate extracts and verifies the access JWT from the request.
//
// # Flow
//  1. Check the 'accessToken' cookie; fall back to 'Authorization: Bearer <token>'.
//  2. If neither is present, the request proceeds as anonymous.
//  3. If present, verify the JWT via [TokenVerifier].
//  4. Confirm the token subject still exists via [SubjectResolver].
//  5. Inject [*sec.AuthClaims] into the request context for downstream use.
//
// Browsers carry the cookie automatically; mobile and API clients send the
// Bearer header. The cookie wins when both are present.
func Authenticate(verifier TokenVerifier, resolver SubjectResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Token Extraction ───────────────────────────────────────────
			tokenStr, err := extractAccessToken(request)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyAccessToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			// ── 4. Subject Resolution ─────────────────────────────────────────
			exists, err := resolver.SubjectExists(request.Context(), claims.UserID())
			if err != nil {
				respond.Error(writer, request, apperr.Internal(err))
				return
			}
			if !exists {
				respond.Error(writer, request, apperr.Unauthorized("Invalid access token"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Missing access token"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// extractAccessToken pulls the raw JWT out of the cookie or the Bearer header.
//
// An empty return with nil error means the request is anonymous. A malformed
// Authorization header is rejected outright rather than treated as anonymous.
func extractAccessToken(request *http.Request) (string, error) {
	if cookie, err := request.Cookie(constants.AccessTokenCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := request.Header.Get(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", nil
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", apperr.Unauthorized("Invalid authorization format")
	}
	return parts[1], nil
}
