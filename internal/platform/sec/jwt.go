// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via the [TokenProvider] interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a Vidora JWT.
//
// # Two Token Kinds
//
// Access tokens carry the full identity set (subject id, email, username,
// fullName) so that request handling does not need a database round-trip for
// claims. Refresh tokens carry only the subject id — their sole purpose is to
// mint new access tokens without forcing a re-login.
type AuthClaims struct {
	jwt.RegisteredClaims

	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

// UserID returns the token subject (the user's primary key).
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// # Dual Secrets
//
// Access and refresh tokens are signed with two DISTINCT secrets so that a
// refresh token can never be replayed as an access token (and vice versa),
// even though both are HMAC-signed JWTs.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

// NewTokenService creates a new TokenService.
//
// # Parameters
//   - accessSecret: HMAC secret for access tokens.
//   - refreshSecret: HMAC secret for refresh tokens (must differ from accessSecret).
//   - accessTTL: Lifetime of access tokens (minutes-to-hours range).
//   - refreshTTL: Lifetime of refresh tokens (days range).
//   - issuer: The 'iss' claim stamped on every token.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, issuer string) (*TokenService, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("sec: token secrets must not be empty")
	}

	if accessSecret == refreshSecret {
		return nil, errors.New("sec: access and refresh secrets must be distinct")
	}

	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("sec: token lifetimes must be positive")
	}

	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}, nil
}

// GenerateAccessToken creates a short-lived JWT carrying the user's identity claims.
func (service *TokenService) GenerateAccessToken(userID, email, username, fullName string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.accessTTL)),
		},
		Email:    email,
		Username: username,
		FullName: fullName,
	}

	return service.sign(claims, service.accessSecret)
}

// GenerateRefreshToken creates a long-lived JWT carrying only the subject id.
func (service *TokenService) GenerateRefreshToken(userID string) (string, error) {
	currentTime := time.Now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.refreshTTL)),
		},
	}

	return service.sign(claims, service.refreshSecret)
}

// VerifyAccessToken checks the signature and validity of an access token string.
func (service *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.accessSecret)
}

// VerifyRefreshToken checks the signature and validity of a refresh token string.
func (service *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return service.verify(tokenString, service.refreshSecret)
}

// AccessTTL returns the configured access token lifetime (used for cookie expiry).
func (service *TokenService) AccessTTL() time.Duration { return service.accessTTL }

// RefreshTTL returns the configured refresh token lifetime (used for cookie expiry).
func (service *TokenService) RefreshTTL() time.Duration { return service.refreshTTL }

// sign serializes and HMAC-signs the claims with the given secret.
func (service *TokenService) sign(claims AuthClaims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// verify parses and validates a token string against the given secret.
//
// It fails for a bad signature, a foreign signing algorithm, or an expired
// token. The failure reasons are deliberately not distinguished beyond the
// wrapped message to avoid leaking which check failed.
func (service *TokenService) verify(tokenString string, secret []byte) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, errors.New("sec: invalid token claims")
	}

	return claims, nil
}
