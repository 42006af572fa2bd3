// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entity (User) and the logic for registration,
login, token rotation, and password lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered member of the Vidora platform.
//
// # Serialization
//
// PasswordHash and RefreshToken are explicitly omitted from JSON. Every
// handler that returns a User therefore returns the sanitized shape by
// construction; there is no separate "public user" type to keep in sync.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Avatar       string    `json:"avatar"`
	CoverImage   string    `json:"coverImage,omitempty"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldFullName    = "fullName"
	FieldAvatar      = "avatar"
	FieldCoverImage  = "coverImage"
	FieldOldPassword = "oldPassword"
	FieldNewPassword = "newPassword"
	FieldUser        = "user"
	FieldAccessToken = "accessToken"
)
