// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

// # Validation Tuning

const (
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3

	// MaxUsernameLength keeps handles usable in channel URLs.
	MaxUsernameLength = 30

	// MaxFullNameLength bounds the display name.
	MaxFullNameLength = 100
)
