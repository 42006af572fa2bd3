// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth

import (
	"context"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		ExistsByEmailOrUsername reports whether any account already claims
		the given email or username.

		Parameters:
		  - context: context.Context
		  - email: string
		  - username: string

		Returns:
		  - bool: true if a conflicting account exists
		  - error: Database retrieval failures
	*/
	ExistsByEmailOrUsername(context context.Context, email, username string) (bool, error)

	/*
		SubjectExists reports whether the account with the given ID exists.
		Used by the session middleware to reject tokens of deleted accounts.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - bool: true if the account exists
		  - error: Database retrieval failures
	*/
	SubjectExists(context context.Context, id string) (bool, error)

	/*
		Create persists a brand-new user account to the storage.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Persistence failures (Conflict on unique violation)
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateRefreshToken replaces the stored refresh token for the account.
		An empty string clears the token (logout).

		Parameters:
		  - context: context.Context
		  - userID: string
		  - refreshToken: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateRefreshToken(context context.Context, userID, refreshToken string) error

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, newHash string) error

	/*
		UpdateProfile persists changes to the mutable profile fields
		(fullName, email).

		Parameters:
		  - context: context.Context
		  - userID: string
		  - fullName: string
		  - email: string

		Returns:
		  - error: Persistence failures (Conflict on email unique violation)
	*/
	UpdateProfile(context context.Context, userID, fullName, email string) error

	/*
		UpdateAvatar replaces only the avatar URL.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateAvatar(context context.Context, userID, avatarURL string) error

	/*
		UpdateCoverImage replaces only the cover image URL.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - coverURL: string

		Returns:
		  - error: Persistence failures
	*/
	UpdateCoverImage(context context.Context, userID, coverURL string) error
}
