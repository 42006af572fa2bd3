// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

// PostgreSQL implementation of the auth storage contracts.
//
// # Architecture
//
// Repositories in this file are strictly separated from domain logic. They
// implement domain-defined interfaces (e.g., [UserRepository]) using the
// [pgxpool.Pool] connection manager.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows or SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types via [dberr.Wrap] to avoid leaking
// storage implementation details.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/dberr"
)

// userColumns is the canonical SELECT column list for the account table.
const userColumns = `id, username, email, fullname, passwordhash, avatar, coverimage, refreshtoken, createdat, updatedat`

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// scanUser hydrates a User from a single-row query result.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.Avatar,
		&user.CoverImage,
		&user.RefreshToken,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are initialized
if not provided. Unique violations surface as client-safe Conflict errors.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict or database connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, fullname, passwordhash, avatar, coverimage, refreshtoken, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.Avatar,
		user.CoverImage,
		user.RefreshToken,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "postgres_user_repo_create")
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_id")
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Description: Lookup on the account table. Email is stored lowercase, callers
must normalize before querying.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_email")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and channel resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users.account
		WHERE username = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "postgres_user_repo_find_by_username")
	}

	return user, nil
}

/*
ExistsByEmailOrUsername reports whether an account already claims the email or username.

Description: Pre-flight uniqueness check for registration. The unique indexes
remain the final authority against concurrent duplicate inserts.

Parameters:
  - context: context.Context
  - email: string
  - username: string

Returns:
  - bool: true if a conflicting account exists
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) ExistsByEmailOrUsername(context context.Context, email, username string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM users.account WHERE email = $1 OR username = $2
		)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, email, username).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_exists_check")
	}

	return exists, nil
}

/*
SubjectExists reports whether the account with the given ID exists.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - bool: true if the account exists
  - error: Database retrieval failures
*/
func (repository *PostgresUserRepository) SubjectExists(context context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users.account WHERE id = $1)`

	var exists bool
	if err := repository.pool.QueryRow(context, query, id).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_user_repo_subject_exists")
	}

	return exists, nil
}

/*
UpdateRefreshToken replaces the stored refresh token for the account.

Description: An empty token clears the session (logout). This single-column
write is the rotation point of the token lifecycle.

Parameters:
  - context: context.Context
  - userID: string
  - refreshToken: string

Returns:
  - error: apperr.NotFound if the account vanished, or persistence failures
*/
func (repository *PostgresUserRepository) UpdateRefreshToken(context context.Context, userID, refreshToken string) error {
	const query = `
		UPDATE users.account
		SET refreshtoken = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, refreshToken, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_refresh_token")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdatePassword replaces only the user's password hash.

Parameters:
  - context: context.Context
  - userID: string
  - newHash: string

Returns:
  - error: apperr.NotFound if the account vanished, or persistence failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, newHash, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_password")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateProfile persists changes to the mutable profile fields.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - email: string

Returns:
  - error: apperr.Conflict on email collision, apperr.NotFound, or persistence failures
*/
func (repository *PostgresUserRepository) UpdateProfile(context context.Context, userID, fullName, email string) error {
	const query = `
		UPDATE users.account
		SET fullname = $2, email = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, fullName, email, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_profile")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateAvatar replaces only the avatar URL.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - error: apperr.NotFound if the account vanished, or persistence failures
*/
func (repository *PostgresUserRepository) UpdateAvatar(context context.Context, userID, avatarURL string) error {
	const query = `
		UPDATE users.account
		SET avatar = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, avatarURL, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_avatar")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateCoverImage replaces only the cover image URL.

Parameters:
  - context: context.Context
  - userID: string
  - coverURL: string

Returns:
  - error: apperr.NotFound if the account vanished, or persistence failures
*/
func (repository *PostgresUserRepository) UpdateCoverImage(context context.Context, userID, coverURL string) error {
	const query = `
		UPDATE users.account
		SET coverimage = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, coverURL, time.Now())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_cover_image")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
