// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package auth implements the core identity and access management system.

It handles everything from user registration and secure password hashing to the
access/refresh token lifecycle with single-stored-token rotation.

Architecture:

  - Service: Orchestrates business logic (Register, Login, Refresh, Password).
  - Repository: Abstracted interface for PostgreSQL account storage.
  - Security: Leverages Bcrypt hashing and dual-secret HS256 JWTs.

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/pkg/uuid"
)

// # Contracts & Types

// TokenProvider defines the contract for issuing and verifying session tokens.
//
// Access and refresh tokens are signed with distinct secrets, so a refresh
// token can never pass access-token verification and vice versa.
type TokenProvider interface {
	// GenerateAccessToken creates a short-lived signed JWT carrying full
	// identity claims for the given user.
	GenerateAccessToken(userID, email, username, fullName string) (string, error)

	// GenerateRefreshToken creates a long-lived signed JWT carrying only
	// the subject ID.
	GenerateRefreshToken(userID string) (string, error)

	// VerifyRefreshToken checks signature and expiry of a refresh token.
	VerifyRefreshToken(tokenStr string) (*sec.AuthClaims, error)
}

// FileUpload is a staged multipart file handed from the HTTP layer to the service.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// Session represents a successfully established token pair.
type Session struct {
	User         *User
	AccessToken  string
	RefreshToken string
}

// Service implements user authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or token rotation logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	uploader       media.Uploader
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(userRepo UserRepository, tokenProv TokenProvider, uploader media.Uploader) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		uploader:       uploader,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *FileUpload
	CoverImage *FileUpload
}

/*
Register validates, hashes, uploads, and persists a brand new user account.

Description: Deep-enrollment of a new member. Uploads the required avatar (and
optional cover image) to the media host, persists the account with a hashed
password, then re-fetches the record to confirm the write.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (password and refresh token never serialized)
  - error: Conflict, Upload, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Normalize identity fields so uniqueness is case-insensitive.
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.ToLower(strings.TrimSpace(input.Username))

	// Pre-flight uniqueness check. Return a client-safe Conflict error.
	// The unique indexes remain the authority under concurrent registration.
	exists, err := service.userRepository.ExistsByEmailOrUsername(context, email, username)
	if err != nil {
		return nil, fmt.Errorf("auth_service_uniqueness_check_failed: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Email or username is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// The avatar is mandatory. A failed or empty-URL upload aborts registration.
	if input.Avatar == nil {
		return nil, apperr.ValidationError("Avatar file is required")
	}
	avatarURL, err := service.uploader.Upload(context,
		constants.MediaFolderAvatars, input.Avatar.Filename,
		input.Avatar.Content, input.Avatar.Size, input.Avatar.ContentType,
	)
	if err != nil || avatarURL == "" {
		return nil, apperr.Upload("Avatar upload failed")
	}

	// The cover image is optional and its upload failure is tolerated:
	// the account is still created, just without a cover.
	coverURL := ""
	if input.CoverImage != nil {
		coverURL, err = service.uploader.Upload(context,
			constants.MediaFolderCovers, input.CoverImage.Filename,
			input.CoverImage.Content, input.CoverImage.Size, input.CoverImage.ContentType,
		)
		if err != nil {
			coverURL = ""
		}
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hashedPassword,
		Avatar:       avatarURL,
		CoverImage:   coverURL,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	// Re-fetch to confirm the write. A miss here signals a store-level race
	// or bug and is surfaced as an internal post-condition violation.
	created, err := service.userRepository.FindByID(context, user.ID)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_register_refetch_failed: %w", err))
	}

	return created, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Identifier string // Email or username
	Password   string
}

/*
Login validates user credentials and issues a fresh token pair.

Description: Verifies identity, performs constant-time password comparison,
and persists the newly issued refresh token, displacing any prior session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *Session: Transport-ready token pair plus the user profile
  - error: NotFound (unknown identity), Unauthorized (bad password), or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Identifier))

	// Flexible login: look up by email first, then by username.
	user, err := service.userRepository.FindByEmail(context, identifier)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, identifier)
	}

	// Unknown identity is a 404, distinct from a wrong password.
	if err != nil {
		return nil, apperr.NotFound("User")
	}

	// Constant-time comparison inside bcrypt prevents timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid user credentials")
	}

	return service.issueSession(context, user)
}

/*
Logout invalidates the user's active refresh token.

Description: Clears the single stored refresh token so the current session
can never mint new access tokens. Idempotent.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, userID string) error {
	if err := service.userRepository.UpdateRefreshToken(context, userID, ""); err != nil {
		// The account being gone already achieves the logout outcome.
		if apperr.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// # Token Rotation

/*
Refresh implements the refresh-token rotation mechanism.

Description: Verifies the presented refresh token, requires an exact match
against the single stored token (stale/rotated tokens fail closed), and
issues a fresh pair that replaces the stored value.

Parameters:
  - context: context.Context
  - presentedToken: string

Returns:
  - *Session: New token pair
  - error: Unauthorized (invalid/rotated token), NotFound (subject gone), or storage failures
*/
func (service *Service) Refresh(context context.Context, presentedToken string) (*Session, error) {

	// Signature and expiry check. Failures are not distinguished to the
	// client beyond "invalid or expired".
	claims, err := service.tokenProvider.VerifyRefreshToken(presentedToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid or expired refresh token")
	}

	// Resolve the subject. A deleted account yields 404, not 401.
	user, err := service.userRepository.FindByID(context, claims.UserID())
	if err != nil {
		return nil, err
	}

	// Rotation check: the presented token must exactly equal the stored one.
	// A mismatch signals reuse of a stale token and must fail closed.
	if user.RefreshToken == "" || user.RefreshToken != presentedToken {
		return nil, apperr.Unauthorized("Refresh token is expired or has been used")
	}

	return service.issueSession(context, user)
}

// issueSession generates an access/refresh pair and persists the refresh
// token, displacing whatever token was stored before.
func (service *Service) issueSession(context context.Context, user *User) (*Session, error) {
	accessToken, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Email, user.Username, user.FullName)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, err := service.tokenProvider.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	if err := service.userRepository.UpdateRefreshToken(context, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("auth_service_persist_refresh_token_failed: %w", err)
	}
	user.RefreshToken = refreshToken

	return &Session{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// # Password Lifecycle

/*
ChangePassword allows an authenticated user to rotate their credentials.

Description: Verifies the old password before hashing and persisting the new
one. The refresh token is left intact so other device sessions survive.

Parameters:
  - context: context.Context
  - userID: string
  - oldPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized (wrong old password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, oldPassword, newPassword string) error {

	// Fetch user by ID
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	// Verify the current password before allowing the change
	if !sec.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("Invalid old password")
	}

	// Hash the brand new password
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_change_password_hash_failed: %w", err)
	}

	// Update the database with the new hash
	if err := service.userRepository.UpdatePassword(context, userID, hashedPassword); err != nil {
		return fmt.Errorf("auth_service_change_password_update_failed: %w", err)
	}

	return nil
}
