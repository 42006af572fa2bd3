// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
HTTP delivery layer for user identity management.

It implements the gateway for the authentication lifecycle, from account
creation to token rotation.

# Architecture

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface (registration is multipart).
  - Security: Handles JWT orchestration and token cookie injection.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes, headers, JSON).
*/
package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages the user lifecycle entry points (registration, login,
// logout, token refresh, password change).
type Handler struct {
	authService *Service
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

// NewHandler constructs a new [Handler] with its service dependency.
//
// The TTLs drive cookie expiry and must match the token lifetimes configured
// on the token provider.
func NewHandler(service *Service, accessTTL, refreshTTL time.Duration) *Handler {
	return &Handler{
		authService: service,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register       : Creates a new account (multipart).
//   - POST /login          : Authenticates and returns a token pair.
//   - POST /refresh-token  : Rotates the refresh token.
//   - POST /logout         : Clears the stored refresh token (protected).
//   - PATCH /change-password : Rotates the password (protected).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh-token", handler.refresh)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/logout", handler.logout)
		r.Patch("/change-password", handler.changePassword)
	})

	return router
}

// # Request Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

/*
Register handles the creation of a new user account.

POST /api/v1/auth/register

Description: Parses the multipart form, validates input, uploads the staged
avatar (required) and cover image (optional), and persists the new account.

Request:
  - Multipart fields: fullName, email, username, password
  - Multipart files: avatar (required), coverImage (optional)

Response:
  - 201: User: Created user profile (password and refresh token excluded)
  - 400: Validation failure or failed avatar upload
  - 409: Username or email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Malformed multipart form"))
		return
	}

	fullName := request.FormValue(FieldFullName)
	email := request.FormValue(FieldEmail)
	username := request.FormValue(FieldUsername)
	password := request.FormValue(FieldPassword)

	validator := &validate.Validator{}
	validator.Required(FieldFullName, fullName).
		MaxLen(FieldFullName, fullName, MaxFullNameLength).
		Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldUsername, username).
		MinLen(FieldUsername, username, MinUsernameLength).
		MaxLen(FieldUsername, username, MaxUsernameLength).
		Required(FieldPassword, password).
		MinLen(FieldPassword, password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	avatarFile, avatarHeader, err := requestutil.FormFile(request, FieldAvatar)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if avatarHeader == nil {
		respond.Error(writer, request, validate.RequiredError(FieldAvatar, "Avatar file is required"))
		return
	}
	defer avatarFile.Close()

	input := RegisterInput{
		FullName: fullName,
		Email:    email,
		Username: username,
		Password: password,
		Avatar: &FileUpload{
			Filename:    avatarHeader.Filename,
			ContentType: avatarHeader.Header.Get("Content-Type"),
			Size:        avatarHeader.Size,
			Content:     avatarFile,
		},
	}

	coverFile, coverHeader, err := requestutil.FormFile(request, FieldCoverImage)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if coverHeader != nil {
		defer coverFile.Close()
		input.CoverImage = &FileUpload{
			Filename:    coverHeader.Filename,
			ContentType: coverHeader.Header.Get("Content-Type"),
			Size:        coverHeader.Size,
			Content:     coverFile,
		}
	}

	user, err := handler.authService.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, user, "User registered successfully")
}

/*
Login authenticates a user and establishes a session.

POST /api/v1/auth/login

Description: Verifies credentials, generates the access/refresh token pair,
persists the refresh token, and injects both as secure http-only cookies.
The tokens are also returned in the body for non-browser clients.

Request:
  - Body: loginRequest (Email or Username, Password)

Response:
  - 200: Session: User profile plus both tokens
  - 400: Neither email nor username provided
  - 404: No account matches the identifier
  - 401: Wrong password
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	identifier := input.Email
	if identifier == "" {
		identifier = input.Username
	}

	validator := &validate.Validator{}
	validator.Custom(FieldUsername, identifier == "", "Email or username is required")
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Identifier: identifier,
		Password:   input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldUser:              session.User,
		FieldAccessToken:       session.AccessToken,
		constants.RefreshTokenCookieName: session.RefreshToken,
	}, "User logged in successfully")
}

/*
Logout terminates the current user session.

POST /api/v1/auth/logout

Description: Clears the stored refresh token for the authenticated subject so
it can never be rotated again, and expires both cookies on the client.

Response:
  - 200: Session terminated
  - 401: Missing access token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearSessionCookies(writer)

	respond.OK(writer, map[string]any{}, "User logged out successfully")
}

/*
Refresh issues a new token pair using a valid refresh token.

POST /api/v1/auth/refresh-token

Description: Rotates the session by validating the refresh token cookie,
requiring an exact match against the stored token, and issuing a fresh pair.
The token is accepted from the cookie only; body tokens would bypass the
httpOnly protection.

Response:
  - 200: New access and refresh tokens
  - 401: Missing, invalid, expired, or already-rotated refresh token
  - 404: Token subject no longer exists
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, apperr.Unauthorized("Missing refresh token"))
		return
	}

	session, err := handler.authService.Refresh(request.Context(), cookie.Value)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.setSessionCookies(writer, session)

	respond.OK(writer, map[string]any{
		FieldAccessToken:                 session.AccessToken,
		constants.RefreshTokenCookieName: session.RefreshToken,
	}, "Access token refreshed")
}

/*
ChangePassword updates the authenticated user's password.

PATCH /api/v1/auth/change-password

Description: Verifies the old password before hashing and persisting the new one.

Request:
  - Body: changePasswordRequest (OldPassword, NewPassword)

Response:
  - 200: Password changed
  - 400: Weak password or validation failure
  - 401: Wrong old password or authentication required
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldOldPassword, input.OldPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.OldPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{}, "Password changed successfully")
}

// # Cookie Management

// setSessionCookies writes both token cookies. The refresh cookie is scoped
// to the auth routes so it never travels with regular API calls.
func (handler *Handler) setSessionCookies(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  time.Now().Add(handler.accessTTL),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    session.RefreshToken,
		Path:     constants.RefreshTokenCookiePath,
		Expires:  time.Now().Add(handler.refreshTTL),
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearSessionCookies expires both token cookies on the client.
func (handler *Handler) clearSessionCookies(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
