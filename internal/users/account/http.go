// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Definitions & Constructors

// Handler implements the authenticated self-service HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with account-specific routes.
//
// # Endpoints (all protected)
//   - GET   /current-user   : The authenticated user's profile.
//   - PATCH /update-account : Mutable profile fields (fullName, email).
//   - PATCH /avatar         : Avatar replacement (multipart).
//   - PATCH /cover-image    : Cover image replacement (multipart).
//   - GET   /history        : Ordered watch history with owner projection.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/current-user", handler.currentUser)
	router.Patch("/update-account", handler.updateAccount)
	router.Patch("/avatar", handler.updateAvatar)
	router.Patch("/cover-image", handler.updateCoverImage)
	router.Get("/history", handler.history)

	return router
}

// # Request Payloads

type updateAccountRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

/*
CurrentUser returns the authenticated user's profile.

GET /api/v1/users/current-user

Response:
  - 200: User: Sanitized profile (no password hash, no refresh token)
  - 401: Missing access token
*/
func (handler *Handler) currentUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.CurrentUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Current user fetched successfully")
}

/*
UpdateAccount applies changes to the mutable profile fields.

PATCH /api/v1/users/update-account

Request:
  - Body: updateAccountRequest (FullName, Email)

Response:
  - 200: User: Updated profile
  - 400: Validation failure
  - 409: Email already in use
*/
func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateAccountRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldFullName, input.FullName).
		MaxLen(auth.FieldFullName, input.FullName, auth.MaxFullNameLength).
		Required(auth.FieldEmail, input.Email).
		Email(auth.FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.UpdateAccount(request.Context(), userID, input.FullName, input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, "Account details updated successfully")
}

/*
UpdateAvatar replaces the authenticated user's avatar.

PATCH /api/v1/users/avatar

Request:
  - Multipart file: avatar (required)

Response:
  - 200: User: Updated profile
  - 400: Missing file or failed upload
*/
func (handler *Handler) updateAvatar(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, auth.FieldAvatar, handler.accountService.UpdateAvatar, "Avatar updated successfully")
}

/*
UpdateCoverImage replaces the authenticated user's cover image.

PATCH /api/v1/users/cover-image

Request:
  - Multipart file: coverImage (required)

Response:
  - 200: User: Updated profile
  - 400: Missing file or failed upload
*/
func (handler *Handler) updateCoverImage(writer http.ResponseWriter, request *http.Request) {
	handler.updateImage(writer, request, auth.FieldCoverImage, handler.accountService.UpdateCoverImage, "Cover image updated successfully")
}

// updateImage is the shared multipart flow for the two media endpoints.
func (handler *Handler) updateImage(
	writer http.ResponseWriter,
	request *http.Request,
	field string,
	apply func(ctx context.Context, userID string, file *auth.FileUpload) (*auth.User, error),
	message string,
) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxImageUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Malformed multipart form"))
		return
	}

	file, header, err := requestutil.FormFile(request, field)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if header == nil {
		respond.Error(writer, request, validate.RequiredError(field, "File is required"))
		return
	}
	defer file.Close()

	user, err := apply(request.Context(), userID, &auth.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Content:     file,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user, message)
}

/*
History returns the authenticated user's watch history.

GET /api/v1/users/history

Response:
  - 200: []HistoryVideo: Ordered entries, each with its owner projection
  - 401: Missing access token
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	history, err := handler.accountService.WatchHistory(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, history, "Watch history fetched successfully")
}
