// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for the authenticated user's account.
type Service struct {
	userRepository    auth.UserRepository
	historyRepository HistoryRepository
	uploader          media.Uploader
	logger            *slog.Logger
}

// NewService constructs a new account [Service] with its dependencies.
func NewService(
	userRepo auth.UserRepository,
	historyRepo HistoryRepository,
	uploader media.Uploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:    userRepo,
		historyRepository: historyRepo,
		uploader:          uploader,
		logger:            logger,
	}
}

// # Profile Management

/*
CurrentUser retrieves the full private identity of the authenticated user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) CurrentUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
UpdateAccount applies changes to the mutable profile fields.

Description: Normalizes the email, persists the change, and returns the
refreshed profile. An email collision surfaces as a Conflict.

Parameters:
  - context: context.Context
  - userID: string
  - fullName: string
  - email: string

Returns:
  - *auth.User: The updated user profile
  - error: Conflict, NotFound, or storage failures
*/
func (service *Service) UpdateAccount(context context.Context, userID, fullName, email string) (*auth.User, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	if err := service.userRepository.UpdateProfile(context, userID, strings.TrimSpace(fullName), normalizedEmail); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_refetch_failed: %w", err)
	}

	service.logger.Info("user_account_updated", slog.String("user_id", userID))

	return user, nil
}

// # Media Management

/*
UpdateAvatar replaces the user's avatar image.

Description: Uploads the staged file to the media host and persists the
returned URL. A failed upload aborts without touching the stored URL.

Parameters:
  - context: context.Context
  - userID: string
  - file: *auth.FileUpload

Returns:
  - *auth.User: The updated user profile
  - error: Upload, NotFound, or storage failures
*/
func (service *Service) UpdateAvatar(context context.Context, userID string, file *auth.FileUpload) (*auth.User, error) {
	return service.updateImage(context, userID, file, constants.MediaFolderAvatars, service.userRepository.UpdateAvatar)
}

/*
UpdateCoverImage replaces the user's cover image.

Parameters:
  - context: context.Context
  - userID: string
  - file: *auth.FileUpload

Returns:
  - *auth.User: The updated user profile
  - error: Upload, NotFound, or storage failures
*/
func (service *Service) UpdateCoverImage(context context.Context, userID string, file *auth.FileUpload) (*auth.User, error) {
	return service.updateImage(context, userID, file, constants.MediaFolderCovers, service.userRepository.UpdateCoverImage)
}

// updateImage uploads a staged image and persists its URL via the given setter.
func (service *Service) updateImage(
	context context.Context,
	userID string,
	file *auth.FileUpload,
	folder string,
	persist func(context.Context, string, string) error,
) (*auth.User, error) {
	url, err := service.uploader.Upload(context, folder, file.Filename, file.Content, file.Size, file.ContentType)
	if err != nil || url == "" {
		return nil, apperr.Upload("Image upload failed")
	}

	if err := persist(context, userID, url); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_media_refetch_failed: %w", err)
	}

	service.logger.Info("user_media_updated",
		slog.String("user_id", userID),
		slog.String("folder", folder),
	)

	return user, nil
}

// # Watch History

/*
WatchHistory returns the user's watch history in watch order.

Description: Each entry carries the owning channel projected down to
{fullName, username, avatar}. An empty history is a valid, empty result.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []HistoryVideo: Ordered history entries
  - error: Retrieval failures
*/
func (service *Service) WatchHistory(context context.Context, userID string) ([]HistoryVideo, error) {
	history, err := service.historyRepository.ListByUser(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_watch_history_failed: %w", err)
	}

	// Clients iterate the list directly; never hand them a nil slice.
	if history == nil {
		history = []HistoryVideo{}
	}

	return history, nil
}
