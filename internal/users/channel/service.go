// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Service Layer

// Service orchestrates the channel profile view and the follow relation.
type Service struct {
	profileRepository      ProfileRepository
	subscriptionRepository SubscriptionRepository
	userRepository         auth.UserRepository
	cache                  ProfileCache
	logger                 *slog.Logger
}

// NewService constructs a new channel [Service] with its dependencies.
func NewService(
	profileRepo ProfileRepository,
	subscriptionRepo SubscriptionRepository,
	userRepo auth.UserRepository,
	cache ProfileCache,
	logger *slog.Logger,
) *Service {
	return &Service{
		profileRepository:      profileRepo,
		subscriptionRepository: subscriptionRepo,
		userRepository:         userRepo,
		cache:                  cache,
		logger:                 logger,
	}
}

// # Profile View

/*
GetProfile returns the aggregated channel profile as seen by the viewer.

Description: Read-through cache. Cache failures are logged and treated as
misses; the database remains the source of truth.

Parameters:
  - context: context.Context
  - username: string (channel handle)
  - viewerID: string (requesting identity)

Returns:
  - *Profile: Aggregated view
  - error: ValidationError (blank username), NotFound, or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, username, viewerID string) (*Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperr.ValidationError("Username is required")
	}

	// Cache probe. Any error here is a miss, never a request failure.
	if cached, err := service.cache.Get(context, username, viewerID); err == nil {
		return cached, nil
	}

	profile, err := service.profileRepository.FindByUsername(context, username, viewerID)
	if err != nil {
		return nil, err
	}

	// Warm the cache best-effort.
	if err := service.cache.Set(context, username, viewerID, profile); err != nil {
		service.logger.Warn("channel_profile_cache_set_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}

	return profile, nil
}

// # Follow Relation

/*
Subscribe makes the viewer follow the named channel.

Description: Resolves the channel handle, rejects self-subscription, persists
the pair idempotently, and evicts the viewer's cached view of that channel.

Parameters:
  - context: context.Context
  - viewerID: string
  - username: string (channel handle)

Returns:
  - error: ValidationError (blank handle or self-subscription), NotFound, or storage failures
*/
func (service *Service) Subscribe(context context.Context, viewerID, username string) error {
	return service.toggleSubscription(context, viewerID, username, true)
}

/*
Unsubscribe makes the viewer stop following the named channel.

Parameters:
  - context: context.Context
  - viewerID: string
  - username: string (channel handle)

Returns:
  - error: ValidationError, NotFound, or storage failures
*/
func (service *Service) Unsubscribe(context context.Context, viewerID, username string) error {
	return service.toggleSubscription(context, viewerID, username, false)
}

// toggleSubscription is the shared resolve-validate-write-evict flow.
func (service *Service) toggleSubscription(context context.Context, viewerID, username string, follow bool) error {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return apperr.ValidationError("Username is required")
	}

	channel, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		return err
	}

	if channel.ID == viewerID {
		return apperr.ValidationError("You cannot subscribe to your own channel")
	}

	if follow {
		err = service.subscriptionRepository.Subscribe(context, viewerID, channel.ID)
	} else {
		err = service.subscriptionRepository.Unsubscribe(context, viewerID, channel.ID)
	}
	if err != nil {
		return err
	}

	// The viewer's cached view of this channel now has a stale IsSubscribed.
	if err := service.cache.Delete(context, username, viewerID); err != nil {
		service.logger.Warn("channel_profile_cache_evict_failed",
			slog.String("username", username),
			slog.Any("error", err),
		)
	}

	service.logger.Info("channel_subscription_toggled",
		slog.String("viewer_id", viewerID),
		slog.String("channel", username),
		slog.Bool("subscribed", follow),
	)

	return nil
}
