// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
)

// # Definitions & Constructors

// Handler implements the channel profile and subscription HTTP endpoints.
type Handler struct {
	channelService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{channelService: service}
}

// Routes returns a [chi.Router] configured with channel-specific routes.
//
// Mounted under /users/c, so the full paths are /users/c/{username} and
// /users/c/{username}/subscription.
//
// # Endpoints (all protected)
//   - GET    /{username}              : Aggregated channel profile.
//   - POST   /{username}/subscription : Follow the channel.
//   - DELETE /{username}/subscription : Unfollow the channel.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/{username}", handler.profile)
	router.Post("/{username}/subscription", handler.subscribe)
	router.Delete("/{username}/subscription", handler.unsubscribe)

	return router
}

/*
Profile returns the aggregated channel view for the requesting user.

GET /api/v1/users/c/{username}

Response:
  - 200: Profile: Counts plus the viewer-specific isSubscribed flag
  - 400: Blank username
  - 404: No such channel
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.channelService.GetProfile(request.Context(), requestutil.Param(request, "username"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile, "Channel profile fetched successfully")
}

/*
Subscribe makes the requesting user follow the channel.

POST /api/v1/users/c/{username}/subscription

Response:
  - 200: Subscribed (idempotent)
  - 400: Self-subscription attempt
  - 404: No such channel
*/
func (handler *Handler) subscribe(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.channelService.Subscribe(request.Context(), viewerID, requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{}, "Subscribed successfully")
}

/*
Unsubscribe makes the requesting user stop following the channel.

DELETE /api/v1/users/c/{username}/subscription

Response:
  - 200: Unsubscribed (idempotent)
  - 404: No such channel
*/
func (handler *Handler) unsubscribe(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.channelService.Unsubscribe(request.Context(), viewerID, requestutil.Param(request, "username")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{}, "Unsubscribed successfully")
}
