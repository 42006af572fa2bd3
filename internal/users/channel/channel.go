// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package channel implements the public channel surface: the aggregated channel
profile read model and the subscribe/unsubscribe write path.

# Architecture

The profile is a derived view computed from the account and subscription
relations (subscriber counts plus a viewer-specific isSubscribed flag). Hot
profiles are cached in Redis with a short TTL; subscription changes evict the
affected viewer's cache entries.
*/
package channel

import "context"

// # Read Models

// Profile is the aggregated public view of a channel.
//
// SubscribersCount and ChannelsSubscribedToCount are derived from the
// subscription relation at query time. IsSubscribed is viewer-specific:
// it reports whether the requesting identity follows this channel.
type Profile struct {
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	Username                  string `json:"username"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
	Avatar                    string `json:"avatar"`
	CoverImage                string `json:"coverImage"`
}

// # Data Access

// ProfileRepository defines the read contract for the aggregated channel view.
type ProfileRepository interface {

	/*
		FindByUsername computes the aggregated profile for a channel as seen
		by the given viewer.

		Parameters:
		  - context: context.Context
		  - username: string (channel handle)
		  - viewerID: string (requesting identity; drives IsSubscribed)

		Returns:
		  - *Profile: Aggregated view
		  - error: apperr.NotFound if no such channel, or retrieval failures
	*/
	FindByUsername(context context.Context, username, viewerID string) (*Profile, error)
}

// SubscriptionRepository defines the write contract for the follow relation.
type SubscriptionRepository interface {

	/*
		Subscribe creates the (subscriber, channel) pair. Idempotent:
		subscribing twice is not an error.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - error: Persistence failures
	*/
	Subscribe(context context.Context, subscriberID, channelID string) error

	/*
		Unsubscribe removes the (subscriber, channel) pair. Idempotent:
		removing an absent pair is not an error.

		Parameters:
		  - context: context.Context
		  - subscriberID: string
		  - channelID: string

		Returns:
		  - error: Persistence failures
	*/
	Unsubscribe(context context.Context, subscriberID, channelID string) error
}

// ProfileCache defines the volatile cache contract for channel profiles.
//
// Cache failures must never fail a request; callers treat errors as misses.
type ProfileCache interface {

	// Get returns the cached profile for (username, viewerID), or
	// apperr.NotFound on a miss.
	Get(context context.Context, username, viewerID string) (*Profile, error)

	// Set stores the profile for (username, viewerID) with the cache TTL.
	Set(context context.Context, username, viewerID string, profile *Profile) error

	// Delete evicts the (username, viewerID) entry. Called after the viewer
	// toggles their subscription to that channel, so their IsSubscribed flag
	// is never stale. Other viewers' counts age out with the short TTL.
	Delete(context context.Context, username, viewerID string) error
}
