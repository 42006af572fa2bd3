// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package account implements the authenticated user's self-service surface.

It covers profile reads and updates, avatar/cover media replacement, and the
watch-history read model with its nested owner projection.

# Architecture

The package composes the auth domain's account storage with its own
history read model. It owns no identity rules itself; those live in auth.
*/
package account

import (
	"context"
	"time"
)

// # Read Models

// HistoryOwner is the minimal owner projection embedded in each history entry.
type HistoryOwner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// HistoryVideo is one watched video in the user's history, in watch order.
type HistoryVideo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	CreatedAt   time.Time    `json:"createdAt"`
	Owner       HistoryOwner `json:"owner"`
}

// # Data Access

// HistoryRepository defines the read contract for the watch-history view.
type HistoryRepository interface {

	/*
		ListByUser returns the user's watch history in watch order,
		each entry carrying its owner projection. An empty history yields
		an empty slice, not an error.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - []HistoryVideo: Ordered history entries
		  - error: Database retrieval failures
	*/
	ListByUser(context context.Context, userID string) ([]HistoryVideo, error)
}
