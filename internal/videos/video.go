// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package videos implements the video catalog: publishing, retrieval, listing,
and the view-count / watch-history side effects of playback.

# Architecture

Videos are owned by user accounts. The binary assets (video file, thumbnail)
live on the media host; the catalog row stores only their URLs. Fetching a
video increments its view counter and, for authenticated viewers, records the
watch in their history.
*/
package videos

import (
	"context"
	"time"
)

// # Domain Entities

// Owner is the minimal channel projection attached to catalog entries.
type Owner struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Video represents one published catalog entry.
type Video struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	VideoFile   string    `json:"videoFile"`
	Thumbnail   string    `json:"thumbnail"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Owner       *Owner    `json:"owner,omitempty"`
}

// # Field Identifiers

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDuration    = "duration"
	FieldVideoFile   = "videoFile"
	FieldThumbnail   = "thumbnail"
)

// # Validation Tuning

const (
	// MaxTitleLength bounds catalog titles.
	MaxTitleLength = 200

	// MaxDescriptionLength bounds catalog descriptions.
	MaxDescriptionLength = 5000
)

// # Data Access

// VideoRepository defines the data access contract for the video catalog.
type VideoRepository interface {

	/*
		Create persists a new catalog entry.

		Parameters:
		  - context: context.Context
		  - video: *Video

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, video *Video) error

	/*
		FindByID returns the catalog entry with its owner projection.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Video: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Video, error)

	/*
		List returns published videos, newest first, with the total count
		for pagination.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []Video: Page of catalog entries
		  - int64: Total published count
		  - error: Retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]Video, int64, error)

	/*
		IncrementViews bumps the view counter by one.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	IncrementViews(context context.Context, id string) error

	/*
		RecordWatch appends the video to the user's watch history. A re-watch
		moves the entry to the most recent position.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - videoID: string

		Returns:
		  - error: Persistence failures
	*/
	RecordWatch(context context.Context, userID, videoID string) error
}
