// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vidora/vidora/internal/media"
	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
	"github.com/vidora/vidora/pkg/uuid"
)

// # Service Layer

// Service orchestrates the video catalog use cases.
type Service struct {
	videoRepository VideoRepository
	uploader        media.Uploader
	logger          *slog.Logger
}

// NewService constructs a new videos [Service] with its dependencies.
func NewService(videoRepo VideoRepository, uploader media.Uploader, logger *slog.Logger) *Service {
	return &Service{
		videoRepository: videoRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

// # Publishing

// PublishInput holds the data required to publish a new video.
type PublishInput struct {
	OwnerID     string
	Title       string
	Description string
	Duration    float64
	VideoFile   *auth.FileUpload
	Thumbnail   *auth.FileUpload
}

/*
Publish uploads the video assets and creates the catalog entry.

Description: Both the video file and the thumbnail are mandatory; either
upload failing aborts the publish without a catalog row.

Parameters:
  - context: context.Context
  - input: PublishInput

Returns:
  - *Video: Created catalog entry
  - error: Upload or storage failures
*/
func (service *Service) Publish(context context.Context, input PublishInput) (*Video, error) {
	if input.VideoFile == nil {
		return nil, apperr.ValidationError("Video file is required")
	}
	if input.Thumbnail == nil {
		return nil, apperr.ValidationError("Thumbnail file is required")
	}

	videoURL, err := service.uploader.Upload(context,
		constants.MediaFolderVideos, input.VideoFile.Filename,
		input.VideoFile.Content, input.VideoFile.Size, input.VideoFile.ContentType,
	)
	if err != nil || videoURL == "" {
		return nil, apperr.Upload("Video upload failed")
	}

	thumbnailURL, err := service.uploader.Upload(context,
		constants.MediaFolderThumbnails, input.Thumbnail.Filename,
		input.Thumbnail.Content, input.Thumbnail.Size, input.Thumbnail.ContentType,
	)
	if err != nil || thumbnailURL == "" {
		return nil, apperr.Upload("Thumbnail upload failed")
	}

	video := &Video{
		ID:          uuid.New(),
		OwnerID:     input.OwnerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Duration:    input.Duration,
		IsPublished: true,
	}

	if err := service.videoRepository.Create(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("owner_id", video.OwnerID),
	)

	return service.videoRepository.FindByID(context, video.ID)
}

// # Retrieval

/*
Get fetches a single video and records the playback side effects.

Description: Increments the view counter. When viewerID is non-empty the
watch is recorded in that user's history; anonymous views only count.
Side-effect failures are logged, never surfaced — playback must not break
because a counter write failed.

Parameters:
  - context: context.Context
  - videoID: string
  - viewerID: string (empty for anonymous viewers)

Returns:
  - *Video: Hydrated entry with owner projection
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, videoID, viewerID string) (*Video, error) {
	video, err := service.videoRepository.FindByID(context, videoID)
	if err != nil {
		return nil, err
	}

	if err := service.videoRepository.IncrementViews(context, videoID); err != nil {
		service.logger.Warn("video_view_count_failed",
			slog.String("video_id", videoID),
			slog.Any("error", err),
		)
	} else {
		video.Views++
	}

	if viewerID != "" {
		if err := service.videoRepository.RecordWatch(context, viewerID, videoID); err != nil {
			service.logger.Warn("video_history_record_failed",
				slog.String("video_id", videoID),
				slog.String("viewer_id", viewerID),
				slog.Any("error", err),
			)
		}
	}

	return video, nil
}

/*
List returns a page of published videos, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []Video: Page of catalog entries
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) List(context context.Context, params pagination.Params) ([]Video, pagination.Meta, error) {
	results, total, err := service.videoRepository.List(context, params.Limit, params.Offset())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return results, pagination.NewMeta(params.Page, params.Limit, int(total)), nil
}
