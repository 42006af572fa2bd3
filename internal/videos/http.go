// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
	"github.com/vidora/vidora/internal/platform/middleware"
	requestutil "github.com/vidora/vidora/internal/platform/request"
	"github.com/vidora/vidora/internal/platform/respond"
	"github.com/vidora/vidora/internal/platform/validate"
	"github.com/vidora/vidora/internal/users/auth"
	"github.com/vidora/vidora/pkg/pagination"
)

// # Definitions & Constructors

// Handler implements the video catalog HTTP endpoints.
type Handler struct {
	videoService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{videoService: service}
}

// Routes returns a [chi.Router] configured with catalog routes.
//
// # Endpoints
//   - GET  /      : Paginated published list (public).
//   - GET  /{id}  : Single video; records view and, when authenticated, history.
//   - POST /      : Publish a new video (protected, multipart).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.publish)
	})

	return router
}

/*
List returns a page of published videos, newest first.

GET /api/v1/videos?page=N&limit=M

Response:
  - 200: Paginated list of videos with owner projections
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	results, meta, err := handler.videoService.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, results, meta, "Videos fetched successfully")
}

/*
Get returns a single video and records the playback side effects.

GET /api/v1/videos/{id}

Description: Public endpoint. When the request carries a valid session, the
watch is also appended to the viewer's history.

Response:
  - 200: Video with owner projection
  - 404: No such video
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID()
	}

	video, err := handler.videoService.Get(request.Context(), requestutil.Param(request, "id"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, video, "Video fetched successfully")
}

/*
Publish uploads a new video with its thumbnail and creates the catalog entry.

POST /api/v1/videos

Request:
  - Multipart fields: title (required), description, duration (seconds)
  - Multipart files: videoFile (required), thumbnail (required)

Response:
  - 201: Video: Created catalog entry
  - 400: Validation failure or failed upload
  - 401: Missing access token
*/
func (handler *Handler) publish(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(constants.MaxVideoUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Malformed multipart form"))
		return
	}

	title := request.FormValue(FieldTitle)
	description := request.FormValue(FieldDescription)
	duration, _ := strconv.ParseFloat(request.FormValue(FieldDuration), 64)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, title).
		MaxLen(FieldTitle, title, MaxTitleLength).
		MaxLen(FieldDescription, description, MaxDescriptionLength).
		Custom(FieldDuration, duration < 0, "Must not be negative")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	videoFile, videoHeader, err := requestutil.FormFile(request, FieldVideoFile)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if videoHeader == nil {
		respond.Error(writer, request, validate.RequiredError(FieldVideoFile, "Video file is required"))
		return
	}
	defer videoFile.Close()

	thumbFile, thumbHeader, err := requestutil.FormFile(request, FieldThumbnail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if thumbHeader == nil {
		respond.Error(writer, request, validate.RequiredError(FieldThumbnail, "Thumbnail file is required"))
		return
	}
	defer thumbFile.Close()

	video, err := handler.videoService.Publish(request.Context(), PublishInput{
		OwnerID:     userID,
		Title:       title,
		Description: description,
		Duration:    duration,
		VideoFile: &auth.FileUpload{
			Filename:    videoHeader.Filename,
			ContentType: videoHeader.Header.Get("Content-Type"),
			Size:        videoHeader.Size,
			Content:     videoFile,
		},
		Thumbnail: &auth.FileUpload{
			Filename:    thumbHeader.Filename,
			ContentType: thumbHeader.Header.Get("Content-Type"),
			Size:        thumbHeader.Size,
			Content:     thumbFile,
		},
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, video, "Video published successfully")
}
