// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

/*
Package media abstracts the object-storage host that serves user uploads.

Every avatar, cover image, video file, and thumbnail is pushed to an
S3-compatible bucket and referenced by its public URL from then on. The
database never stores binary blobs, only URLs.

Responsibilities:

  - Keys: Collision-free object keys derived from the original file name.
  - URLs: Stable public URLs suitable for direct playback/display.
  - Health: Connectivity probing for the readiness endpoint.
*/
package media

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/vidora/vidora/pkg/slug"
	"github.com/vidora/vidora/pkg/uuid"
)

// Uploader stores a binary object and returns its public URL.
//
// # Why an interface?
//
// Services depend on this interface rather than the MinIO client directly,
// so unit tests can swap in an in-memory fake without network access.
type Uploader interface {
	// Upload streams the object into the given folder and returns the public
	// URL of the stored object. An empty URL is never returned with a nil error.
	Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error)
}

// ObjectKey builds a collision-free storage key for an uploaded file.
//
// The original file name is sanitized into a slug and prefixed with a UUIDv7
// so concurrent uploads of "avatar.png" never collide, while keys still sort
// by upload time within a folder.
func ObjectKey(folder, filename string) string {
	extension := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))

	name := slug.From(base)
	if name == "" {
		name = "file"
	}

	return folder + "/" + uuid.New() + "-" + name + extension
}
