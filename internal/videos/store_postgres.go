// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package videos

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/dberr"
)

// # Video Repository

// PostgresVideoRepository implements [VideoRepository] using pgx.
type PostgresVideoRepository struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new PostgreSQL implementation of the VideoRepository.
func NewVideoRepository(pool *pgxpool.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

/*
Create persists a new catalog entry into the core.video table.

Parameters:
  - context: context.Context
  - video: *Video

Returns:
  - error: apperr.ValidationError (unknown owner) or persistence failures
*/
func (repository *PostgresVideoRepository) Create(context context.Context, video *Video) error {
	const query = `
		INSERT INTO core.video (
			id, ownerid, title, description, videofile, thumbnail,
			duration, views, ispublished, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if video.CreatedAt.IsZero() {
		video.CreatedAt = now
	}
	video.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		video.ID,
		video.OwnerID,
		video.Title,
		video.Description,
		video.VideoFile,
		video.Thumbnail,
		video.Duration,
		video.Views,
		video.IsPublished,
		video.CreatedAt,
		video.UpdatedAt,
	)

	return dberr.Wrap(err, "postgres_video_repo_create")
}

/*
FindByID returns the catalog entry joined with its owner projection.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Video: Hydrated entity with Owner populated
  - error: apperr.NotFound or retrieval failures
*/
func (repository *PostgresVideoRepository) FindByID(context context.Context, id string) (*Video, error) {
	const query = `
		SELECT
			v.id, v.ownerid, v.title, v.description, v.videofile, v.thumbnail,
			v.duration, v.views, v.ispublished, v.createdat, v.updatedat,
			o.fullname, o.username, o.avatar
		FROM core.video v
		JOIN users.account o ON o.id = v.ownerid
		WHERE v.id = $1`

	video := &Video{Owner: &Owner{}}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&video.ID,
		&video.OwnerID,
		&video.Title,
		&video.Description,
		&video.VideoFile,
		&video.Thumbnail,
		&video.Duration,
		&video.Views,
		&video.IsPublished,
		&video.CreatedAt,
		&video.UpdatedAt,
		&video.Owner.FullName,
		&video.Owner.Username,
		&video.Owner.Avatar,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Video")
		}
		return nil, dberr.Wrap(err, "postgres_video_repo_find_by_id")
	}

	return video, nil
}

/*
List returns published videos newest first, plus the total published count.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []Video: Page of catalog entries with owner projections
  - int64: Total published count
  - error: Retrieval failures
*/
func (repository *PostgresVideoRepository) List(context context.Context, limit, offset int) ([]Video, int64, error) {
	const countQuery = `SELECT COUNT(*) FROM core.video WHERE ispublished`

	var total int64
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_video_repo_count")
	}

	const query = `
		SELECT
			v.id, v.ownerid, v.title, v.description, v.videofile, v.thumbnail,
			v.duration, v.views, v.ispublished, v.createdat, v.updatedat,
			o.fullname, o.username, o.avatar
		FROM core.video v
		JOIN users.account o ON o.id = v.ownerid
		WHERE v.ispublished
		ORDER BY v.createdat DESC, v.id DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_video_repo_list")
	}
	defer rows.Close()

	results := []Video{}
	for rows.Next() {
		video := Video{Owner: &Owner{}}
		err := rows.Scan(
			&video.ID,
			&video.OwnerID,
			&video.Title,
			&video.Description,
			&video.VideoFile,
			&video.Thumbnail,
			&video.Duration,
			&video.Views,
			&video.IsPublished,
			&video.CreatedAt,
			&video.UpdatedAt,
			&video.Owner.FullName,
			&video.Owner.Username,
			&video.Owner.Avatar,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "postgres_video_repo_scan")
		}
		results = append(results, video)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "postgres_video_repo_rows")
	}

	return results, total, nil
}

/*
IncrementViews bumps the view counter by one.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresVideoRepository) IncrementViews(context context.Context, id string) error {
	const query = `UPDATE core.video SET views = views + 1 WHERE id = $1`

	_, err := repository.pool.Exec(context, query, id)
	return dberr.Wrap(err, "postgres_video_repo_increment_views")
}

/*
RecordWatch appends the video to the user's watch history.

Description: The history table is append-ordered by its serial key. A re-watch
deletes the prior row before inserting, which moves the entry to the most
recent position instead of duplicating it.

Parameters:
  - context: context.Context
  - userID: string
  - videoID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresVideoRepository) RecordWatch(context context.Context, userID, videoID string) error {
	const deleteQuery = `
		DELETE FROM users.watchhistory
		WHERE userid = $1 AND videoid = $2`
	const insertQuery = `
		INSERT INTO users.watchhistory (userid, videoid, watchedat)
		VALUES ($1, $2, $3)`

	if _, err := repository.pool.Exec(context, deleteQuery, userID, videoID); err != nil {
		return dberr.Wrap(err, "postgres_video_repo_history_delete")
	}
	if _, err := repository.pool.Exec(context, insertQuery, userID, videoID, time.Now()); err != nil {
		return dberr.Wrap(err, "postgres_video_repo_history_insert")
	}

	return nil
}
