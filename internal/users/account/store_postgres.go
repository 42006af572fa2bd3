// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/dberr"
)

// # History Repository

// PostgresHistoryRepository implements [HistoryRepository] using pgx.
type PostgresHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new PostgreSQL implementation of the HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{pool: pool}
}

/*
ListByUser returns the user's watch history in watch order.

Description: Joins the history relation against the video table and each
video's owner, ordered by the history row's append-ordered key. Re-watches
update the existing row, so each video appears once at its latest position.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []HistoryVideo: Ordered history entries (empty slice when no history)
  - error: Database retrieval failures
*/
func (repository *PostgresHistoryRepository) ListByUser(context context.Context, userID string) ([]HistoryVideo, error) {
	const query = `
		SELECT
			v.id, v.title, v.description, v.videofile, v.thumbnail,
			v.duration, v.views, v.createdat,
			o.fullname, o.username, o.avatar
		FROM users.watchhistory h
		JOIN core.video v ON v.id = h.videoid
		JOIN users.account o ON o.id = v.ownerid
		WHERE h.userid = $1
		ORDER BY h.id ASC`

	rows, err := repository.pool.Query(context, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_history_repo_list")
	}
	defer rows.Close()

	history := []HistoryVideo{}
	for rows.Next() {
		var entry HistoryVideo
		err := rows.Scan(
			&entry.ID,
			&entry.Title,
			&entry.Description,
			&entry.VideoFile,
			&entry.Thumbnail,
			&entry.Duration,
			&entry.Views,
			&entry.CreatedAt,
			&entry.Owner.FullName,
			&entry.Owner.Username,
			&entry.Owner.Avatar,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "postgres_history_repo_scan")
		}
		history = append(history, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "postgres_history_repo_rows")
	}

	return history, nil
}
