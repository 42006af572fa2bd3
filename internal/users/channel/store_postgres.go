// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/dberr"
)

// # Profile Repository

// PostgresProfileRepository implements [ProfileRepository] using pgx.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new PostgreSQL implementation of the ProfileRepository.
func NewProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

/*
FindByUsername computes the aggregated channel profile in a single query.

Description: Derives both subscription counts with correlated subqueries and
the viewer-specific IsSubscribed flag with an EXISTS probe. One round-trip,
no read-modify-write.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string

Returns:
  - *Profile: Aggregated view
  - error: apperr.NotFound if no such channel, or retrieval failures
*/
func (repository *PostgresProfileRepository) FindByUsername(context context.Context, username, viewerID string) (*Profile, error) {
	const query = `
		SELECT
			a.fullname,
			a.email,
			a.username,
			(SELECT COUNT(*) FROM users.subscription s WHERE s.channelid = a.id)    AS subscribers,
			(SELECT COUNT(*) FROM users.subscription s WHERE s.subscriberid = a.id) AS subscribedto,
			EXISTS (
				SELECT 1 FROM users.subscription s
				WHERE s.channelid = a.id AND s.subscriberid = $2
			) AS issubscribed,
			a.avatar,
			a.coverimage
		FROM users.account a
		WHERE a.username = $1`

	profile := &Profile{}
	err := repository.pool.QueryRow(context, query, username, viewerID).Scan(
		&profile.FullName,
		&profile.Email,
		&profile.Username,
		&profile.SubscribersCount,
		&profile.ChannelsSubscribedToCount,
		&profile.IsSubscribed,
		&profile.Avatar,
		&profile.CoverImage,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Channel")
		}
		return nil, dberr.Wrap(err, "postgres_channel_repo_find_by_username")
	}

	return profile, nil
}

// # Subscription Repository

// PostgresSubscriptionRepository implements [SubscriptionRepository] using pgx.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository creates a new PostgreSQL implementation of the SubscriptionRepository.
func NewSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

/*
Subscribe creates the follow pair. ON CONFLICT makes the operation idempotent.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSubscriptionRepository) Subscribe(context context.Context, subscriberID, channelID string) error {
	const query = `
		INSERT INTO users.subscription (subscriberid, channelid)
		VALUES ($1, $2)
		ON CONFLICT (subscriberid, channelid) DO NOTHING`

	_, err := repository.pool.Exec(context, query, subscriberID, channelID)
	return dberr.Wrap(err, "postgres_subscription_repo_subscribe")
}

/*
Unsubscribe removes the follow pair. Removing an absent pair is a no-op.

Parameters:
  - context: context.Context
  - subscriberID: string
  - channelID: string

Returns:
  - error: Persistence failures
*/
func (repository *PostgresSubscriptionRepository) Unsubscribe(context context.Context, subscriberID, channelID string) error {
	const query = `
		DELETE FROM users.subscription
		WHERE subscriberid = $1 AND channelid = $2`

	_, err := repository.pool.Exec(context, query, subscriberID, channelID)
	return dberr.Wrap(err, "postgres_subscription_repo_unsubscribe")
}
