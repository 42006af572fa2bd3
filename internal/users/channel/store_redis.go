// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/constants"
)

// profileCacheTTL bounds staleness of subscriber counts for hot channels.
const profileCacheTTL = 60 * time.Second

// RedisProfileCache implements [ProfileCache] using Redis.
type RedisProfileCache struct {
	client *redis.Client
}

// NewProfileCache creates a new Redis-backed ProfileCache.
func NewProfileCache(client *redis.Client) *RedisProfileCache {
	return &RedisProfileCache{client: client}
}

// cacheKey builds the per-(channel, viewer) key. The viewer is part of the
// key because IsSubscribed differs per viewer.
func cacheKey(username, viewerID string) string {
	return fmt.Sprintf("%s%s:%s", constants.RedisPrefixChannelProfile, username, viewerID)
}

/*
Get retrieves a cached profile.

Description: Returns apperr.NotFound on a cache miss or an undecodable entry.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string

Returns:
  - *Profile: Cached view
  - error: apperr.NotFound or connectivity errors
*/
func (cache *RedisProfileCache) Get(context context.Context, username, viewerID string) (*Profile, error) {

	// Fetch the serialized profile
	payload, err := cache.client.Get(context, cacheKey(username, viewerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Cached profile")
		}
		return nil, fmt.Errorf("redis_profile_cache_get_failed: %w", err)
	}

	// Decode; a corrupt entry is treated as a miss
	profile := &Profile{}
	if err := json.Unmarshal(payload, profile); err != nil {
		return nil, apperr.NotFound("Cached profile")
	}

	return profile, nil
}

/*
Set stores a profile snapshot with the cache TTL.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string
  - profile: *Profile

Returns:
  - error: Serialization or storage failures
*/
func (cache *RedisProfileCache) Set(context context.Context, username, viewerID string, profile *Profile) error {

	// Serialize the profile
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("redis_profile_cache_marshal_failed: %w", err)
	}

	// Store with TTL
	if err := cache.client.Set(context, cacheKey(username, viewerID), payload, profileCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_set_failed: %w", err)
	}

	return nil
}

/*
Delete evicts the (username, viewerID) entry.

Parameters:
  - context: context.Context
  - username: string
  - viewerID: string

Returns:
  - error: Deletion failures
*/
func (cache *RedisProfileCache) Delete(context context.Context, username, viewerID string) error {
	if err := cache.client.Del(context, cacheKey(username, viewerID)).Err(); err != nil {
		return fmt.Errorf("redis_profile_cache_delete_failed: %w", err)
	}
	return nil
}
