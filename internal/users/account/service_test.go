// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package account_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/users/account"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Test Doubles

// fakeUserRepo is a minimal in-memory auth.UserRepository.
type fakeUserRepo struct {
	users map[string]*auth.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{
		"user-1": {
			ID:       "user-1",
			Username: "taibui",
			Email:    "tai@vidora.app",
			FullName: "Tai Bui",
			Avatar:   "https://media.test/avatars/old.png",
		},
	}}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	return false, nil
}

func (r *fakeUserRepo) SubjectExists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *auth.User) error { return nil }

func (r *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, newHash string) error {
	return nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, userID, fullName, email string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.FullName = fullName
	user.Email = email
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(ctx context.Context, userID, avatarURL string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Avatar = avatarURL
	return nil
}

func (r *fakeUserRepo) UpdateCoverImage(ctx context.Context, userID, coverURL string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.CoverImage = coverURL
	return nil
}

// fakeHistoryRepo serves canned history lists.
type fakeHistoryRepo struct {
	history map[string][]account.HistoryVideo
	err     error
}

func (r *fakeHistoryRepo) ListByUser(ctx context.Context, userID string) ([]account.HistoryVideo, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.history[userID], nil
}

// fakeUploader returns deterministic URLs and can be broken entirely.
type fakeUploader struct {
	broken bool
}

func (u *fakeUploader) Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if u.broken {
		return "", errors.New("media host unavailable")
	}
	return fmt.Sprintf("https://media.test/%s/%s", folder, filename), nil
}

func imageUpload(name string) *auth.FileUpload {
	return &auth.FileUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        4,
		Content:     strings.NewReader("data"),
	}
}

// # Profile Management

/*
TestCurrentUser verifies profile retrieval and the 404 for unknown ids.
*/
func TestCurrentUser(t *testing.T) {
	service := account.NewService(newFakeUserRepo(), &fakeHistoryRepo{}, &fakeUploader{}, slog.Default())

	user, err := service.CurrentUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "taibui", user.Username)

	_, err = service.CurrentUser(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestUpdateAccount verifies normalization and the refreshed profile.
*/
func TestUpdateAccount(t *testing.T) {
	repo := newFakeUserRepo()
	service := account.NewService(repo, &fakeHistoryRepo{}, &fakeUploader{}, slog.Default())

	user, err := service.UpdateAccount(context.Background(), "user-1", "  New Name  ", "  NEW@Vidora.APP ")
	require.NoError(t, err)

	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "new@vidora.app", user.Email)
}

// # Media Management

/*
TestUpdateAvatar verifies the upload-persist-refetch flow.
*/
func TestUpdateAvatar(t *testing.T) {
	repo := newFakeUserRepo()
	service := account.NewService(repo, &fakeHistoryRepo{}, &fakeUploader{}, slog.Default())

	user, err := service.UpdateAvatar(context.Background(), "user-1", imageUpload("new.png"))
	require.NoError(t, err)

	assert.Contains(t, user.Avatar, "avatars/new.png")
	assert.Equal(t, user.Avatar, repo.users["user-1"].Avatar)
}

/*
TestUpdateAvatar_UploadFailure verifies a failed upload leaves the stored URL
untouched.
*/
func TestUpdateAvatar_UploadFailure(t *testing.T) {
	repo := newFakeUserRepo()
	service := account.NewService(repo, &fakeHistoryRepo{}, &fakeUploader{broken: true}, slog.Default())

	_, err := service.UpdateAvatar(context.Background(), "user-1", imageUpload("new.png"))
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPLOAD_FAILED", ae.Code)
	assert.Equal(t, "https://media.test/avatars/old.png", repo.users["user-1"].Avatar)
}

/*
TestUpdateCoverImage verifies the cover-image variant of the same flow.
*/
func TestUpdateCoverImage(t *testing.T) {
	repo := newFakeUserRepo()
	service := account.NewService(repo, &fakeHistoryRepo{}, &fakeUploader{}, slog.Default())

	user, err := service.UpdateCoverImage(context.Background(), "user-1", imageUpload("cover.jpg"))
	require.NoError(t, err)
	assert.Contains(t, user.CoverImage, "covers/cover.jpg")
}

// # Watch History

/*
TestWatchHistory_EmptyIsNotAnError verifies a user with no history gets an
empty list, never nil and never an error.
*/
func TestWatchHistory_EmptyIsNotAnError(t *testing.T) {
	service := account.NewService(newFakeUserRepo(), &fakeHistoryRepo{}, &fakeUploader{}, slog.Default())

	history, err := service.WatchHistory(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

/*
TestWatchHistory_Ordered verifies entries pass through in repository order.
*/
func TestWatchHistory_Ordered(t *testing.T) {
	historyRepo := &fakeHistoryRepo{history: map[string][]account.HistoryVideo{
		"user-1": {
			{ID: "video-1", Title: "First watched"},
			{ID: "video-2", Title: "Second watched"},
		},
	}}
	service := account.NewService(newFakeUserRepo(), historyRepo, &fakeUploader{}, slog.Default())

	history, err := service.WatchHistory(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "video-1", history[0].ID)
	assert.Equal(t, "video-2", history[1].ID)
}
