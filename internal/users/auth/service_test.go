// Copyright (c) 2026 Vidora. All rights reserved.
// Author: dev@vidora.app

package auth_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vidora/vidora/internal/platform/apperr"
	"github.com/vidora/vidora/internal/platform/sec"
	"github.com/vidora/vidora/internal/users/auth"
)

// # Test Doubles

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users map[string]*auth.User // keyed by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*auth.User{}}
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*auth.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SubjectExists(ctx context.Context, id string) (bool, error) {
	_, ok := r.users[id]
	return ok, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user *auth.User) error {
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateRefreshToken(ctx context.Context, userID, refreshToken string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.RefreshToken = refreshToken
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID, newHash string) error {
	user, ok := r.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
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

// fakeTokens is a deterministic TokenProvider. Refresh tokens it issued verify
// back to their subject; anything else fails.
type fakeTokens struct {
	issued  int
	refresh map[string]string // token -> userID
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{refresh: map[string]string{}}
}

func (p *fakeTokens) GenerateAccessToken(userID, email, username, fullName string) (string, error) {
	p.issued++
	return fmt.Sprintf("access-%s-%d", userID, p.issued), nil
}

func (p *fakeTokens) GenerateRefreshToken(userID string) (string, error) {
	p.issued++
	token := fmt.Sprintf("refresh-%s-%d", userID, p.issued)
	p.refresh[token] = userID
	return token, nil
}

func (p *fakeTokens) VerifyRefreshToken(tokenStr string) (*sec.AuthClaims, error) {
	userID, ok := p.refresh[tokenStr]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return &sec.AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID},
	}, nil
}

// fakeUploader returns deterministic URLs and can be told to fail per folder.
type fakeUploader struct {
	failFolders map[string]bool
	uploads     int
}

func (u *fakeUploader) Upload(ctx context.Context, folder, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if u.failFolders[folder] {
		return "", errors.New("media host unavailable")
	}
	u.uploads++
	return fmt.Sprintf("https://media.test/%s/%s", folder, filename), nil
}

func upload(name string) *auth.FileUpload {
	return &auth.FileUpload{
		Filename:    name,
		ContentType: "image/png",
		Size:        4,
		Content:     strings.NewReader("data"),
	}
}

func registerInput() auth.RegisterInput {
	return auth.RegisterInput{
		FullName: "Tai Bui",
		Email:    "Tai@Vidora.app",
		Username: "TaiBui",
		Password: "super-secret-pw",
		Avatar:   upload("avatar.png"),
	}
}

// # Registration

/*
TestRegister_Success verifies the happy path: normalization, hashing, upload,
persistence, and re-fetch.
*/
func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})

	created, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotNil(t, created)

	// Identity fields are lowercased for case-insensitive uniqueness.
	assert.Equal(t, "tai@vidora.app", created.Email)
	assert.Equal(t, "taibui", created.Username)
	assert.Equal(t, "Tai Bui", created.FullName)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, created.Avatar, "avatars/")

	// The password must be stored hashed, never plain.
	stored := repo.users[created.ID]
	assert.NotEqual(t, "super-secret-pw", stored.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("super-secret-pw", stored.PasswordHash))
}

/*
TestRegister_Conflict verifies duplicate identities yield a 409 and no write.
*/
func TestRegister_Conflict(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})

	_, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)

	// Same email (different case) must collide.
	input := registerInput()
	input.Username = "someoneelse"
	input.Avatar = upload("avatar.png")

	_, err = service.Register(context.Background(), input)
	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.Len(t, repo.users, 1)
}

/*
TestRegister_AvatarRequired verifies registration aborts without an avatar.
*/
func TestRegister_AvatarRequired(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})

	input := registerInput()
	input.Avatar = nil

	_, err := service.Register(context.Background(), input)
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 400, ae.HTTPStatus)
	assert.Empty(t, repo.users)
}

/*
TestRegister_AvatarUploadFailure verifies a failed avatar upload aborts with
no account created.
*/
func TestRegister_AvatarUploadFailure(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{failFolders: map[string]bool{"avatars": true}}
	service := auth.NewService(repo, newFakeTokens(), uploader)

	_, err := service.Register(context.Background(), registerInput())
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "UPLOAD_FAILED", ae.Code)
	assert.Empty(t, repo.users)
}

/*
TestRegister_CoverUploadFailureTolerated verifies a failed cover upload does
NOT abort registration — the account is created without a cover.
*/
func TestRegister_CoverUploadFailureTolerated(t *testing.T) {
	repo := newFakeUserRepo()
	uploader := &fakeUploader{failFolders: map[string]bool{"covers": true}}
	service := auth.NewService(repo, newFakeTokens(), uploader)

	input := registerInput()
	input.CoverImage = upload("cover.jpg")

	created, err := service.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Empty(t, created.CoverImage)
	assert.NotEmpty(t, created.Avatar)
}

// # Login

func registerTestUser(t *testing.T, service *auth.Service) *auth.User {
	t.Helper()

	created, err := service.Register(context.Background(), registerInput())
	require.NoError(t, err)
	return created
}

/*
TestLogin_ByEmailAndUsername verifies both identifier kinds establish a session.
*/
func TestLogin_ByEmailAndUsername(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	registerTestUser(t, service)

	for _, identifier := range []string{"tai@vidora.app", "taibui", "TAI@VIDORA.APP"} {
		session, err := service.Login(context.Background(), auth.LoginInput{
			Identifier: identifier,
			Password:   "super-secret-pw",
		})
		require.NoError(t, err, "identifier %q", identifier)
		assert.NotEmpty(t, session.AccessToken)
		assert.NotEmpty(t, session.RefreshToken)
	}
}

/*
TestLogin_UnknownIdentity verifies an unknown identifier is a 404, distinct
from a wrong password.
*/
func TestLogin_UnknownIdentity(t *testing.T) {
	service := auth.NewService(newFakeUserRepo(), newFakeTokens(), &fakeUploader{})

	_, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "nobody@vidora.app",
		Password:   "whatever",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestLogin_WrongPassword verifies a bad password is a 401.
*/
func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	registerTestUser(t, service)

	_, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "tai@vidora.app",
		Password:   "wrong-password",
	})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestLogin_PersistsRefreshToken verifies the issued refresh token displaces the
stored one.
*/
func TestLogin_PersistsRefreshToken(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	user := registerTestUser(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "tai@vidora.app",
		Password:   "super-secret-pw",
	})
	require.NoError(t, err)

	assert.Equal(t, session.RefreshToken, repo.users[user.ID].RefreshToken)
}

// # Token Rotation

/*
TestRefresh_Rotation verifies a full rotation cycle: the old token stops
working once a new pair has been issued.
*/
func TestRefresh_Rotation(t *testing.T) {
	repo := newFakeUserRepo()
	tokens := newFakeTokens()
	service := auth.NewService(repo, tokens, &fakeUploader{})
	registerTestUser(t, service)

	first, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "tai@vidora.app",
		Password:   "super-secret-pw",
	})
	require.NoError(t, err)

	// 1. First refresh succeeds and rotates the stored token.
	second, err := service.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// 2. Replaying the displaced token fails closed.
	_, err = service.Refresh(context.Background(), first.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)

	// 3. The freshly issued token still works.
	_, err = service.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

/*
TestRefresh_InvalidToken verifies garbage tokens are a 401.
*/
func TestRefresh_InvalidToken(t *testing.T) {
	service := auth.NewService(newFakeUserRepo(), newFakeTokens(), &fakeUploader{})

	_, err := service.Refresh(context.Background(), "not-a-real-token")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestRefresh_AfterLogout verifies a logged-out session cannot refresh even with
a cryptographically valid token.
*/
func TestRefresh_AfterLogout(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	user := registerTestUser(t, service)

	session, err := service.Login(context.Background(), auth.LoginInput{
		Identifier: "tai@vidora.app",
		Password:   "super-secret-pw",
	})
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), user.ID))

	_, err = service.Refresh(context.Background(), session.RefreshToken)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

// # Logout

/*
TestLogout_Idempotent verifies repeated logouts and logouts of deleted
accounts succeed.
*/
func TestLogout_Idempotent(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	user := registerTestUser(t, service)

	require.NoError(t, service.Logout(context.Background(), user.ID))
	require.NoError(t, service.Logout(context.Background(), user.ID))

	// Even a vanished account achieves the logout outcome.
	assert.NoError(t, service.Logout(context.Background(), "gone-user"))
}

// # Password Lifecycle

/*
TestChangePassword verifies the old password gate and the hash swap.
*/
func TestChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	service := auth.NewService(repo, newFakeTokens(), &fakeUploader{})
	user := registerTestUser(t, service)

	// 1. Wrong old password is a 401 and changes nothing.
	err := service.ChangePassword(context.Background(), user.ID, "wrong-old", "new-password-123")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)

	// 2. Correct old password swaps the hash.
	err = service.ChangePassword(context.Background(), user.ID, "super-secret-pw", "new-password-123")
	require.NoError(t, err)

	stored := repo.users[user.ID]
	assert.True(t, sec.CheckPasswordHash("new-password-123", stored.PasswordHash))
	assert.False(t, sec.CheckPasswordHash("super-secret-pw", stored.PasswordHash))
}
