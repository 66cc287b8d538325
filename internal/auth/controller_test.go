// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morganforge/mlibbot-tui/internal/api"
	"github.com/morganforge/mlibbot-tui/internal/model"
)

// =============================================================================
// FAKES
// =============================================================================

// fakeGateway records calls and returns scripted results.
type fakeGateway struct {
	loginResp    *api.LoginResponse
	loginErr     error
	registerErr  error
	meUser       *model.User
	meErr        error
	profileUser  *model.User
	profileErr   error
	passwordErr  error
	calls        []string
	lastPassword string
}

func (f *fakeGateway) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResp, nil
}

func (f *fakeGateway) Register(ctx context.Context, fullName, email, password string) error {
	f.calls = append(f.calls, "register")
	return f.registerErr
}

func (f *fakeGateway) Me(ctx context.Context, token string) (*model.User, error) {
	f.calls = append(f.calls, "me")
	return f.meUser, f.meErr
}

func (f *fakeGateway) UpdateProfile(ctx context.Context, fullName, email string) (*model.User, error) {
	f.calls = append(f.calls, "profile")
	return f.profileUser, f.profileErr
}

func (f *fakeGateway) UpdatePassword(ctx context.Context, current, next string) error {
	f.calls = append(f.calls, "password")
	f.lastPassword = next
	return f.passwordErr
}

// memStore is an in-memory TokenStore.
type memStore struct {
	token string
}

func (s *memStore) Get() (string, bool)  { return s.token, s.token != "" }
func (s *memStore) Set(t string) error   { s.token = t; return nil }
func (s *memStore) Clear() error         { s.token = ""; return nil }

// =============================================================================
// INITIALIZE TESTS
// =============================================================================

func TestInitialize_RestoresSession(t *testing.T) {
	gw := &fakeGateway{meUser: &model.User{ID: "u1", Email: "rina@mhs.ac.id", FullName: "Rina"}}
	store := &memStore{token: "tok-1"}
	c := NewController(gw, store)

	c.Initialize(context.Background())

	require.True(t, c.IsAuthenticated())
	assert.Equal(t, "Rina", c.User().FullName)
	assert.Equal(t, "tok-1", store.token, "valid token survives")
}

func TestInitialize_InvalidTokenClearsCredential(t *testing.T) {
	gw := &fakeGateway{meErr: &api.ServerError{Status: http.StatusUnauthorized, Detail: "invalid token"}}
	store := &memStore{token: "tok-stale"}
	c := NewController(gw, store)

	c.Initialize(context.Background())

	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, store.token, "stale token must be discarded")
}

func TestInitialize_NoTokenSkipsNetwork(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw, &memStore{})

	c.Initialize(context.Background())

	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, gw.calls, "no token means no request")
}

// =============================================================================
// LOGIN TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	gw := &fakeGateway{loginResp: &api.LoginResponse{
		AccessToken: "tok-9",
		User:        &model.User{ID: "u1", Email: "rina@mhs.ac.id", FullName: "Rina"},
	}}
	store := &memStore{}
	c := NewController(gw, store)

	err := c.Login(context.Background(), "rina@mhs.ac.id", "rahasia")

	require.NoError(t, err)
	assert.Equal(t, "tok-9", store.token)
	assert.True(t, c.IsAuthenticated())
}

func TestLogin_EmptyFieldsRejectedLocally(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw, &memStore{})

	var ve *ValidationError
	err := c.Login(context.Background(), "", "pw")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "email", ve.Field)

	err = c.Login(context.Background(), "a@b.c", "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)

	assert.Empty(t, gw.calls, "validation failures make no network calls")
}

func TestLogin_ServerRejectionSurfacesDetail(t *testing.T) {
	gw := &fakeGateway{loginErr: &api.ServerError{Status: 401, Detail: "Email atau password salah"}}
	store := &memStore{}
	c := NewController(gw, store)

	err := c.Login(context.Background(), "rina@mhs.ac.id", "salah")

	var ae *AuthError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Email atau password salah", ae.Message)
	assert.False(t, c.IsAuthenticated(), "failed login mutates nothing")
	assert.Empty(t, store.token)
}

// =============================================================================
// REGISTER TESTS
// =============================================================================

func TestRegister_ChainsIntoLogin(t *testing.T) {
	gw := &fakeGateway{loginResp: &api.LoginResponse{
		AccessToken: "tok-new",
		User:        &model.User{ID: "u2", Email: "budi@mhs.ac.id", FullName: "Budi"},
	}}
	c := NewController(gw, &memStore{})

	err := c.Register(context.Background(), "Budi", "budi@mhs.ac.id", "rahasia")

	require.NoError(t, err)
	assert.Equal(t, []string{"register", "login"}, gw.calls)
	assert.True(t, c.IsAuthenticated())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	gw := &fakeGateway{registerErr: &api.ServerError{Status: 400, Detail: "Email sudah terdaftar"}}
	c := NewController(gw, &memStore{})

	err := c.Register(context.Background(), "Budi", "budi@mhs.ac.id", "rahasia")

	var re *RegistrationError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "Email sudah terdaftar", re.Message)
	assert.False(t, c.IsAuthenticated())
}

// =============================================================================
// LOGOUT TESTS
// =============================================================================

func TestLogout_ThenInitializeStaysAnonymous(t *testing.T) {
	gw := &fakeGateway{loginResp: &api.LoginResponse{
		AccessToken: "tok-9",
		User:        &model.User{ID: "u1"},
	}}
	store := &memStore{}
	c := NewController(gw, store)

	require.NoError(t, c.Login(context.Background(), "a@b.c", "pw"))
	c.Logout()

	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, store.token)

	gw.calls = nil
	c.Initialize(context.Background())
	assert.False(t, c.IsAuthenticated())
	assert.Empty(t, gw.calls, "logout leaves nothing to restore")
}

// =============================================================================
// PROFILE / PASSWORD TESTS
// =============================================================================

func TestUpdateProfile_MutatesUserInPlace(t *testing.T) {
	gw := &fakeGateway{
		loginResp: &api.LoginResponse{
			AccessToken: "tok-9",
			User:        &model.User{ID: "u1", Email: "old@mhs.ac.id", FullName: "Old Name"},
		},
		profileUser: &model.User{ID: "u1", Email: "new@mhs.ac.id", FullName: "New Name"},
	}
	c := NewController(gw, &memStore{})
	require.NoError(t, c.Login(context.Background(), "old@mhs.ac.id", "pw"))
	held := c.User()

	require.NoError(t, c.UpdateProfile(context.Background(), "New Name", "new@mhs.ac.id"))

	assert.Equal(t, "New Name", held.FullName, "held pointer sees the update")
	assert.Equal(t, "new@mhs.ac.id", held.Email)
}

func TestUpdateProfile_RequiresAuth(t *testing.T) {
	c := NewController(&fakeGateway{}, &memStore{})
	err := c.UpdateProfile(context.Background(), "X", "x@y.z")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestUpdatePassword_LocalRejections(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw, &memStore{token: "tok-1"})

	tests := []struct {
		name    string
		current string
		next    string
	}{
		{"same password", "rahasia", "rahasia"},
		{"empty current", "", "baru"},
		{"empty new", "lama", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := c.UpdatePassword(context.Background(), tc.current, tc.next)
			var ve *ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}

	assert.Empty(t, gw.calls, "local rejections make zero network calls")
}

func TestUpdatePassword_ForwardsToGateway(t *testing.T) {
	gw := &fakeGateway{}
	c := NewController(gw, &memStore{token: "tok-1"})

	require.NoError(t, c.UpdatePassword(context.Background(), "lama", "baru"))
	assert.Equal(t, []string{"password"}, gw.calls)
	assert.Equal(t, "baru", gw.lastPassword)
}
