// Copyright (c) 2025 Guilherme Silva Sousa
// Licensed under the MIT License
// See LICENSE file in the project root for full license information.
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soldeer-go/soldeer/internal/fs"
	"github.com/soldeer-go/soldeer/pkg/errors"
)

func TestToken_MissingFileIsAuthMissingToken(t *testing.T) {
	t.Setenv("LOGIN_FILE", "/nonexistent/login-file")
	fsys := fs.NewMemFS()

	_, err := Token(fsys)
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
}

func TestToken_EmptyFileIsAuthMissingToken(t *testing.T) {
	fsys := fs.NewMemFS()
	t.Setenv("LOGIN_FILE", "login-file")
	require.NoError(t, fsys.WriteFile("login-file", []byte("  \n"), 0o600))

	_, err := Token(fsys)
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
}

func TestToken_ReturnsTrimmedToken(t *testing.T) {
	fsys := fs.NewMemFS()
	t.Setenv("LOGIN_FILE", "login-file")
	require.NoError(t, fsys.WriteFile("login-file", []byte("jwt_token_example\n"), 0o600))

	token, err := Token(fsys)
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_example", token)
}

func TestLogin_SuccessPersistsToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"200","token":"jwt_token_example"}`))
	}))
	defer server.Close()

	fsys := fs.NewMemFS()
	t.Setenv("LOGIN_FILE", "login-file")

	err := Login(context.Background(), server.Client(), server.URL, fsys, Credentials{Email: "test@test.com", Password: "1234"})
	require.NoError(t, err)

	token, err := Token(fsys)
	require.NoError(t, err)
	assert.Equal(t, "jwt_token_example", token)
}

func TestLogin_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"401"}`))
	}))
	defer server.Close()

	fsys := fs.NewMemFS()
	t.Setenv("LOGIN_FILE", "login-file")

	err := Login(context.Background(), server.Client(), server.URL, fsys, Credentials{Email: "test@test.com", Password: "1234"})
	require.Error(t, err)
	assert.True(t, errors.IsAuthError(err))
}

func TestLogin_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"500"}`))
	}))
	defer server.Close()

	fsys := fs.NewMemFS()
	t.Setenv("LOGIN_FILE", "login-file")

	err := Login(context.Background(), server.Client(), server.URL, fsys, Credentials{Email: "test@test.com", Password: "1234"})
	require.Error(t, err)
	assert.False(t, errors.IsAuthError(err))
}
