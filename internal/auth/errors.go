package auth

import (
	"errors"
	"net/http"

	"github.com/GoAccessAdmin/GoAccessAdmin/internal/apperror"
)

var (
	// ErrUserNotFound is returned when no user exists for the username given at login.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidCredentials is returned when the password does not match the stored hash.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotLoggedIn is returned by RequireLogin when the session holds no user.
	// Page routes answer it with a redirect to the login page, API routes with 401.
	ErrNotLoggedIn = apperror.NewRequest(http.StatusUnauthorized, "not logged in")

	// ErrForbidden is returned when the session user lacks a required permission.
	// Page routes answer it with a redirect to the access denied page, API routes with 403.
	ErrForbidden = apperror.NewRequest(http.StatusForbidden, "access denied")
)
