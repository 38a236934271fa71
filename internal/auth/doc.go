// Package auth provides authentication and authorization for the admin panel.
//
// # Authentication
//
// LoginService checks a username and password against the argon2id hash stored
// for the user and keeps the logged-in user in the request's session.Context.
// RequireLogin rejects requests without a logged-in user with ErrNotLoggedIn.
//
// # Authorization
//
// Permissions are granted to users directly. PermissionCheckService loads the
// session user's permissions once per request and compares their unique keys
// (e.g. MANAGE_USERS) by exact match. A missing user or a missing key yields
// ErrForbidden; the HTTP boundary turns it into a redirect to the access denied
// page for pages and a 403 JSON body for the API.
//
// Example usage:
//
//	checks := auth.NewPermissionCheckService(usersService)
//
//	app.Get("/pages/users",
//	    logins.RequireLogin,
//	    checks.RequirePermission(auth.PermManageUsers),
//	    handler,
//	)
package auth
