// Package main provides the entry point of GoAccessAdmin, a web panel to manage
// user accounts, user groups and the permissions granted to them. It serves html
// pages and a JSON API with fiber, keeps its data with gorm in mysql, postgres or
// sqlite and authenticates users with server side sessions.
package main
