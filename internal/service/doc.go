// Package service implements the domain operations of the admin panel on top of the
// gateways: creation with permission assignment, transactional replace-all updates of
// the permission set and transactional deletes.
//
// Permission sets are replaced, never patched: an update removes every association
// row of the owner and inserts the requested ids. Services only add context to
// failures, the original error stays reachable through errors.Unwrap.
package service
