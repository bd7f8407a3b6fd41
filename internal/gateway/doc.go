// SPDX-License-Identifier: Apache-2.0

// Package gateway provides the REST transport to the hosted backend: table
// reads and writes, auth grants, and blob storage for captured images.
//
// The gateway carries no entity knowledge. Callers pass table names, generic
// row payloads and [Query] values; the sync layer owns the mapping between
// local collections and remote tables. Error values defined in errors.go are
// mapped from HTTP status codes by mapHTTPError so callers can use
// [errors.Is] for transport-agnostic handling.
//
// When the remote backend is not configured ([Gateway.IsConfigured] is
// false), every call returns [ErrNotConfigured] immediately without touching
// the network.
package gateway
