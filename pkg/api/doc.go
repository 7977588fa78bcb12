// Package api defines the request and response messages of the payrecord.v1
// RPC services. Messages are plain structs carried as JSON; the Connect
// bindings live in package apiconnect.
package api
