// Package client is the Go SDK for the Teranga travel API. It wraps the
// HTTP surface with typed methods, persists the access/refresh token pair
// through a pluggable TokenStore, and transparently refreshes expired
// access tokens: a 401 response triggers a single refresh attempt followed
// by one replay of the original request. Concurrent requests racing on an
// expired token share one refresh call.
package client
