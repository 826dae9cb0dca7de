// Package middleware provides the Gin middleware of the device application
// API: CORS and the JSON content type guard.
package middleware
