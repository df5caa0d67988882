// Package api provides the HTTP client for the form-post chat backend.
package api

// GJSON paths for the reply variants.
// Checked in this order; the first truthy one wins.
const (
	PathOptions  = "options"
	PathResponse = "response"
	PathError    = "error"
)
