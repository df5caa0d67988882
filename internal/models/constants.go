// Package models contains data types and constants for the form-post chat protocol.
package models

// Wire defaults for the chat backend
const (
	DefaultBaseURL  = "http://127.0.0.1:5000"
	EndpointProcess = "/process_chat"
	FieldUserInput  = "user_input"

	// ErrorPrefix is prepended to backend-reported errors when rendered
	ErrorPrefix = "Error: "
)

// DefaultHeaders returns the default headers for chat requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type":    "application/x-www-form-urlencoded",
		"Accept":          "application/json, text/plain, */*",
		"Accept-Language": "en-US,en;q=0.9",
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	}
}
