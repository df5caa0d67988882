package api

import (
	"net/url"
	"strings"

	"github.com/diogo/formchat/internal/models"
)

// componentUnescaper restores the characters a browser's encodeURIComponent
// leaves alone but url.QueryEscape escapes, and spells spaces as %20.
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s the way a browser's encodeURIComponent does
func EncodeComponent(s string) string {
	// QueryEscape turns a literal '+' into %2B, so every '+' left is a space
	return componentUnescaper.Replace(url.QueryEscape(s))
}

// EncodeForm builds the request body for one turn: user_input=<encoded input>
func EncodeForm(input string) string {
	return models.FieldUserInput + "=" + EncodeComponent(input)
}
