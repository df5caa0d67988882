package api

import (
	"bytes"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/formchat/internal/errors"
	"github.com/diogo/formchat/internal/models"
)

// DecodeReply turns a response body into exactly one reply variant.
//
// A bare JSON string is a plain reply. For objects, options, response and
// error are tried in that order and the first truthy field wins. Anything
// else is unrecognized. Malformed JSON, a null body and a truthy options
// value that is not an array are decode errors.
func DecodeReply(body []byte) (models.Reply, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || !gjson.ValidBytes(trimmed) {
		return models.Reply{}, apierrors.NewParseError("body is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(trimmed)
	raw := string(trimmed)

	switch parsed.Type {
	case gjson.String:
		return models.PlainReply(parsed.String()), nil
	case gjson.Null:
		return models.Reply{}, apierrors.NewParseError("body is null", "")
	case gjson.JSON:
		if !parsed.IsObject() {
			return models.UnrecognizedReply(raw), nil
		}
	default:
		return models.UnrecognizedReply(raw), nil
	}

	if opts := field(parsed, PathOptions); truthy(opts) {
		if !opts.IsArray() {
			return models.Reply{}, apierrors.NewParseError("options is not an array", PathOptions)
		}
		options := make([]string, 0, len(opts.Array()))
		opts.ForEach(func(_, v gjson.Result) bool {
			options = append(options, text(v))
			return true
		})
		return models.OptionsReply(options), nil
	}

	if resp := field(parsed, PathResponse); truthy(resp) {
		return models.StructuredReply(text(resp)), nil
	}

	if errField := field(parsed, PathError); truthy(errField) {
		return models.FailureReply(text(errField)), nil
	}

	return models.UnrecognizedReply(raw), nil
}

// field returns the last occurrence of key in obj, as JSON.parse keeps the
// last of repeated keys where gjson.Get stops at the first
func field(obj gjson.Result, key string) gjson.Result {
	var found gjson.Result
	obj.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}

// truthy mirrors JavaScript truthiness for a JSON value:
// false, null, 0 and "" are falsy, arrays and objects are always truthy.
func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True, gjson.JSON:
		return true
	case gjson.Number:
		return r.Float() != 0
	case gjson.String:
		return r.Str != ""
	default:
		return false
	}
}

// text stringifies a field value: strings verbatim, anything else as its JSON source
func text(r gjson.Result) string {
	if r.Type == gjson.String {
		return r.Str
	}
	return r.Raw
}
