package api

import (
	"net/url"
	"testing"
)

func TestEncodeComponent(t *testing.T) {
	// Expected values match a browser's encodeURIComponent
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"hello", "hello"},
		{"hello world", "hello%20world"},
		{"a+b", "a%2Bb"},
		{"a&b=c", "a%26b%3Dc"},
		{"100%", "100%25"},
		{"-_.!~*'()", "-_.!~*'()"},
		{"é", "%C3%A9"},
		{"line\nbreak", "line%0Abreak"},
		{"<b>hi</b>", "%3Cb%3Ehi%3C%2Fb%3E"},
		{"a/b?c#d", "a%2Fb%3Fc%23d"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := EncodeComponent(tt.in); got != tt.want {
				t.Errorf("EncodeComponent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEncodeForm_RoundTrips(t *testing.T) {
	inputs := []string{"", "plain", "with space", "a+b&c=d", "100% sure", "emoji 🙂", "quote ' and (parens)"}

	for _, in := range inputs {
		body := EncodeForm(in)
		values, err := url.ParseQuery(body)
		if err != nil {
			t.Fatalf("ParseQuery(%q) returned error: %v", body, err)
		}
		if got := values.Get("user_input"); got != in {
			t.Errorf("round trip of %q gave %q (body %q)", in, got, body)
		}
		if len(values) != 1 {
			t.Errorf("body %q should carry exactly one field, got %v", body, values)
		}
	}
}
