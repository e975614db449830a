package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
		found  bool
	}{
		{"empty header", "", "", false},
		{"single cookie", "auth-token=abc", "abc", true},
		{"among others", "theme=dark; auth-token=abc.def; lang=en", "abc.def", true},
		{"first match wins", "auth-token=one; auth-token=two", "one", true},
		{"case sensitive", "Auth-Token=abc", "", false},
		{"prefix is not a match", "auth-token-old=abc", "", false},
		{"value keeps equals signs", "auth-token=a=b==", "a=b==", true},
		{"empty value", "auth-token=", "", true},
		{"no separator", "auth-token", "", false},
		{"extra spaces", "  lang=en ;   auth-token=xyz  ", "xyz", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractToken(tc.header, CookieName)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
