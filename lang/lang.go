package lang

import "errors"

// DefaultCode is the language used when nothing else is configured, and
// the final element of every fallback chain.
const DefaultCode = "en"

// ErrEncodingNotReady is returned when content initialization runs before
// the encoding tables are in place.
var ErrEncodingNotReady = errors.New("encoding tables not initialized")

// Service is the language operations surface. The real implementation is
// *Language; Deferred satisfies it as a stand-in.
type Service interface {
	// Code returns the normalized language code, e.g. "pt-br".
	Code() string

	// Dir returns the writing direction, "ltr" or "rtl".
	Dir() string

	// UCFirst upper-cases the first rune using the language's case rules.
	UCFirst(s string) string

	// Message renders the catalog message for key, substituting $1, $2, …
	// with args. Unknown keys render as "[key]".
	Message(key string, args ...string) string

	// HasMessage reports whether key resolves anywhere in the fallback
	// chain.
	HasMessage(key string) bool

	// FormatNum renders n with the language's digit grouping.
	FormatNum(n int64) string
}
