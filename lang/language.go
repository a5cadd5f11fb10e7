package lang

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// codePattern matches normalized language codes: a primary subtag with
// optional region or variant subtags, e.g. "en", "pt-br", "zh-hant".
var codePattern = regexp.MustCompile(`^[a-z]{2,3}(-[a-z0-9]{2,8})*$`)

// rtlLanguages lists primary subtags written right to left.
var rtlLanguages = map[string]bool{
	"ar": true,
	"dv": true,
	"fa": true,
	"he": true,
	"ps": true,
	"ur": true,
	"yi": true,
}

// thousandsSep maps primary subtags to their digit group separator.
// Languages not listed use ",".
var thousandsSep = map[string]string{
	"de": ".",
	"es": ".",
	"it": ".",
	"nl": ".",
	"pt": ".",
	"fr": " ",
	"ru": " ",
}

// Language is the real language service. It is constructed in two steps:
// InitEncoding validates the code and installs case rules and direction,
// InitContent loads the message catalogs for the fallback chain. The
// factory constructor runs both; a Language built by hand must do the
// same before use.
type Language struct {
	mu          sync.RWMutex
	code        string
	dir         string
	special     unicode.SpecialCase
	messagesDir string
	chain       []string
	catalogs    map[string]catalog

	encodingReady bool
	contentReady  bool
}

var _ Service = (*Language)(nil)

// New creates an uninitialized Language for code.
func New(code string) *Language {
	return &Language{
		code: code,
		dir:  "ltr",
	}
}

// SetMessagesDir sets the directory message catalogs are loaded from.
// Takes effect at the next InitContent or ReloadCatalogs.
func (l *Language) SetMessagesDir(dir string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messagesDir = dir
}

// InitEncoding normalizes and validates the language code and installs
// the case rules, writing direction and fallback chain derived from it.
func (l *Language) InitEncoding() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	code := normalizeCode(l.code)
	if !codePattern.MatchString(code) {
		return fmt.Errorf("invalid language code %q", l.code)
	}
	l.code = code

	base := primarySubtag(code)
	if rtlLanguages[base] {
		l.dir = "rtl"
	} else {
		l.dir = "ltr"
	}

	// Turkish and Azeri case the dotted and dotless i differently from
	// every other language.
	switch base {
	case "tr", "az":
		l.special = unicode.TurkishCase
	default:
		l.special = nil
	}

	l.chain = fallbackChain(code)
	l.encodingReady = true
	return nil
}

// InitContent loads the message catalogs for the fallback chain. The
// encoding step must have run first. A language without a messages
// directory initializes with empty catalogs.
func (l *Language) InitContent() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.encodingReady {
		return fmt.Errorf("language %q: %w", l.code, ErrEncodingNotReady)
	}
	catalogs, err := l.loadChainLocked()
	if err != nil {
		return err
	}
	l.catalogs = catalogs
	l.contentReady = true
	return nil
}

// ReloadCatalogs re-reads the message catalogs from disk, replacing the
// loaded set atomically. Used by the catalog watcher.
func (l *Language) ReloadCatalogs() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.encodingReady {
		return fmt.Errorf("language %q: %w", l.code, ErrEncodingNotReady)
	}
	catalogs, err := l.loadChainLocked()
	if err != nil {
		return err
	}
	l.catalogs = catalogs
	return nil
}

func (l *Language) loadChainLocked() (map[string]catalog, error) {
	catalogs := make(map[string]catalog, len(l.chain))
	if l.messagesDir == "" {
		return catalogs, nil
	}
	for _, code := range l.chain {
		c, err := loadCatalog(l.messagesDir, code)
		if err != nil {
			return nil, err
		}
		catalogs[code] = c
	}
	return catalogs, nil
}

// Ready reports whether both initialization steps have run.
func (l *Language) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.encodingReady && l.contentReady
}

// Code returns the language code, normalized once InitEncoding has run.
func (l *Language) Code() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.code
}

// Dir returns the writing direction, "ltr" or "rtl".
func (l *Language) Dir() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dir
}

// UCFirst upper-cases the first rune of s using the language's case rules.
func (l *Language) UCFirst(s string) string {
	if s == "" {
		return s
	}
	l.mu.RLock()
	special := l.special
	l.mu.RUnlock()

	r, size := utf8.DecodeRuneInString(s)
	var u rune
	if special != nil {
		u = special.ToUpper(r)
	} else {
		u = unicode.ToUpper(r)
	}
	if u == r {
		return s
	}
	return string(u) + s[size:]
}

// Message renders the catalog message for key. Lookup walks the fallback
// chain; $1, $2, … placeholders are substituted from args. Unknown keys
// render as "[key]" so a missing translation is visible instead of fatal.
func (l *Language) Message(key string, args ...string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, code := range l.chain {
		if msg, ok := l.catalogs[code][key]; ok {
			return substitute(msg, args)
		}
	}
	return "[" + key + "]"
}

// HasMessage reports whether key resolves anywhere in the fallback chain.
func (l *Language) HasMessage(key string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, code := range l.chain {
		if _, ok := l.catalogs[code][key]; ok {
			return true
		}
	}
	return false
}

// FormatNum renders n with the language's digit group separator.
func (l *Language) FormatNum(n int64) string {
	sep := ","
	if s, ok := thousandsSep[primarySubtag(l.Code())]; ok {
		sep = s
	}
	return groupDigits(n, sep)
}

// FallbackChain returns the codes consulted for message lookup, most
// specific first.
func (l *Language) FallbackChain() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	chain := make([]string, len(l.chain))
	copy(chain, l.chain)
	return chain
}

// MessagesDir returns the configured catalog directory.
func (l *Language) MessagesDir() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.messagesDir
}

func normalizeCode(code string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(code)), "_", "-")
}

func primarySubtag(code string) string {
	if i := strings.Index(code, "-"); i > 0 {
		return code[:i]
	}
	return code
}

// fallbackChain derives the lookup order from a normalized code:
// "pt-br" consults pt-br, then pt, then en.
func fallbackChain(code string) []string {
	chain := []string{code}
	if base := primarySubtag(code); base != code {
		chain = append(chain, base)
	}
	if chain[len(chain)-1] != DefaultCode {
		chain = append(chain, DefaultCode)
	}
	return chain
}

// substitute replaces $1, $2, … with args. Higher placeholders are
// replaced first so $12 is never clipped by $1.
func substitute(msg string, args []string) string {
	if len(args) == 0 {
		return msg
	}
	pairs := make([]string, 0, len(args)*2)
	for i := len(args) - 1; i >= 0; i-- {
		pairs = append(pairs, "$"+strconv.Itoa(i+1), args[i])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

func groupDigits(n int64, sep string) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
