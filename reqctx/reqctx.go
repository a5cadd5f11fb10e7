// Package reqctx carries per-request state: a request identifier and the
// requester's language. The process-wide main context is the one the user
// language slot borrows its language from, so web-style hosts can swap in
// a context per request while everything else keeps working against Main.
package reqctx

import (
	"sync"

	"github.com/google/uuid"

	"github.com/c360studio/stubreg/lang"
)

// Context is the state of one logical request.
type Context struct {
	mu          sync.RWMutex
	id          string
	code        string
	messagesDir string
	language    lang.Service
}

// New creates a context for a request in the given language.
func New(code string) *Context {
	if code == "" {
		code = lang.DefaultCode
	}
	return &Context{
		id:   uuid.New().String(),
		code: code,
	}
}

// RequestID returns the context's unique identifier.
func (c *Context) RequestID() string {
	return c.id
}

// LanguageCode returns the configured language code.
func (c *Context) LanguageCode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.code
}

// SetMessagesDir sets the catalog directory used when the context builds
// its own language. Takes effect before the first Language call.
func (c *Context) SetMessagesDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messagesDir = dir
}

// SetLanguage installs a prepared language service, overriding lazy
// construction.
func (c *Context) SetLanguage(l lang.Service) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.language = l
	if l != nil {
		c.code = l.Code()
	}
}

// Language returns the context's language service, building a plain one
// from the configured code on first use. The build is direct — no slot,
// no descriptor — because the context owns this language; the user
// language slot borrows it rather than constructing its own.
func (c *Context) Language() (lang.Service, error) {
	c.mu.RLock()
	l := c.language
	c.mu.RUnlock()
	if l != nil {
		return l, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.language != nil {
		return c.language, nil
	}

	built := lang.New(c.code)
	if c.messagesDir != "" {
		built.SetMessagesDir(c.messagesDir)
	}
	if err := built.InitEncoding(); err != nil {
		return nil, err
	}
	if err := built.InitContent(); err != nil {
		return nil, err
	}
	c.language = built
	c.code = built.Code()
	return built, nil
}

// Main context instance and initialization guard.
var (
	mainCtx  *Context
	mainOnce sync.Once
)

// Main returns the process-wide request context.
// Creates a default-language context on first call if not already
// initialized.
func Main() *Context {
	mainOnce.Do(func() {
		mainCtx = New(lang.DefaultCode)
	})
	return mainCtx
}

// InitMain initializes the main context with a custom instance.
// Must be called before any call to Main() to take effect.
// Safe for concurrent use but only the first call has any effect.
func InitMain(c *Context) {
	mainOnce.Do(func() {
		mainCtx = c
	})
}

// ResetMain resets the main context for testing purposes.
// This is NOT thread-safe and should only be used in tests.
func ResetMain() {
	mainOnce = sync.Once{}
	mainCtx = nil
}
