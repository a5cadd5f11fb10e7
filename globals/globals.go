// Package globals wires the well-known slots: the site content language
// and the requesting user's language. Both are registered as pending
// cells; nothing about a language is constructed until the first
// operation lands on one of its stand-ins. Bootstrap assembles the fully
// wired runtime around them.
package globals

import (
	"fmt"

	"github.com/c360studio/stubreg/config"
	"github.com/c360studio/stubreg/lang"
	"github.com/c360studio/stubreg/reqctx"
	"github.com/c360studio/stubreg/stub"
)

const (
	// SlotContentLanguage holds the site content language.
	SlotContentLanguage = "lang.content"

	// SlotUserLanguage holds the requesting user's language, borrowed
	// from the main request context.
	SlotUserLanguage = "lang.user"
)

// Install registers the well-known slots on reg, pending. The content
// language builds through the factory from the configured code and
// catalog directory; the user language borrows whatever language the
// main request context carries at resolution time.
func Install(reg *stub.Registry, cfg *config.Config) error {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	_, err := stub.RegisterType[lang.Service](
		reg,
		SlotContentLanguage,
		lang.TypeLanguage,
		cfg.Language.Code, cfg.Language.MessagesDir,
	)
	if err != nil {
		return fmt.Errorf("install %s: %w", SlotContentLanguage, err)
	}

	userBuilder := stub.BuilderFunc[lang.Service](func(*stub.Resolution) (lang.Service, error) {
		return reqctx.Main().Language()
	})
	if _, err := stub.Register(reg, SlotUserLanguage, userBuilder); err != nil {
		return fmt.Errorf("install %s: %w", SlotUserLanguage, err)
	}

	return nil
}

// ContentLanguage returns a stand-in for the content language slot.
func ContentLanguage(reg *stub.Registry) (lang.Service, error) {
	cell, err := stub.Lookup[lang.Service](reg, SlotContentLanguage)
	if err != nil {
		return nil, err
	}
	return lang.NewDeferred(cell), nil
}

// UserLanguage returns a stand-in for the user language slot.
func UserLanguage(reg *stub.Registry) (lang.Service, error) {
	cell, err := stub.Lookup[lang.Service](reg, SlotUserLanguage)
	if err != nil {
		return nil, err
	}
	return lang.NewDeferred(cell), nil
}
