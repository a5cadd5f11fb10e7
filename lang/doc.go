// Package lang implements the language service fronted by the registry's
// best-known slots: per-language message catalogs with fallback chains,
// text direction, case mapping and number formatting. Construction is
// deliberately two-step — encoding tables first, message content second —
// because content loading needs the case rules to already be in place.
// The package registers its constructor with the factory under
// TypeLanguage and ships a Deferred stand-in that satisfies Service while
// delaying construction until first use.
package lang
