package globals

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/stubreg/stub"
)

// MatchSlots expands glob patterns against the names of the slots
// registered on reg. Duplicates across patterns are removed and the
// result is sorted. A pattern that matches nothing is not an error.
func MatchSlots(reg *stub.Registry, patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var matched []string

	names := reg.Names()
	for _, pattern := range patterns {
		for _, name := range names {
			ok, err := doublestar.Match(pattern, name)
			if err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
			}
			if ok && !seen[name] {
				seen[name] = true
				matched = append(matched, name)
			}
		}
	}

	sort.Strings(matched)
	return matched, nil
}

// EagerInit force-resolves every slot whose name matches one of the
// configured patterns. Startup uses this to trade laziness for
// fail-fast construction of selected slots; a construction failure
// aborts with the slot named.
func EagerInit(reg *stub.Registry, patterns []string) error {
	slots, err := MatchSlots(reg, patterns)
	if err != nil {
		return err
	}
	for _, name := range slots {
		s, ok := reg.Slot(name)
		if !ok {
			continue
		}
		if err := s.ForceResolve(); err != nil {
			return fmt.Errorf("eager init slot %q: %w", name, err)
		}
	}
	return nil
}
