package policy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Allows reports whether an item with the given name (and optional id) is
// visible under this filter configuration. The zero Mode behaves as ModeAll.
func (c DomainConfig) Allows(name, id string) bool {
	switch c.Mode {
	case ModeAllowlist:
		return c.matches(name, id)
	case ModeBlocklist:
		return !c.matches(name, id)
	default:
		return true
	}
}

// matches reports whether any configured entry refers to the item. Entries
// are compared case-insensitively against the name, against the id when
// present, and against the name after decorative-prefix stripping on both
// sides. The item list is treated as a set; duplicates are harmless.
func (c DomainConfig) matches(name, id string) bool {
	stripped := StripDecorativePrefix(name)
	for _, entry := range c.Items {
		if strings.EqualFold(entry, name) {
			return true
		}
		if id != "" && strings.EqualFold(entry, id) {
			return true
		}
		if stripped != "" && strings.EqualFold(StripDecorativePrefix(entry), stripped) {
			return true
		}
	}
	return false
}

// FilterCollection returns the items visible under cfg. When the mode is
// ModeAll the input slice is returned unchanged, avoiding per-item work on
// the common path.
func FilterCollection[T any](items []T, cfg DomainConfig, nameOf, idOf func(T) string) []T {
	if cfg.Mode != ModeAllowlist && cfg.Mode != ModeBlocklist {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if cfg.Allows(nameOf(it), idOf(it)) {
			out = append(out, it)
		}
	}
	return out
}

// StripDecorativePrefix removes leading emoji and other pictographic code
// points, variation selectors and zero-width joiners, plus surrounding
// whitespace. A user can then write a plain name in config ("Travel") even
// when the actual calendar is decorated ("✈️ Travel").
func StripDecorativePrefix(s string) string {
	s = strings.TrimSpace(s)
	for s != "" {
		r, size := utf8.DecodeRuneInString(s)
		if !isDecorative(r) {
			break
		}
		s = s[size:]
	}
	return strings.TrimSpace(s)
}

func isDecorative(r rune) bool {
	switch {
	case r == 0xFE0E || r == 0xFE0F: // variation selectors (text/emoji style)
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case r >= 0x1F000 && r <= 0x1FAFF: // emoji, pictographs, regional indicators
		return true
	case r >= 0x2190 && r <= 0x2BFF: // arrows, misc symbols, dingbats
		return true
	case unicode.In(r, unicode.So, unicode.Sk):
		return true
	}
	return false
}
