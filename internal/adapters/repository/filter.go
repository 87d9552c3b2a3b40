package repository

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// matcher performs case-insensitive substring search. Casers keep state, so
// a matcher belongs to one call.
type matcher struct {
	fold   cases.Caser
	needle string
}

func newMatcher(search string) *matcher {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}
	fold := cases.Fold()
	return &matcher{fold: fold, needle: fold.String(search)}
}

// match reports whether any field contains the needle. A nil matcher
// matches everything.
func (m *matcher) match(fields ...string) bool {
	if m == nil {
		return true
	}
	for _, f := range fields {
		if strings.Contains(m.fold.String(f), m.needle) {
			return true
		}
	}
	return false
}

// sameFold reports whether a and b are equal under case folding.
func sameFold(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// sortByName orders items by name using a case-insensitive collation. The
// sort is stable so equal names keep insertion order.
func sortByName[T any](items []T, name func(T) string) {
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b T) int {
		return c.CompareString(name(a), name(b))
	})
}
