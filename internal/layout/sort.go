package layout

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NamedIcon is the part of an icon the name sort looks at.
type NamedIcon struct {
	ID   string
	Name string
}

// SortByName orders icons by name, ignoring case, using the root locale's
// collation. Icons with equal names keep their relative input order.
func SortByName(icons []NamedIcon) []string {
	return sortByNameIn(language.Und, icons)
}

// sortByNameIn is SortByName with an explicit collation locale.
func sortByNameIn(tag language.Tag, icons []NamedIcon) []string {
	// Collators keep internal buffers and must not be shared between goroutines.
	c := collate.New(tag)

	keyed := make([]NamedIcon, len(icons))
	for i, icon := range icons {
		keyed[i] = NamedIcon{ID: icon.ID, Name: strings.ToLower(icon.Name)}
	}

	slices.SortStableFunc(keyed, func(a, b NamedIcon) int {
		return c.CompareString(a.Name, b.Name)
	})

	ids := make([]string, len(keyed))
	for i, icon := range keyed {
		ids[i] = icon.ID
	}
	return ids
}
