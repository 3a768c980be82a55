package domain

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

const (
	// IconIDPrefix prefixes every id generated for a user-created shortcut.
	IconIDPrefix = "shortcut_"

	// DefaultLink is used when an icon has no target URL.
	DefaultLink = "#"

	// DefaultImageSrc is used when an icon has no image.
	DefaultImageSrc = "icons/placeholder.png"
)

// validID follows the HTML element id rule: at least one character and no
// ASCII whitespace. "1password" is a valid id.
var validID = regexp.MustCompile(`^[^\t\n\f\r ]+$`)

// ValidID reports whether id can be used as an icon identifier.
func ValidID(id string) bool {
	return validID.MatchString(id)
}

// IconRecord is the metadata of one desktop shortcut.
type IconRecord struct {
	Name     string `json:"name"`
	Link     string `json:"link"`
	ImageSrc string `json:"imageSrc"`
}

// WithDefaults returns a copy of r with every blank field filled.
// Applying it twice yields the same record.
func (r IconRecord) WithDefaults(id string) IconRecord {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = DisplayName(id)
	}
	if strings.TrimSpace(r.Link) == "" {
		r.Link = DefaultLink
	}
	if strings.TrimSpace(r.ImageSrc) == "" {
		r.ImageSrc = DefaultImageSrc
	}
	return r
}

// DisplayName derives a label from an icon id.
// Example: "shortcut_1712345678901" -> "1712345678901"
func DisplayName(id string) string {
	return strings.TrimPrefix(id, IconIDPrefix)
}

// Position is a pixel offset from the top-left corner of the desktop.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Configuration is the persisted root object: every icon, its position and
// the global icon size. It is always saved and loaded as a whole.
type Configuration struct {
	Icons     map[string]IconRecord `json:"icons"`
	Positions map[string]Position   `json:"positions"`
	Size      Size                  `json:"size"`
}

// Empty returns the default configuration used when nothing could be loaded.
func Empty() *Configuration {
	return &Configuration{
		Icons:     map[string]IconRecord{},
		Positions: map[string]Position{},
		Size:      SizeSmall,
	}
}

// Clone returns a deep copy of c.
func (c *Configuration) Clone() *Configuration {
	if c == nil {
		return nil
	}
	out := &Configuration{
		Icons:     maps.Clone(c.Icons),
		Positions: maps.Clone(c.Positions),
		Size:      c.Size,
	}
	if out.Icons == nil {
		out.Icons = map[string]IconRecord{}
	}
	if out.Positions == nil {
		out.Positions = map[string]Position{}
	}
	return out
}

// Has reports whether an icon with the given id exists.
func (c *Configuration) Has(id string) bool {
	_, ok := c.Icons[id]
	return ok
}

// Normalize fills missing maps, applies icon defaults and coerces an unknown
// size to small. An empty size is replaced silently; any other unknown value
// produces a warning.
func (c *Configuration) Normalize() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Icons == nil {
		c.Icons = map[string]IconRecord{}
	}
	if c.Positions == nil {
		c.Positions = map[string]Position{}
	}
	for id, icon := range c.Icons {
		c.Icons[id] = icon.WithDefaults(id)
	}

	switch {
	case c.Size == "":
		c.Size = SizeSmall
	case !c.Size.Valid():
		warnings = append(warnings, ValidationWarning{
			Field:   "size",
			Value:   string(c.Size),
			Message: "unknown icon size, defaulting to small",
		})
		c.Size = SizeSmall
	}

	return warnings
}

// InvalidIDs returns the icon ids that are not valid element ids, sorted.
func (c *Configuration) InvalidIDs() []string {
	var bad []string
	for id := range c.Icons {
		if !ValidID(id) {
			bad = append(bad, id)
		}
	}
	slices.Sort(bad)
	return bad
}
