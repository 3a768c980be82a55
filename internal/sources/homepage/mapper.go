package homepage

import (
	"errors"
	"maps"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/MrSnakeDoc/desk/internal/domain"
)

// IDPrefix prefixes the id of every icon created from a Homepage service.
const IDPrefix = "svc_"

// ErrNoServices is returned when a file holds no usable service.
var ErrNoServices = errors.New("no valid services found in homepage config")

// Icon is one service ready to be placed on the desktop.
type Icon struct {
	ID     string
	Record domain.IconRecord
}

// Mapper converts Homepage services to desktop icons.
type Mapper struct{}

// NewMapper creates a mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapServices returns one icon per service with a usable href, in file order.
// Services sharing a hostname collapse into the first one.
func (m *Mapper) MapServices(config ServicesConfig) ([]Icon, error) {
	var icons []Icon
	seen := make(map[string]bool)

	for _, groupMap := range config {
		for _, group := range slices.Sorted(maps.Keys(groupMap)) {
			for _, serviceMap := range groupMap[group] {
				for _, serviceName := range slices.Sorted(maps.Keys(serviceMap)) {
					icon, ok := mapService(serviceName, serviceMap[serviceName])
					if !ok || seen[icon.ID] {
						continue
					}
					seen[icon.ID] = true
					icons = append(icons, icon)
				}
			}
		}
	}

	if len(icons) == 0 {
		return nil, ErrNoServices
	}
	return icons, nil
}

func mapService(name string, props ServiceProps) (Icon, bool) {
	href := strings.TrimSpace(props.Href)
	if href == "" {
		return Icon{}, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return Icon{}, false
	}
	hostname := u.Hostname()
	if hostname == "" {
		return Icon{}, false
	}

	id := IDPrefix + slug(hostname)
	name = strings.TrimSpace(name)
	if name == "" {
		name = extractServiceName(hostname)
	}

	record := domain.IconRecord{
		Name:     name,
		Link:     href,
		ImageSrc: imageSrc(props.Icon),
	}
	return Icon{ID: id, Record: record.WithDefaults(id)}, true
}

// slug lowercases hostname and replaces characters that are not DOM-safe.
// Example: "Jellyfin.Domain.EXT" -> "jellyfin.domain.ext"
func slug(hostname string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, hostname)
}

// imageSrc maps a Homepage icon reference to a desktop image path.
// Absolute URLs and paths are kept; named icons resolve to the icon pack;
// Material and Simple Icons references have no pack image.
func imageSrc(icon string) string {
	icon = strings.TrimSpace(icon)
	switch {
	case icon == "":
		return domain.DefaultImageSrc
	case strings.HasPrefix(icon, "http://"), strings.HasPrefix(icon, "https://"), strings.HasPrefix(icon, "/"):
		return icon
	case strings.HasPrefix(icon, "mdi-"), strings.HasPrefix(icon, "si-"), strings.HasPrefix(icon, "sh-"):
		return domain.DefaultImageSrc
	}
	base := strings.TrimSuffix(icon, path.Ext(icon))
	return "icons/pack/" + base + ".png"
}

// extractServiceName returns the first DNS label.
// Example: "jellyfin.domain.ext" -> "jellyfin"
func extractServiceName(hostname string) string {
	name, _, _ := strings.Cut(hostname, ".")
	return name
}
