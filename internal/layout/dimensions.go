package layout

import "github.com/MrSnakeDoc/desk/internal/domain"

// DefaultPadding is the offset of the first grid cell from the desktop edge.
const DefaultPadding = 5

// Dimensions is the footprint of one icon in pixels.
type Dimensions struct {
	Width  int
	Height int
}

var dimensions = map[domain.Size]Dimensions{
	domain.SizeSmall:  {Width: 85, Height: 75},
	domain.SizeMedium: {Width: 100, Height: 95},
	domain.SizeLarge:  {Width: 115, Height: 115},
}

// DimensionsFor returns the icon footprint for size.
// Unknown sizes get the small footprint.
func DimensionsFor(size domain.Size) Dimensions {
	if d, ok := dimensions[size]; ok {
		return d
	}
	return dimensions[domain.SizeSmall]
}

// NextSize steps through the sizes in order, wrapping around at both ends.
// A positive direction upscales, a negative one downscales. An unknown
// current size is treated as small.
func NextSize(current domain.Size, direction int) domain.Size {
	n := len(domain.Sizes)
	idx := 0
	for i, s := range domain.Sizes {
		if s == current {
			idx = i
			break
		}
	}
	idx = ((idx+direction)%n + n) % n
	return domain.Sizes[idx]
}
