package layout

import "github.com/MrSnakeDoc/desk/internal/domain"

// Viewport is the visible desktop area in pixels.
type Viewport struct {
	Width  int
	Height int
}

// ArrangeGrid places ids column by column: a column is filled top to bottom
// before moving right. The result only depends on the arguments.
func ArrangeGrid(ids []string, size domain.Size, viewportHeight, padding int) map[string]domain.Position {
	dim := DimensionsFor(size)
	rows := rowsPerColumn(viewportHeight, dim)

	positions := make(map[string]domain.Position, len(ids))
	for i, id := range ids {
		positions[id] = cell(i, rows, dim, padding)
	}
	return positions
}

// NextInsertionSlot returns the cell ArrangeGrid would assign to index
// existingCount. Existing icons are not moved.
func NextInsertionSlot(existingCount int, size domain.Size, viewportHeight, padding int) domain.Position {
	dim := DimensionsFor(size)
	return cell(existingCount, rowsPerColumn(viewportHeight, dim), dim, padding)
}

// Clamp keeps an icon of the given size fully inside the viewport.
// Coordinates never go negative, even when the viewport is smaller than
// the icon.
func Clamp(pos domain.Position, size domain.Size, vp Viewport) domain.Position {
	dim := DimensionsFor(size)
	pos.X = max(0, min(pos.X, vp.Width-dim.Width))
	pos.Y = max(0, min(pos.Y, vp.Height-dim.Height))
	return pos
}

func rowsPerColumn(viewportHeight int, dim Dimensions) int {
	return max(1, viewportHeight/dim.Height)
}

func cell(index, rows int, dim Dimensions, padding int) domain.Position {
	col := index / rows
	row := index % rows
	return domain.Position{
		X: col*dim.Width + padding,
		Y: row*dim.Height + padding,
	}
}
