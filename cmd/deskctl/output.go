package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/MrSnakeDoc/desk/internal/desktop"
	"github.com/MrSnakeDoc/desk/internal/domain"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

var noColor bool

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(colorGreen, "✓ "+msg))
}

func printError(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(colorRed, "✗ "+msg))
}

func printWarning(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, colorize(colorYellow, "⚠ "+msg))
}

// printIcons renders the desktop as a table in display order. Positions that
// were computed rather than stored are marked with "*".
func printIcons(w io.Writer, size domain.Size, icons []desktop.IconView) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tX\tY\tLINK")
	for _, icon := range icons {
		y := strconv.Itoa(icon.Position.Y)
		if !icon.Placed {
			y += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", icon.ID, icon.Name, icon.Position.X, y, icon.Link)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d icons, size %s\n", len(icons), size)
}
