package template

import (
	"strings"
	"unicode/utf8"
)

// Sizing constants of the template node, in pixels.
const (
	MinWidth   = 220
	MaxWidth   = 400
	MinHeight  = 100
	CharWidth  = 8
	LineHeight = 20

	minLineLength = 10
	widthPadding  = 40
	heightPadding = 80
	minRows       = 3
)

// Dimensions computes the node size for text. Width follows the longest line
// and is clamped to [MinWidth, MaxWidth]; height follows the line count and is
// only bounded below.
func Dimensions(text string) (width, height int) {
	lines := strings.Split(text, "\n")
	longest := minLineLength
	for _, line := range lines {
		if n := utf8.RuneCountInString(line); n > longest {
			longest = n
		}
	}

	width = min(longest*CharWidth+widthPadding, MaxWidth)
	width = max(width, MinWidth)
	height = max(MinHeight, len(lines)*LineHeight+heightPadding)
	return width, height
}

// Rows is the number of visible textarea rows for text.
func Rows(text string) int {
	return max(minRows, strings.Count(text, "\n")+1)
}
