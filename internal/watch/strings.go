package watch

import "github.com/mattn/go-runewidth"

// Truncate cuts a string to the given display width, appending an ellipsis
// when something was removed. Width is measured in terminal cells, not
// bytes, so wide runes count double.
func Truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
