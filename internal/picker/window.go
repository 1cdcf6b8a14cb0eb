package picker

import "unicode/utf8"

const ellipsis = "…"

// visibleRange returns the [start, end) slice of a list that keeps the
// cursor on screen when at most maxVisible rows fit.
func visibleRange(maxVisible, cursor, total int) (start, end int) {
	if maxVisible <= 0 {
		return 0, 0
	}
	if total <= maxVisible {
		return 0, total
	}

	if cursor >= maxVisible {
		start = cursor - maxVisible + 1
	}

	end = start + maxVisible
	if end > total {
		end = total
	}

	return start, end
}

// truncateLeft shortens a path to maxWidth runes by dropping its head, so
// the final directory names stay readable.
func truncateLeft(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	n := utf8.RuneCountInString(path)
	if n <= maxWidth {
		return path
	}
	if maxWidth <= 1 {
		return ellipsis
	}

	runes := []rune(path)
	return ellipsis + string(runes[n-maxWidth+1:])
}
