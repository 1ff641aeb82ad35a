package usecase

import "imgsim/internal/domain"

// UnknownSource is shown for records whose metadata carries no path.
const UnknownSource = "unknown source"

// DisplaySlot is one presentable query result.
type DisplaySlot struct {
	Path     string
	Distance float32
}

// Assemble maps raw query results back to displayable (path, distance)
// pairs, preserving order. The returned slice has length
// min(len(results), capacity); callers render any remaining requested slots
// as empty placeholders.
func Assemble(results []domain.QueryResult, capacity int) []DisplaySlot {
	n := len(results)
	if capacity < n {
		n = capacity
	}
	if n < 0 {
		n = 0
	}

	slots := make([]DisplaySlot, n)
	for i := 0; i < n; i++ {
		path, ok := results[i].Metadata[domain.MetaPath]
		if !ok || path == "" {
			path = UnknownSource
		}
		slots[i] = DisplaySlot{Path: path, Distance: results[i].Distance}
	}
	return slots
}
