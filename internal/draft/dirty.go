package draft

import "github.com/google/uuid"

// IsDirty reports whether draft differs structurally from committed. Rows are
// matched by service id; nil custom values mean "no override".
func IsDirty(draft, committed []Row) bool {
	if len(draft) != len(committed) {
		return true
	}

	byService := make(map[uuid.UUID]Row, len(committed))
	for _, r := range committed {
		byService[r.ServiceID] = r
	}

	for _, d := range draft {
		c, ok := byService[d.ServiceID]
		if !ok {
			return true
		}
		if d.CanPerform != c.CanPerform ||
			!equalPtr(d.CustomPriceMinor, c.CustomPriceMinor) ||
			!equalPtr(d.CustomDurationMinutes, c.CustomDurationMinutes) {
			return true
		}
	}
	return false
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
