package domain

// Wishlist is an ordered set of liked product identifiers.
type Wishlist struct {
	IDs []string `json:"ids"`
}

// Contains reports whether id is in the wishlist.
func (w *Wishlist) Contains(id string) bool {
	return w.indexOf(id) >= 0
}

// Toggle removes id when present and appends it otherwise. It returns true
// when id was added.
func (w *Wishlist) Toggle(id string) bool {
	if i := w.indexOf(id); i >= 0 {
		w.IDs = append(w.IDs[:i], w.IDs[i+1:]...)
		return false
	}
	w.IDs = append(w.IDs, id)
	return true
}

// Remove deletes id from the wishlist. It returns false when id was absent.
func (w *Wishlist) Remove(id string) bool {
	i := w.indexOf(id)
	if i < 0 {
		return false
	}
	w.IDs = append(w.IDs[:i], w.IDs[i+1:]...)
	return true
}

// Clear removes every identifier.
func (w *Wishlist) Clear() {
	w.IDs = []string{}
}

// Count returns the number of identifiers in the wishlist.
func (w *Wishlist) Count() int {
	return len(w.IDs)
}

func (w *Wishlist) indexOf(id string) int {
	for i, v := range w.IDs {
		if v == id {
			return i
		}
	}
	return -1
}

// DedupeIDs returns ids with empty strings and repeats removed, keeping the
// first occurrence of each.
func DedupeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
