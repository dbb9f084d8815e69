package types

// PossibilityList is a controlled vocabulary referenced by select and tags
// fields.
type PossibilityList struct {
	ID    string            // UUID v7.
	Name  string            // Unique human-readable name.
	Items []PossibilityItem // Ordered by Ordinal.
}

// PossibilityItem is one member of a possibility list.
type PossibilityItem struct {
	ID           string // UUID v7.
	ListID       string // Owning list.
	Name         string
	Abbreviation string
	Ordinal      int // Sort order; lower ordinals sort first.
}

// Find returns the item matching ref. The item ID is tried first, then the
// name, then the abbreviation. Matching is case-sensitive.
func (l *PossibilityList) Find(ref string) (PossibilityItem, bool) {
	if l == nil || ref == "" {
		return PossibilityItem{}, false
	}
	for _, it := range l.Items {
		if it.ID == ref {
			return it, true
		}
	}
	for _, it := range l.Items {
		if it.Name == ref {
			return it, true
		}
	}
	for _, it := range l.Items {
		if it.Abbreviation != "" && it.Abbreviation == ref {
			return it, true
		}
	}
	return PossibilityItem{}, false
}

// Contains reports whether the list has an item with the given ID.
func (l *PossibilityList) Contains(itemID string) bool {
	if l == nil {
		return false
	}
	for _, it := range l.Items {
		if it.ID == itemID {
			return true
		}
	}
	return false
}

// ItemByID returns the item with the given ID.
func (l *PossibilityList) ItemByID(itemID string) (PossibilityItem, bool) {
	if l == nil {
		return PossibilityItem{}, false
	}
	for _, it := range l.Items {
		if it.ID == itemID {
			return it, true
		}
	}
	return PossibilityItem{}, false
}
