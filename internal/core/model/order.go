package model

// CategoryOrder is the caller supplied priority of category labels. Stack order
// and tooltip line order follow it.
type CategoryOrder []string

// Index returns the position of category in the order, or -1 when it is not listed.
func (o CategoryOrder) Index(category string) int {
	for i, c := range o {
		if c == category {
			return i
		}
	}
	return -1
}

// Contains reports whether category is listed.
func (o CategoryOrder) Contains(category string) bool {
	return o.Index(category) >= 0
}
