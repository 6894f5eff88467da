package loader

import "slices"

// SalesFilter selects orders for a sales view. Zero values disable a filter.
type SalesFilter struct {
	Years  []int
	Months []int
	Status string
}

// Delivered selects delivered orders placed in any of the given years.
func Delivered(years ...int) SalesFilter {
	return SalesFilter{Years: years, Status: "delivered"}
}

func (f SalesFilter) matches(year, month int, status string) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Years != nil && !slices.Contains(f.Years, year) {
		return false
	}
	if f.Months != nil && !slices.Contains(f.Months, month) {
		return false
	}
	return true
}
