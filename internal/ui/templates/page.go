// Package templates renders the dashboard page and its live fragments.
// Components live in the .templ files; run templ generate after editing them.
package templates

//go:generate templ generate

import (
	"strconv"
	"strings"
)

const defaultTitle = "E-commerce Analytics Dashboard"

// Page is the state the dashboard shell is rendered with. Sections are
// filled in afterwards over SSE.
type Page struct {
	Title    string
	Years    []int
	Selected int
	Notice   string
}

func pageTitle(p Page) string {
	if p.Title == "" {
		return defaultTitle
	}
	return p.Title
}

// yearSignals seeds the datastar store with the selected year.
func yearSignals(year int) string {
	return "{year: " + strconv.Itoa(year) + "}"
}

func joinYears(years []int) string {
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
