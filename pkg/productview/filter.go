// Package productview is the product list screen without its markup: the
// search and category projections and the row actions dispatched to the store.
package productview

import (
	"strings"

	"kasir/pkg/productclient"
)

// Filter keeps the products whose name or category name contains query
// (case-insensitive, matched as typed including spaces) and, when selected
// is not empty, whose category name is one of selected. Only the given
// products are searched, so a paginated collection is filtered one page at
// a time.
func Filter(products []productclient.Product, query string, selected []string) []productclient.Product {
	q := strings.ToLower(query)
	inSelection := make(map[string]bool, len(selected))
	for _, name := range selected {
		inSelection[name] = true
	}

	out := make([]productclient.Product, 0, len(products))
	for _, p := range products {
		category := p.CategoryName()
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Nama), q) &&
			!(category != "" && strings.Contains(strings.ToLower(category), q)) {
			continue
		}
		if len(inSelection) > 0 && !inSelection[category] {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories lists the distinct non-empty category names of products in
// order of first appearance.
func Categories(products []productclient.Product) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range products {
		name := p.CategoryName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
