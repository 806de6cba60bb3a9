package product

import "strings"

// Search returns active products whose name, SKU or barcode contains term,
// case-insensitively, in input order. A blank term matches nothing. A limit
// of zero or less means no limit.
func Search(products []Product, term string, limit int) []Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var out []Product
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if !matches(p, term) {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

func matches(p Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.SKU), term) ||
		(p.Barcode != "" && strings.Contains(strings.ToLower(p.Barcode), term))
}
