package catalog

import (
	"sort"
	"strings"

	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// maxResults caps how many products a single search returns.
const maxResults = 2

// Index answers relevance-scored keyword queries over an immutable product
// list. It has no mutable state after construction, so it is safe for
// concurrent use.
type Index struct {
	products []chattypes.Product
}

// NewIndex creates an index over the given products. The slice is retained
// as-is; callers must not mutate it afterwards.
func NewIndex(products []chattypes.Product) *Index {
	return &Index{products: products}
}

// Len returns the number of products in the index.
func (idx *Index) Len() int {
	return len(idx.products)
}

// Search scores every product against the query terms and returns up to two
// matches, most relevant first.
//
// Scoring: the query is lowercased and split on whitespace. Each term found
// as a substring of the product's searchable text (title, description, and
// category) adds 1 point, with 2 bonus points when the term also occurs in
// the title. Zero-score products are discarded. Ties keep catalog order, so
// which of several equal-score matches surface is deterministic.
//
// An empty result is a valid outcome, not an error.
func (idx *Index) Search(query string) []chattypes.Product {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	if len(terms) == 0 {
		return nil
	}

	type scored struct {
		product chattypes.Product
		score   int
	}

	matches := make([]scored, 0)
	for _, product := range idx.products {
		title := strings.ToLower(product.DisplayTitle)
		searchable := title + " " + strings.ToLower(product.EmbeddingText) + " " + strings.ToLower(product.ProductType)

		score := 0
		for _, term := range terms {
			if strings.Contains(searchable, term) {
				score++
				if strings.Contains(title, term) {
					score += 2
				}
			}
		}

		if score > 0 {
			matches = append(matches, scored{product: product, score: score})
		}
	}

	// Stable sort preserves catalog order among equal scores.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	results := make([]chattypes.Product, len(matches))
	for i, m := range matches {
		results[i] = m.product
	}

	logger.Debug("Catalog search completed", "query", query, "results", len(results))
	return results
}
