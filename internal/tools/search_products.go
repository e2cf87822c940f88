package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"shopchat/internal/catalog"
	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// SearchProductsName is the tool name advertised for catalog search.
const SearchProductsName = "searchProducts"

// SearchProducts exposes the catalog index as a callable capability.
type SearchProducts struct {
	index *catalog.Index
}

// NewSearchProducts creates the product-search tool over the given index.
func NewSearchProducts(index *catalog.Index) *SearchProducts {
	return &SearchProducts{index: index}
}

// Name returns the tool name.
func (t *SearchProducts) Name() string {
	return SearchProductsName
}

// Definition describes the tool for the generation service.
func (t *SearchProducts) Definition() chattypes.ToolDefinition {
	return chattypes.ToolDefinition{
		Name: SearchProductsName,
		Description: "search for products in the catalog. Returns up to 2 relevant products " +
			"based on the search query. Use this to find products by name, category, price, " +
			"color or description",
		Parameters: map[string]any{
			"query": map[string]any{
				"type": "string",
				"description": "the search query to find products. Can include product names, " +
					"categories (e.g., \"Technology\", \"Clothing\", \"Home\"), or descriptive terms",
			},
		},
		Required: []string{"query"},
	}
}

// searchProductsArgs is the argument object for one search call.
type searchProductsArgs struct {
	Query string `json:"query"`
}

// productResult is the per-product payload surfaced to the generation
// service. It deliberately omits catalog internals such as the embedding
// text.
type productResult struct {
	Name        string `json:"name"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	URL         string `json:"url"`
	HasDiscount bool   `json:"hasDiscount"`
}

// searchProductsResult is the JSON result payload for one search call.
type searchProductsResult struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message,omitempty"`
	Products []productResult `json:"products"`
}

// Execute runs a catalog search. An empty result is a success, signaled with
// an explanatory message rather than an error.
func (t *SearchProducts) Execute(_ context.Context, args json.RawMessage) (string, error) {
	var parsed searchProductsArgs
	if err := json.Unmarshal(args, &parsed); err != nil {
		return "", fmt.Errorf("invalid searchProducts arguments: %w", err)
	}

	logger.Debug("Executing tool", "tool", SearchProductsName, "query", parsed.Query)

	found := t.index.Search(parsed.Query)

	result := searchProductsResult{
		Success:  true,
		Products: make([]productResult, 0, len(found)),
	}
	if len(found) == 0 {
		result.Message = "No products found matching the search query."
	}
	for _, p := range found {
		result.Products = append(result.Products, productResult{
			Name:        p.DisplayTitle,
			Price:       p.Price,
			Category:    p.ProductType,
			URL:         p.URL,
			HasDiscount: p.Discount > 0,
		})
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to encode search result: %w", err)
	}
	return string(payload), nil
}
