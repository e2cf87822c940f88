package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopchat/internal/catalog"
	"shopchat/pkg/chattypes"
)

func searchToolFixture() *SearchProducts {
	return NewSearchProducts(catalog.NewIndex([]chattypes.Product{
		{
			DisplayTitle:  "JBL Speaker Flip 5",
			EmbeddingText: "portable bluetooth speaker, green, waterproof",
			ProductType:   "Technology",
			Price:         "65.99",
			URL:           "https://example.com/jbl",
			Discount:      15,
		},
		{
			DisplayTitle:  "Desk Lamp",
			EmbeddingText: "warm white led lamp",
			ProductType:   "Home",
			Price:         "19.99",
		},
	}))
}

func TestSearchProducts_ReturnsMatchingProducts(t *testing.T) {
	tool := searchToolFixture()

	payload, err := tool.Execute(context.Background(), json.RawMessage(`{"query": "jbl speaker"}`))
	require.NoError(t, err)

	var result struct {
		Success  bool `json:"success"`
		Products []struct {
			Name        string `json:"name"`
			Price       string `json:"price"`
			Category    string `json:"category"`
			URL         string `json:"url"`
			HasDiscount bool   `json:"hasDiscount"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.True(t, result.Success)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "JBL Speaker Flip 5", result.Products[0].Name)
	assert.Equal(t, "65.99", result.Products[0].Price)
	assert.Equal(t, "Technology", result.Products[0].Category)
	assert.Equal(t, "https://example.com/jbl", result.Products[0].URL)
	assert.True(t, result.Products[0].HasDiscount)
}

func TestSearchProducts_NoMatchesIsSuccessWithMessage(t *testing.T) {
	tool := searchToolFixture()

	payload, err := tool.Execute(context.Background(), json.RawMessage(`{"query": "submarine"}`))
	require.NoError(t, err)

	var result struct {
		Success  bool              `json:"success"`
		Message  string            `json:"message"`
		Products []json.RawMessage `json:"products"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.True(t, result.Success)
	assert.Equal(t, "No products found matching the search query.", result.Message)
	assert.Empty(t, result.Products)
}

func TestSearchProducts_MalformedArgumentsFail(t *testing.T) {
	tool := searchToolFixture()

	_, err := tool.Execute(context.Background(), json.RawMessage(`{"query": 42`))
	assert.Error(t, err)
}

func TestSearchProducts_Definition(t *testing.T) {
	def := searchToolFixture().Definition()
	assert.Equal(t, SearchProductsName, def.Name)
	assert.Contains(t, def.Parameters, "query")
	assert.Equal(t, []string{"query"}, def.Required)
}
