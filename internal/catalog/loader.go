// Package catalog holds the in-memory product catalog and answers scored
// keyword queries against it. The catalog is loaded once from a CSV file at
// startup and is read-only afterwards.
package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"shopchat/internal/logger"
	"shopchat/pkg/chattypes"
)

// Load reads the product catalog from a CSV file with a header row. Columns
// are mapped by header name, so column order in the file does not matter.
// A loading failure is fatal to startup, not to individual requests, so the
// error is returned to the caller rather than degraded.
func Load(path string) ([]chattypes.Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, missing cells map to ""

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog file %s has no header row", path)
	}

	columns := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		columns[name] = i
	}

	products := make([]chattypes.Product, 0, len(records)-1)
	for _, row := range records[1:] {
		cell := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		// Malformed discounts default to 0 rather than failing the load.
		discount, err := strconv.Atoi(cell("discount"))
		if err != nil {
			discount = 0
		}

		products = append(products, chattypes.Product{
			DisplayTitle:  cell("displayTitle"),
			EmbeddingText: cell("embeddingText"),
			URL:           cell("url"),
			ImageURL:      cell("imageUrl"),
			ProductType:   cell("productType"),
			Discount:      discount,
			Price:         cell("price"),
			Variants:      cell("variants"),
			CreateDate:    cell("createDate"),
		})
	}

	logger.Info("Catalog loaded", "path", path, "products", len(products))
	return products, nil
}
