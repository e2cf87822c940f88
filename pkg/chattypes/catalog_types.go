package chattypes

// Product is one entry of the in-memory product catalog, mapped 1:1 from the
// columns of the bulk catalog CSV. The catalog is loaded once at startup and
// read-only thereafter.
type Product struct {
	DisplayTitle  string `json:"displayTitle"`
	EmbeddingText string `json:"embeddingText"`
	URL           string `json:"url"`
	ImageURL      string `json:"imageUrl"`
	ProductType   string `json:"productType"`
	Discount      int    `json:"discount"`
	Price         string `json:"price"`
	Variants      string `json:"variants"`
	CreateDate    string `json:"createDate"`
}
