package domain

// Product is a read-only catalog entry.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ImageURL        string   `json:"image_url"`
	OriginalPrice   int64    `json:"original_price"`
	DiscountPrice   int64    `json:"discount_price"`
	OfferPercentage int      `json:"offer_percentage"`
	Rating          float64  `json:"rating"`
	RatingCount     int      `json:"rating_count"`
	Tags            []string `json:"tags"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
}

// ProductLookup resolves product identifiers against a catalog.
type ProductLookup interface {
	// Lookup returns the product with the given id and whether it exists.
	Lookup(id string) (Product, bool)
}
