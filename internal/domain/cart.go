package domain

// CartLine is a product in the cart together with its quantity.
// Quantity is always at least 1.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// ID returns the identifier of the product on this line.
func (l CartLine) ID() string {
	return l.Product.ID
}

// Subtotal returns the discounted price multiplied by the quantity.
func (l CartLine) Subtotal() int64 {
	return l.Product.DiscountPrice * int64(l.Quantity)
}

// StoredCartItem is the persisted form of a cart line.
type StoredCartItem struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// Cart is an ordered list of cart lines with at most one line per product.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total returns the sum of discountPrice * quantity over all lines.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Subtotal()
	}
	return total
}

// Count returns the total number of units in the cart.
func (c *Cart) Count() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// ItemsCount returns the number of distinct lines in the cart.
func (c *Cart) ItemsCount() int {
	return len(c.Lines)
}

// FindLineIndex returns the index of the line for productID, or -1.
func (c *Cart) FindLineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// AddUnit increments the quantity of the product's line, or appends a line
// with quantity 1. When limit is positive and the line already holds limit
// units the cart is left unchanged and AddUnit returns false.
func (c *Cart) AddUnit(product Product, limit int) bool {
	i := c.FindLineIndex(product.ID)
	if i < 0 {
		c.Lines = append(c.Lines, CartLine{Product: product, Quantity: 1})
		return true
	}
	if limit > 0 && c.Lines[i].Quantity >= limit {
		return false
	}
	c.Lines[i].Quantity++
	return true
}

// SetQuantity sets the quantity of the line for id. A quantity of zero or
// less removes the line. It returns false when the cart has no such line.
func (c *Cart) SetQuantity(id string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(id)
	}
	i := c.FindLineIndex(id)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = quantity
	return true
}

// Remove deletes the line for id. It returns false when the cart has no such
// line.
func (c *Cart) Remove(id string) bool {
	i := c.FindLineIndex(id)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = []CartLine{}
}

// Stored converts the cart into its persisted form, preserving line order.
func (c *Cart) Stored() []StoredCartItem {
	items := make([]StoredCartItem, len(c.Lines))
	for i, line := range c.Lines {
		items[i] = StoredCartItem{ID: line.Product.ID, Quantity: line.Quantity}
	}
	return items
}

// ResolveCart rebuilds cart lines from persisted items. Items whose product is
// no longer in the catalog, items with a non-positive quantity and repeated
// ids after the first occurrence are dropped.
func ResolveCart(stored []StoredCartItem, catalog ProductLookup) []CartLine {
	lines := make([]CartLine, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))
	for _, item := range stored {
		if item.Quantity < 1 {
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		product, ok := catalog.Lookup(item.ID)
		if !ok {
			continue
		}
		seen[item.ID] = struct{}{}
		lines = append(lines, CartLine{Product: product, Quantity: item.Quantity})
	}
	return lines
}
