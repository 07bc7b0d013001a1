package domain

// LineItem is a single entry in a cart or wishlist: a point-in-time snapshot
// of a catalog product, keyed by the product id. The snapshot is copied when
// the item is added; later catalog changes do not alter stored items.
type LineItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`

	// Quantity is set only for cart items. Wishlist items carry no quantity
	// (implicitly 1) and omit the field on the wire.
	Quantity int `json:"quantity,omitempty"`
}

// Equal reports whether two line items refer to the same product.
// Identity is by product id alone; snapshot fields do not participate.
func (li LineItem) Equal(other LineItem) bool {
	return li.ID == other.ID
}

// Collection is an ordered sequence of line items with unique product ids.
// Insertion order is preserved.
type Collection []LineItem

// IndexOf returns the position of the item with the given product id,
// or -1 if absent.
func (c Collection) IndexOf(id string) int {
	for i := range c {
		if c[i].ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether an item with the given product id is present.
func (c Collection) Contains(id string) bool {
	return c.IndexOf(id) >= 0
}

// TotalPrice returns the sum of price times quantity over all items.
// Items without a quantity (wishlist entries) count as a single unit.
func (c Collection) TotalPrice() int64 {
	var total int64
	for i := range c {
		qty := c[i].Quantity
		if qty == 0 {
			qty = 1
		}
		total += c[i].Price * int64(qty)
	}
	return total
}

// Clone returns a copy of the collection that shares no backing array with
// the original, so readers can hold it while the owner keeps mutating.
func (c Collection) Clone() Collection {
	if c == nil {
		return Collection{}
	}
	out := make(Collection, len(c))
	copy(out, c)
	for i := range out {
		if len(c[i].Images) > 0 {
			out[i].Images = append([]string(nil), c[i].Images...)
		}
	}
	return out
}
