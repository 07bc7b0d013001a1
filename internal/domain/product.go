package domain

// Product is a catalog entry. The catalog is the source of line-item
// snapshots but is otherwise external to the sync engine.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
	Stock       int      `json:"stock,omitempty"`
}

// Snapshot captures the product as a line item at this moment. The copy is
// by value: later changes to the catalog entry leave the snapshot untouched.
func (p Product) Snapshot() LineItem {
	return LineItem{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Category:    p.Category,
		Description: p.Description,
		Images:      append([]string(nil), p.Images...),
	}
}
