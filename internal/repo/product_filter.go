package repo

// ProductFilter narrows and pages a product listing.
type ProductFilter struct {
	Search       string // case-insensitive substring over name, description, SKU
	Category     string // exact match
	LowStockOnly bool   // quantity <= min_stock

	OrderBy   string // one of sortableColumns; anything else falls back to id
	OrderDesc bool

	Offset int
	Limit  int
}

var sortableColumns = map[string]bool{
	"name":       true,
	"sku":        true,
	"price":      true,
	"quantity":   true,
	"category":   true,
	"created_at": true,
}

// SortColumn returns the validated sort key, defaulting to insertion
// order (primary key ascending) for unknown values.
func (f ProductFilter) SortColumn() string {
	if sortableColumns[f.OrderBy] {
		return f.OrderBy
	}
	return "id"
}
