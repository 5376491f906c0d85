package repo

// InventoryValue aggregates the whole product store. TotalValue is
// recomputed from price * quantity on every call, never cached in the
// database.
type InventoryValue struct {
	TotalProducts int     `json:"total_products"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int     `json:"low_stock_count"`
}

type MetricsRepository interface {
	GetInventoryValue() (InventoryValue, error)
}
