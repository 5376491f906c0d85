package repo

import "math"

// InMemoryMetricsRepository recomputes aggregates from an in-memory
// product repository.
type InMemoryMetricsRepository struct {
	products *InMemoryProductRepository
}

func NewInMemoryMetricsRepository(products *InMemoryProductRepository) *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{products: products}
}

func (r *InMemoryMetricsRepository) GetInventoryValue() (InventoryValue, error) {
	products, total, err := r.products.Filter(ProductFilter{})
	if err != nil {
		return InventoryValue{}, err
	}

	m := InventoryValue{TotalProducts: total}
	for _, p := range products {
		m.TotalValue += p.TotalValue()
		if p.LowStock() {
			m.LowStockCount++
		}
	}
	m.TotalValue = math.Round(m.TotalValue*100) / 100
	return m, nil
}
