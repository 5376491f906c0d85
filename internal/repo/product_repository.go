package repo

import "github.com/stockflow/inventory-api/internal/models"

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product models.Product) (models.Product, error)
	GetByID(id int) (models.Product, error)
	GetBySKU(sku string) (models.Product, error)
	Update(product models.Product) (models.Product, error)
	Delete(id int) error
	Filter(filter ProductFilter) ([]models.Product, int, error)
	AdjustQuantity(id int, delta int) (models.Product, error)
	Categories() ([]string, error)
}
