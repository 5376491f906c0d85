package repo

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stockflow/inventory-api/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of
// ProductRepository, used by the handler test suites.
type InMemoryProductRepository struct {
	mu       sync.Mutex
	products []models.Product
	nextID   int
}

func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func matchesFilter(p models.Product, f ProductFilter) bool {
	if f.Search != "" && !containsFold(p.Name, f.Search) &&
		!containsFold(p.Description, f.Search) && !containsFold(p.SKU, f.Search) {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.LowStockOnly && !p.LowStock() {
		return false
	}
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (r *InMemoryProductRepository) Filter(f ProductFilter) ([]models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var filtered []models.Product
	for _, p := range r.products {
		if matchesFilter(p, f) {
			filtered = append(filtered, p)
		}
	}

	sortProducts(filtered, f)

	total := len(filtered)
	start := clamp(f.Offset, 0, total)
	end := total
	if f.Limit > 0 {
		end = clamp(start+f.Limit, start, total)
	}
	return filtered[start:end], total, nil
}

func sortProducts(products []models.Product, f ProductFilter) {
	col := f.SortColumn()
	sort.SliceStable(products, func(i, j int) bool {
		a, b := products[i], products[j]
		if f.OrderDesc {
			a, b = b, a
		}
		switch col {
		case "name":
			return a.Name < b.Name
		case "sku":
			return a.SKU < b.SKU
		case "price":
			return a.Price < b.Price
		case "quantity":
			return a.Quantity < b.Quantity
		case "category":
			return a.Category < b.Category
		case "created_at":
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.ID < b.ID
		}
	})
}

func (r *InMemoryProductRepository) Create(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}

	product.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products = append(r.products, product)
	return product, nil
}

func (r *InMemoryProductRepository) GetByID(id int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getByIDLocked(id)
}

func (r *InMemoryProductRepository) getByIDLocked(id int) (models.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetBySKU(sku string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == sku {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Update(product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.SKU == product.SKU && p.ID != product.ID {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}

	for i, p := range r.products {
		if p.ID == product.ID {
			product.CreatedAt = p.CreatedAt
			product.UpdatedAt = time.Now().UTC()
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			return nil
		}
	}
	return ErrProductNotFound
}

// AdjustQuantity performs the read-modify-write under the repository
// lock; concurrent adjustments to the same product apply in some
// serial order with no lost updates.
func (r *InMemoryProductRepository) AdjustQuantity(id int, delta int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, err := r.getByIDLocked(id)
	if err != nil {
		return models.Product{}, err
	}

	if product.Quantity+delta < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	product.Quantity += delta
	product.UpdatedAt = time.Now().UTC()
	for i, p := range r.products {
		if p.ID == id {
			r.products[i] = product
			break
		}
	}
	return product, nil
}

func (r *InMemoryProductRepository) Categories() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := map[string]bool{}
	var categories []string
	for _, p := range r.products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
}
