package handlers_test_suite

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	handler "github.com/stockflow/inventory-api/internal/http/handlers"
	api "github.com/stockflow/inventory-api/internal/http/router"
)

func TestCreateProduct_Valid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	w := createProduct(r, handler.ProductCreateRequest{
		Name:     "Laptop",
		SKU:      "LAP-001",
		Price:    1499.999,
		Quantity: 4,
		MinStock: 2,
		Category: "electronics",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}

	resp, err := decodeProduct(w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	if resp.Name != "Laptop" || resp.SKU != "LAP-001" {
		t.Errorf("unexpected product: %+v", resp)
	}
	if resp.Price != 1500.0 {
		t.Errorf("expected price rounded to 1500.0, got %v", resp.Price)
	}
	if resp.LowStock {
		t.Errorf("quantity 4 with min_stock 2 must not be low stock")
	}
	if resp.TotalValue != 6000.0 {
		t.Errorf("expected total_value 6000.0, got %v", resp.TotalValue)
	}

	// A subsequent get returns the same record.
	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", resp.ID), nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", w.Code)
	}
	got, _ := decodeProduct(w)
	if got != resp {
		t.Errorf("get returned a different record:\ncreated: %+v\ngot:     %+v", resp, got)
	}
}

func TestCreateProduct_Invalid(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	tests := []struct {
		name           string
		payload        handler.ProductCreateRequest
		expectedFields []string
	}{
		{
			name:           "missing name and sku, zero price",
			payload:        handler.ProductCreateRequest{},
			expectedFields: []string{"name", "sku", "price"},
		},
		{
			name:           "negative price",
			payload:        handler.ProductCreateRequest{Name: "Mouse", SKU: "M-1", Price: -5},
			expectedFields: []string{"price"},
		},
		{
			name:           "negative quantity",
			payload:        handler.ProductCreateRequest{Name: "Keyboard", SKU: "K-1", Price: 50, Quantity: -1},
			expectedFields: []string{"quantity"},
		},
		{
			name:           "negative min_stock",
			payload:        handler.ProductCreateRequest{Name: "Screen", SKU: "S-1", Price: 200, MinStock: -1},
			expectedFields: []string{"min_stock"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := createProduct(r, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}

			var resp struct {
				Errors []handler.ValidationError `json:"errors"`
			}
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}

			got := map[string]bool{}
			for _, e := range resp.Errors {
				got[e.Field] = true
			}
			for _, f := range tt.expectedFields {
				if !got[f] {
					t.Errorf("expected validation error for field %q, got %+v", f, resp.Errors)
				}
			}
		})
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	createProduct(r, handler.ProductCreateRequest{Name: "Widget", SKU: "W-1", Price: 9.99, Quantity: 5})

	w := createProduct(r, handler.ProductCreateRequest{Name: "Other Widget", SKU: "W-1", Price: 19.99, Quantity: 1})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}

	// The store still contains exactly one product with that SKU.
	list := listProducts(t, r, "/api/v1/products?search=W-1")
	if list.Total != 1 {
		t.Errorf("expected exactly one W-1 product, got %d", list.Total)
	}
}

func TestGetProductByID_NotFound(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	w := doJSON(r, http.MethodGet, "/api/v1/products/9999", nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestUpdateProduct_Partial(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	w := createProduct(r, handler.ProductCreateRequest{
		Name:     "Cable",
		SKU:      "C-1",
		Price:    3.50,
		Quantity: 100,
		Category: "accessories",
	})
	created, _ := decodeProduct(w)

	newPrice := 4.25
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", created.ID),
		handler.ProductUpdateRequest{Price: &newPrice}, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	updated, _ := decodeProduct(w)
	if updated.Price != 4.25 {
		t.Errorf("expected price 4.25, got %v", updated.Price)
	}
	// Untouched fields are preserved.
	if updated.Name != "Cable" || updated.SKU != "C-1" || updated.Quantity != 100 || updated.Category != "accessories" {
		t.Errorf("partial update changed unrelated fields: %+v", updated)
	}
}

func TestUpdateProduct_DuplicateSKU(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	createProduct(r, handler.ProductCreateRequest{Name: "First", SKU: "A-1", Price: 1, Quantity: 1})
	w := createProduct(r, handler.ProductCreateRequest{Name: "Second", SKU: "B-1", Price: 1, Quantity: 1})
	second, _ := decodeProduct(w)

	takenSKU := "A-1"
	w = doJSON(r, http.MethodPut, fmt.Sprintf("/api/v1/products/%d", second.ID),
		handler.ProductUpdateRequest{SKU: &takenSKU}, adminToken)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 Conflict, got %d", w.Code)
	}
}

func TestUpdateProduct_NotFound(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	name := "Ghost"
	w := doJSON(r, http.MethodPut, "/api/v1/products/9999",
		handler.ProductUpdateRequest{Name: &name}, adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()

	w := createProduct(r, handler.ProductCreateRequest{Name: "Doomed", SKU: "D-1", Price: 1, Quantity: 1})
	created, _ := decodeProduct(w)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), nil, adminToken)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", created.ID), nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/api/v1/products/%d", created.ID), nil, adminToken)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on double delete, got %d", w.Code)
	}
}

func listProducts(t *testing.T, r http.Handler, path string) handler.ProductListResult {
	t.Helper()
	w := doJSON(r, http.MethodGet, path, nil, adminToken)
	if w.Code != http.StatusOK {
		t.Fatalf("GET %s: expected 200, got %d", path, w.Code)
	}
	var resp handler.ProductListResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("error decoding list: %v", err)
	}
	return resp
}

func seedCatalog(t *testing.T, r http.Handler) {
	t.Helper()
	products := []handler.ProductCreateRequest{
		{Name: "Super Widget", SKU: "W-1", Price: 9.99, Quantity: 5, MinStock: 10, Category: "widgets"},
		{Name: "Gadget", SKU: "G-1", Price: 24.50, Quantity: 50, MinStock: 5, Category: "gadgets"},
		{Name: "Widget Pro", SKU: "W-2", Price: 19.99, Quantity: 0, MinStock: 0, Category: "widgets"},
		{Name: "Plain Thing", SKU: "T-1", Description: "a spare widget part", Price: 2.00, Quantity: 30},
	}
	for _, p := range products {
		if w := createProduct(r, p); w.Code != http.StatusCreated {
			t.Fatalf("seeding %s failed: %d %s", p.SKU, w.Code, w.Body.String())
		}
	}
}

func TestListProducts_Search(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()
	seedCatalog(t, r)

	// Case-insensitive substring over name, description and SKU.
	resp := listProducts(t, r, "/api/v1/products?search=widget")
	if resp.Total != 3 {
		t.Fatalf("expected 3 matches, got %d", resp.Total)
	}
	for _, item := range resp.Items {
		if item.SKU == "G-1" {
			t.Errorf("Gadget must not match search=widget")
		}
	}
}

func TestListProducts_CategoryFilter(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()
	seedCatalog(t, r)

	resp := listProducts(t, r, "/api/v1/products?category=widgets")
	if resp.Total != 2 {
		t.Fatalf("expected 2 widgets, got %d", resp.Total)
	}
}

func TestListProducts_LowStockFilter(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()
	seedCatalog(t, r)

	resp := listProducts(t, r, "/api/v1/products?low_stock=true")
	// W-1: 5 <= 10, W-2: 0 <= 0.
	if resp.Total != 2 {
		t.Fatalf("expected 2 low-stock products, got %d", resp.Total)
	}
	for _, item := range resp.Items {
		if !item.LowStock {
			t.Errorf("item %s in low-stock listing has low_stock=false", item.SKU)
		}
	}
}

func TestListProducts_Pagination(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()
	seedCatalog(t, r)

	resp := listProducts(t, r, "/api/v1/products?page=2&size=3")
	if resp.Total != 4 || resp.Pages != 2 || resp.Page != 2 || resp.Size != 3 {
		t.Fatalf("unexpected paging meta: %+v", resp)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("expected 1 item on the last page, got %d", len(resp.Items))
	}

	// Default ordering is insertion order; page 2 holds the last seed.
	if resp.Items[0].SKU != "T-1" {
		t.Errorf("expected T-1 on page 2, got %s", resp.Items[0].SKU)
	}
}

func TestListProducts_Sorting(t *testing.T) {
	t.Cleanup(clearAllProducts)
	r := api.New()
	seedCatalog(t, r)

	resp := listProducts(t, r, "/api/v1/products?order_by=price&order=desc")
	var prev float64 = 1 << 30
	for _, item := range resp.Items {
		if item.Price > prev {
			t.Fatalf("items not sorted by price desc: %+v", resp.Items)
		}
		prev = item.Price
	}

	// Unknown sort keys fall back to id ascending.
	resp = listProducts(t, r, "/api/v1/products?order_by=not-a-column")
	for i := 1; i < len(resp.Items); i++ {
		if resp.Items[i].ID < resp.Items[i-1].ID {
			t.Fatalf("fallback ordering not by id: %+v", resp.Items)
		}
	}
}
